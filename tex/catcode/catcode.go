// catcode.go - TeX category codes
// Copyright (C) 2016  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package catcode implements the table which assigns a category to
// every input character.
package catcode

import "strconv"

// Category is one of the sixteen TeX character categories.
type Category int

// The TeX categories, numbered as in TeX.
const (
	Escape Category = iota
	BeginGroup
	EndGroup
	MathShift
	Tab
	EndOfLine
	Param
	Superscript
	Subscript
	Ignored
	Space
	Letter
	Other
	Active
	Comment
	Invalid
)

// Max is the largest valid category number.
const Max = Invalid

var categoryNames = []string{
	"escape",
	"begin-group",
	"end-group",
	"math-shift",
	"alignment-tab",
	"end-of-line",
	"parameter",
	"superscript",
	"subscript",
	"ignored",
	"space",
	"letter",
	"other",
	"active",
	"comment",
	"invalid",
}

func (c Category) String() string {
	if c >= 0 && int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "Category(" + strconv.Itoa(int(c)) + ")"
}

// Valid checks whether c is one of the sixteen categories.
func (c Category) Valid() bool {
	return c >= Escape && c <= Invalid
}

// Lookup gives the category of a character.
type Lookup interface {
	Catcode(r rune) Category
}

// Table assigns categories to characters.  Characters not listed in
// the table are of category Other, except for letters in the ASCII
// range which default to Letter.
type Table map[rune]Category

// Default returns a new table with the category codes used by plain
// TeX.
func Default() Table {
	t := Table{
		'\\':   Escape,
		'{':    BeginGroup,
		'}':    EndGroup,
		'$':    MathShift,
		'&':    Tab,
		'\n':   EndOfLine,
		'\r':   EndOfLine,
		'#':    Param,
		'^':    Superscript,
		'_':    Subscript,
		0:      Ignored,
		' ':    Space,
		'\t':   Space,
		'~':    Active,
		'%':    Comment,
		'\x7f': Invalid,
	}
	return t
}

// Catcode implements the Lookup interface.
func (t Table) Catcode(r rune) Category {
	if c, ok := t[r]; ok {
		return c
	}
	return Fallback(r)
}

// Fallback gives the category of a character which has no explicit
// entry in any table.
func Fallback(r rune) Category {
	if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
		return Letter
	}
	return Other
}

// Clone returns an independent copy of the table.
func (t Table) Clone() Table {
	res := make(Table, len(t))
	for r, c := range t {
		res[r] = c
	}
	return res
}
