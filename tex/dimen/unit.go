// unit.go - units of length
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

// Package dimen implements dimensions and glue.  Quantities are kept
// symbolically, in the unit they were given in, and are only
// converted when needed.
package dimen

import (
	"strings"

	"github.com/seehuhn/texparser/tex/diag"
)

// Fixed enumerates the absolute units of TeX.
type Fixed int

// The absolute units.
const (
	PT Fixed = iota
	PC
	IN
	BP
	CM
	MM
	DD
	CC
	SP
)

var fixedNames = []string{"pt", "pc", "in", "bp", "cm", "mm", "dd", "cc", "sp"}

// ptPerUnit gives the length of each unit in points.
var ptPerUnit = []float64{
	PT: 1,
	PC: 12,
	IN: 72.27,
	BP: 72.27 / 72,
	CM: 72.27 / 2.54,
	MM: 72.27 / 25.4,
	DD: 1238.0 / 1157,
	CC: 12 * 1238.0 / 1157,
	SP: 1.0 / 65536,
}

// PageDim enumerates the page dimensions which can be used as
// percentage units.
type PageDim int

// The page dimensions.
const (
	LineWidth PageDim = iota
	ColumnWidth
	TextWidth
	ColumnHeight
	TextHeight
	HSize
	VSize
	PaperWidth
	PaperHeight
	MarginParWidth
)

// PageDimNames gives the control sequence names of the page
// dimensions.
var PageDimNames = []string{
	"linewidth",
	"columnwidth",
	"textwidth",
	"columnheight",
	"textheight",
	"hsize",
	"vsize",
	"paperwidth",
	"paperheight",
	"marginparwidth",
}

func (d PageDim) String() string {
	if d >= 0 && int(d) < len(PageDimNames) {
		return "\\" + PageDimNames[d]
	}
	return "\\?"
}

// PageProvider supplies the current page geometry.  PageDimension
// returns the requested dimension in big points.
type PageProvider interface {
	PageDimension(d PageDim) float64
}

type unitKind int

const (
	kindFixed unitKind = iota
	kindPercent
	kindFil
)

// Unit is either an absolute unit, a percentage of a page dimension
// or one of the infinite units fil, fill and filll.
type Unit struct {
	kind  unitKind
	fixed Fixed
	page  PageDim
	order int
}

// FixedUnit returns the Unit for an absolute unit.
func FixedUnit(f Fixed) Unit {
	return Unit{kind: kindFixed, fixed: f}
}

// Percent returns the unit "one percent of d".
func Percent(d PageDim) Unit {
	return Unit{kind: kindPercent, page: d}
}

// Fil returns the infinite unit of the given order (1 to 3).
func Fil(order int) Unit {
	return Unit{kind: kindFil, order: order}
}

// Points is the default unit.
var Points = FixedUnit(PT)

// ParseUnit recognises the names of absolute and infinite units.
func ParseUnit(name string) (Unit, bool) {
	name = strings.ToLower(name)
	for i, n := range fixedNames {
		if n == name {
			return FixedUnit(Fixed(i)), true
		}
	}
	switch name {
	case "fil":
		return Fil(1), true
	case "fill":
		return Fil(2), true
	case "filll":
		return Fil(3), true
	}
	return Unit{}, false
}

// IsFil checks whether u is one of the infinite units.
func (u Unit) IsFil() bool {
	return u.kind == kindFil
}

// Order returns the order of an infinite unit, and 0 for all other
// units.
func (u Unit) Order() int {
	if u.kind != kindFil {
		return 0
	}
	return u.order
}

func (u Unit) String() string {
	switch u.kind {
	case kindPercent:
		return "%" + u.page.String()
	case kindFil:
		return "fi" + strings.Repeat("l", u.order)
	}
	return fixedNames[u.fixed]
}

// MarshalText implements the encoding.TextMarshaler interface.
func (u Unit) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (u *Unit) UnmarshalText(text []byte) error {
	name := string(text)
	if strings.HasPrefix(name, "%\\") {
		for i, n := range PageDimNames {
			if n == name[2:] {
				*u = Percent(PageDim(i))
				return nil
			}
		}
	} else if v, ok := ParseUnit(name); ok {
		*u = v
		return nil
	}
	return diag.New(diag.Semantic, diag.ErrMissingUnit)
}

// GobEncode implements the gob.GobEncoder interface, so that
// dimensions can be stored in format files.  The unit is stored by
// name.
func (u Unit) GobEncode() ([]byte, error) {
	return u.MarshalText()
}

// GobDecode implements the gob.GobDecoder interface.
func (u *Unit) GobDecode(data []byte) error {
	return u.UnmarshalText(data)
}

// PerPoint returns how many points one unit amounts to.  Infinite
// units cannot be converted.
func (u Unit) PerPoint(p PageProvider) (float64, error) {
	switch u.kind {
	case kindFixed:
		return ptPerUnit[u.fixed], nil
	case kindPercent:
		if p == nil {
			p = DefaultPage
		}
		bp := p.PageDimension(u.page)
		return bp * ptPerUnit[BP] * 0.01, nil
	}
	return 0, diag.New(diag.Semantic, diag.ErrMissingUnit)
}

// Convert expresses the value x, given in unit from, in the unit to.
func Convert(x float64, from, to Unit, p PageProvider) (float64, error) {
	if from.IsFil() || to.IsFil() {
		if from == to {
			return x, nil
		}
		return 0, diag.New(diag.Semantic, diag.ErrMissingUnit)
	}
	a, err := from.PerPoint(p)
	if err != nil {
		return 0, err
	}
	b, err := to.PerPoint(p)
	if err != nil {
		return 0, err
	}
	if b == 0 {
		return 0, diag.New(diag.Semantic, diag.ErrDivideByZero)
	}
	return x * a / b, nil
}

// StaticPage is a PageProvider with fixed values, in big points.
type StaticPage map[PageDim]float64

// PageDimension implements the PageProvider interface.
func (s StaticPage) PageDimension(d PageDim) float64 {
	return s[d]
}

// DefaultPage describes an A4 page with the text block of the LaTeX
// article class.
var DefaultPage = StaticPage{
	LineWidth:      345 * 72 / 72.27,
	ColumnWidth:    345 * 72 / 72.27,
	TextWidth:      345 * 72 / 72.27,
	ColumnHeight:   550 * 72 / 72.27,
	TextHeight:     550 * 72 / 72.27,
	HSize:          345 * 72 / 72.27,
	VSize:          550 * 72 / 72.27,
	PaperWidth:     595.276,
	PaperHeight:    841.89,
	MarginParWidth: 65 * 72 / 72.27,
}
