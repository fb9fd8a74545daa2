// factory.go -
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

package token

import "github.com/seehuhn/texparser/tex/catcode"

// Factory constructs the tokens produced by the tokenizer.  Hosts can
// supply their own factory to annotate or intern tokens.
type Factory interface {
	Char(cat catcode.Category, r rune) Token
	ControlSequence(name string) Token
	Param(r rune, digit, depth int) Token
	Text(kind Kind, r rune, text string) Token
}

// DefaultFactory creates plain tokens.
type DefaultFactory struct{}

// Char implements the Factory interface.
func (DefaultFactory) Char(cat catcode.Category, r rune) Token {
	return NewChar(KindOf(cat), r)
}

// ControlSequence implements the Factory interface.
func (DefaultFactory) ControlSequence(name string) Token {
	return NewCS(name)
}

// Param implements the Factory interface.
func (DefaultFactory) Param(r rune, digit, depth int) Token {
	tok := NewParam(digit, depth)
	tok.Char = r
	return tok
}

// Text implements the Factory interface.  It is used for tokens
// which record a stretch of source text, like comments.
func (DefaultFactory) Text(kind Kind, r rune, text string) Token {
	return Token{Kind: kind, Char: r, Name: text}
}

// KindOf maps character categories to token kinds.  Categories which
// never produce character tokens map to Other.
func KindOf(cat catcode.Category) Kind {
	switch cat {
	case catcode.Letter:
		return Letter
	case catcode.BeginGroup:
		return BeginGroup
	case catcode.EndGroup:
		return EndGroup
	case catcode.MathShift:
		return MathShift
	case catcode.Tab:
		return Tab
	case catcode.Superscript:
		return Superscript
	case catcode.Subscript:
		return Subscript
	case catcode.Space:
		return Space
	case catcode.EndOfLine:
		return EndOfLine
	case catcode.Active:
		return Active
	case catcode.Param:
		return Param
	}
	return Other
}
