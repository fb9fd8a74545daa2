// token.go -
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

import (
	"strconv"
	"strings"

	"github.com/seehuhn/texparser/tex/catcode"
)

// Kind is used to enumerate different kinds of token.
type Kind int

// The different token kinds used by this package.
const (
	Letter Kind = iota
	Other
	ControlSequence
	Active
	Param
	BeginGroup
	EndGroup
	MathShift
	Tab
	Superscript
	Subscript
	EndOfLine
	Space
	Comment
	SkippedSpaces
	SkippedEols
	Par
)

var kindNames = []string{
	"letter",
	"other",
	"control-sequence",
	"active",
	"param",
	"begin-group",
	"end-group",
	"math-shift",
	"tab",
	"superscript",
	"subscript",
	"end-of-line",
	"space",
	"comment",
	"skipped-spaces",
	"skipped-eols",
	"par",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Parameter digits with a special meaning.
const (
	// RawDigit marks a parameter character which is not followed by
	// a digit.
	RawDigit = 0

	// BraceDigit marks a parameter character which is followed by a
	// begin-group character.
	BraceDigit = -1
)

// Token contains information about a single syntactic unit in the TeX
// source.  Tokens are values and never change after construction.
type Token struct {
	// Kind describes which kind of token this is.
	Kind Kind

	// Char is the character code for all character tokens, including
	// spaces and ends of lines.
	Char rune

	// For ControlSequence tokens, this is the name of the control
	// sequence without the escape character.  For Par, Comment,
	// SkippedSpaces and SkippedEols tokens this is the source text
	// absorbed by the token.
	Name string

	// Digit and Depth describe Param tokens.  Depth counts the
	// additional parameter characters, so that "##1" has depth 1.
	Digit int
	Depth int

	// NoExpand marks tokens which must not be expanded in the
	// current context.
	NoExpand bool

	// hook is carried by the begin-group token of a split Group.
	hook ScopeHook
}

// NewChar returns a character token of the given kind.
func NewChar(kind Kind, r rune) Token {
	return Token{Kind: kind, Char: r}
}

// Hook returns the scope hook attached to a begin-group token, or nil.
func (tok Token) Hook() ScopeHook {
	return tok.hook
}

// WithHook returns a copy of tok which carries the given scope hook.
// The hook is not part of the token's identity and is never
// serialized.
func (tok Token) WithHook(hook ScopeHook) Token {
	tok.hook = hook
	return tok
}

// NewCS returns a control sequence token.
func NewCS(name string) Token {
	return Token{Kind: ControlSequence, Name: name}
}

// NewParam returns a parameter token.
func NewParam(digit, depth int) Token {
	return Token{Kind: Param, Char: '#', Digit: digit, Depth: depth}
}

// CanExpand is true for tokens which may have a meaning attached to
// them.  Whether expansion actually happens depends on the meaning.
func (tok Token) CanExpand() bool {
	return tok.Kind == ControlSequence || tok.Kind == Active
}

// IsExpansionBlocker is true for expandable tokens which must be
// passed through unexpanded.
func (tok Token) IsExpansionBlocker() bool {
	return tok.NoExpand && tok.CanExpand()
}

// IsPar checks for paragraph breaks, both from blank lines and from
// the \par control sequence.
func (tok Token) IsPar() bool {
	return tok.Kind == Par || tok.Kind == ControlSequence && tok.Name == "par"
}

// IsSingleToken implements the Node interface.
func (tok Token) IsSingleToken() bool {
	return true
}

// IsIgnorable is true for tokens which only record skipped input.
func (tok Token) IsIgnorable() bool {
	switch tok.Kind {
	case Comment, SkippedSpaces, SkippedEols:
		return true
	}
	return false
}

// IsBlank is true for space tokens, including single ends of lines.
func (tok Token) IsBlank() bool {
	return tok.Kind == Space || tok.Kind == EndOfLine
}

// IsControlWord checks whether tok is a control sequence whose name
// consists of letters.
func (tok Token) IsControlWord() bool {
	if tok.Kind != ControlSequence || tok.Name == "" {
		return false
	}
	for _, r := range tok.Name {
		if catcode.Fallback(r) != catcode.Letter {
			return false
		}
	}
	return true
}

// Catcode returns the category of a character token.  The second
// return value is false for tokens which are not character tokens.
func (tok Token) Catcode() (catcode.Category, bool) {
	switch tok.Kind {
	case Letter:
		return catcode.Letter, true
	case Other:
		return catcode.Other, true
	case Active:
		return catcode.Active, true
	case Param:
		return catcode.Param, true
	case BeginGroup:
		return catcode.BeginGroup, true
	case EndGroup:
		return catcode.EndGroup, true
	case MathShift:
		return catcode.MathShift, true
	case Tab:
		return catcode.Tab, true
	case Superscript:
		return catcode.Superscript, true
	case Subscript:
		return catcode.Subscript, true
	case Space, EndOfLine:
		return catcode.Space, true
	}
	return 0, false
}

// CharCode returns the character code used by \if comparisons.
// Tokens which are not characters give 256.
func (tok Token) CharCode() rune {
	switch tok.Kind {
	case ControlSequence, Par, Comment, SkippedSpaces, SkippedEols:
		return 256
	case Space, EndOfLine:
		return ' '
	}
	return tok.Char
}

// Equal compares tokens the way TeX matches delimiters: by kind and
// character code, or by name for control sequences.  All space tokens
// are equal.  The NoExpand flag is ignored.
func (tok Token) Equal(other Token) bool {
	if tok.IsBlank() && other.IsBlank() {
		return true
	}
	if tok.Kind != other.Kind {
		return false
	}
	switch tok.Kind {
	case ControlSequence:
		return tok.Name == other.Name
	case Param:
		return tok.Digit == other.Digit && tok.Depth == other.Depth
	case Par, Comment, SkippedSpaces, SkippedEols:
		return true
	}
	return tok.Char == other.Char
}

// String returns the source text for the token.
func (tok Token) String() string {
	switch tok.Kind {
	case ControlSequence:
		return "\\" + tok.Name
	case Param:
		res := strings.Repeat(string(tok.Char), tok.Depth+1)
		if tok.Digit > 0 {
			res += strconv.Itoa(tok.Digit)
		}
		return res
	case Space:
		if tok.Char == 0 {
			return " "
		}
	case EndOfLine:
		if tok.Name != "" {
			return tok.Name
		}
		if tok.Char == 0 {
			return "\n"
		}
	case Par:
		if tok.Name == "" {
			return "\n\n"
		}
		return tok.Name
	case Comment:
		return string(tok.Char) + tok.Name
	case SkippedSpaces, SkippedEols:
		return tok.Name
	}
	return string(tok.Char)
}

// Detokenize converts a token sequence back into source text.  A space
// is inserted after control words which would otherwise run into a
// following letter.
func Detokenize(toks []Token) string {
	var b strings.Builder
	for i, tok := range toks {
		b.WriteString(tok.String())
		if tok.IsControlWord() && i+1 < len(toks) && toks[i+1].Kind == Letter {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
