// prim_expand.go - expandable primitives
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

package engine

import (
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/seehuhn/texparser/tex/diag"
	"github.com/seehuhn/texparser/tex/dimen"
	"github.com/seehuhn/texparser/tex/token"
)

func (e *Engine) addExpandPrimitives() {
	e.primitive(&Primitive{Name: "expandafter", Expand: expandExpandafter})
	e.primitive(&Primitive{Name: "noexpand", Expand: expandNoexpand})
	e.primitive(&Primitive{Name: "csname", Expand: expandCsname})
	e.primitive(&Primitive{Name: "endcsname", Exec: func(e *Engine, s *Stack, tok token.Token, p Prefix) error {
		return e.errorf(diag.Semantic, diag.ErrExtra, tok.String())
	}})
	e.primitive(&Primitive{Name: "string", Expand: expandString})
	e.primitive(&Primitive{Name: "number", Expand: expandNumber})
	e.primitive(&Primitive{Name: "romannumeral", Expand: expandRomannumeral})
	e.primitive(&Primitive{Name: "the", Expand: expandThe})
	e.primitive(&Primitive{Name: "meaning", Expand: expandMeaning})
	e.primitive(&Primitive{Name: "detokenize", Expand: expandDetokenize})
	e.primitive(&Primitive{Name: "unexpanded", Expand: expandUnexpanded})
	e.primitive(&Primitive{Name: "uppercase", Expand: changeCase(unicode.ToUpper)})
	e.primitive(&Primitive{Name: "lowercase", Expand: changeCase(unicode.ToLower)})
	e.primitive(&Primitive{Name: "jobname", Expand: func(e *Engine, s *Stack, tok token.Token) ([]token.Token, error) {
		return strTokens(e.jobName), nil
	}})
}

// strTokens converts a string into Other tokens, as \string and
// \the do.  Spaces become space tokens.
func strTokens(text string) []token.Token {
	var res []token.Token
	for _, r := range text {
		if r == ' ' {
			res = append(res, token.NewChar(token.Space, ' '))
		} else {
			res = append(res, token.NewChar(token.Other, r))
		}
	}
	return res
}

func expandExpandafter(e *Engine, s *Stack, tok token.Token) ([]token.Token, error) {
	first, err := e.PopToken(s, 0)
	if err == io.EOF {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	_, err = e.ExpandOnce(s)
	if err != nil && err != io.EOF {
		return nil, err
	}
	return []token.Token{first}, nil
}

func expandNoexpand(e *Engine, s *Stack, tok token.Token) ([]token.Token, error) {
	next, err := e.PopToken(s, 0)
	if err == io.EOF {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	if e.isExpandable(next, false) {
		next.NoExpand = true
	}
	return []token.Token{next}, nil
}

// readCsName expands tokens up to \endcsname and returns the
// characters found on the way.
func (e *Engine) readCsName(s *Stack, tok token.Token) (string, error) {
	endcsname := e.root.Lookup("endcsname")
	var b strings.Builder
	for {
		t, err := e.nextExpanded(s)
		if err == io.EOF {
			return b.String(), e.errorf(diag.Syntax, diag.ErrMissingEndCsname)
		} else if err != nil {
			return "", err
		}
		if t.CanExpand() {
			if resolve(e.scope.meaning(t)) == endcsname && !t.NoExpand {
				return b.String(), nil
			}
			s.Push(t)
			return b.String(), e.errorf(diag.Syntax, diag.ErrMissingEndCsname)
		}
		b.WriteRune(t.CharCode())
	}
}

func expandCsname(e *Engine, s *Stack, tok token.Token) ([]token.Token, error) {
	name, err := e.readCsName(s, tok)
	if err != nil {
		e.sink.Error(err)
	}
	if e.scope.Lookup(name) == nil {
		e.scope.Define(name, e.relax, false)
	}
	return []token.Token{e.factory.ControlSequence(name)}, nil
}

func expandString(e *Engine, s *Stack, tok token.Token) ([]token.Token, error) {
	next, err := e.PopToken(s, 0)
	if err == io.EOF {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	if next.Kind == token.ControlSequence {
		return strTokens("\\" + next.Name), nil
	}
	return strTokens(string(next.CharCode())), nil
}

func expandNumber(e *Engine, s *Stack, tok token.Token) ([]token.Token, error) {
	n, err := e.PopNumber(s)
	if err = e.soft(err); err != nil {
		return nil, err
	}
	return strTokens(strconv.Itoa(int(n))), nil
}

func expandRomannumeral(e *Engine, s *Stack, tok token.Token) ([]token.Token, error) {
	n, err := e.PopNumber(s)
	if err = e.soft(err); err != nil {
		return nil, err
	}
	return strTokens(roman(int(n))), nil
}

var romanDigits = []struct {
	value int
	text  string
}{
	{1000, "m"}, {900, "cm"}, {500, "d"}, {400, "cd"},
	{100, "c"}, {90, "xc"}, {50, "l"}, {40, "xl"},
	{10, "x"}, {9, "ix"}, {5, "v"}, {4, "iv"}, {1, "i"},
}

// roman formats n as a lower case roman numeral.  Non-positive numbers
// give the empty string.
func roman(n int) string {
	var b strings.Builder
	for _, d := range romanDigits {
		for n >= d.value {
			b.WriteString(d.text)
			n -= d.value
		}
	}
	return b.String()
}

func expandThe(e *Engine, s *Stack, tok token.Token) ([]token.Token, error) {
	next, err := e.nextNonBlank(s)
	if err == io.EOF {
		return nil, e.errorf(diag.Semantic, diag.ErrCantUse, "end of input")
	} else if err != nil {
		return nil, err
	}
	q, ok, err := e.internalQuantity(next, s)
	if err = e.soft(err); err != nil {
		return nil, err
	}
	if !ok {
		return nil, e.errorf(diag.Semantic, diag.ErrCantUse, next.String())
	}
	return e.quantityTokens(q)
}

// quantityTokens converts an internal quantity into the tokens shown
// by \the.
func (e *Engine) quantityTokens(q Quantity) ([]token.Token, error) {
	switch q.Kind {
	case IntQuantity:
		return strTokens(strconv.Itoa(int(q.Int))), nil
	case DimenQuantity:
		text, err := e.dimenString(q.Glue.Natural)
		return strTokens(text), err
	case GlueQuantity:
		text, err := e.glueString(q.Glue)
		return strTokens(text), err
	}
	res := append([]token.Token(nil), q.Toks...)
	if e.full > 0 {
		for i := range res {
			if res[i].CanExpand() {
				res[i].NoExpand = true
			}
		}
	}
	return res, nil
}

// dimenString formats d the way \the shows dimensions: in points, or
// in the infinite units.
func (e *Engine) dimenString(d dimen.Dimension) (string, error) {
	if d.Unit.IsFil() {
		return d.String(), nil
	}
	pt, err := d.ToPt(e.page)
	if err != nil {
		return "", e.locate(err)
	}
	return dimen.FormatNumber(pt) + "pt", nil
}

func (e *Engine) glueString(g dimen.Glue) (string, error) {
	res, err := e.dimenString(g.Natural)
	if err != nil {
		return "", err
	}
	if !g.Stretch.IsZero() {
		text, err := e.dimenString(g.Stretch)
		if err != nil {
			return "", err
		}
		res += " plus " + text
	}
	if !g.Shrink.IsZero() {
		text, err := e.dimenString(g.Shrink)
		if err != nil {
			return "", err
		}
		res += " minus " + text
	}
	return res, nil
}

func expandMeaning(e *Engine, s *Stack, tok token.Token) ([]token.Token, error) {
	next, err := e.PopToken(s, 0)
	if err == io.EOF {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return strTokens(e.meaningString(next)), nil
}

// detokenize converts tokens to text.  Like TeX, a space follows every
// control word.
func detokenize(toks []token.Token) string {
	var b strings.Builder
	for _, t := range toks {
		b.WriteString(t.String())
		if t.IsControlWord() {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func expandDetokenize(e *Engine, s *Stack, tok token.Token) ([]token.Token, error) {
	toks, err := e.popGroup(s)
	if err != nil {
		return nil, err
	}
	return strTokens(detokenize(toks)), nil
}

func expandUnexpanded(e *Engine, s *Stack, tok token.Token) ([]token.Token, error) {
	toks, err := e.popGroup(s)
	if err != nil {
		return nil, err
	}
	if e.full > 0 {
		for i := range toks {
			if toks[i].CanExpand() {
				toks[i].NoExpand = true
			}
		}
	}
	return toks, nil
}

func changeCase(conv func(rune) rune) ExpandFunc {
	return func(e *Engine, s *Stack, tok token.Token) ([]token.Token, error) {
		toks, err := e.popGroup(s)
		if err != nil {
			return nil, err
		}
		for i, t := range toks {
			if t.Kind == token.Letter || t.Kind == token.Other {
				toks[i].Char = conv(t.Char)
			}
		}
		return toks, nil
	}
}
