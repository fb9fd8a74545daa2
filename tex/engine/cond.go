// cond.go - conditionals
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

	"github.com/seehuhn/texparser/tex/diag"
	"github.com/seehuhn/texparser/tex/token"
)

// condFrame records a conditional whose \fi has not been seen yet.
type condFrame struct {
	tok      token.Token
	isCase   bool
	elseSeen bool
}

// A condTest evaluates the test of a conditional.
type condTest func(e *Engine, s *Stack, tok token.Token) (bool, error)

func (e *Engine) addCondPrimitives() {
	tests := map[string]condTest{
		"if":        testIf,
		"ifcat":     testIfcat,
		"ifx":       testIfx,
		"ifnum":     testIfnum,
		"ifdim":     testIfdim,
		"ifodd":     testIfodd,
		"ifdefined": testIfdefined,
		"ifcsname":  testIfcsname,
		"ifmmode": func(e *Engine, s *Stack, tok token.Token) (bool, error) {
			return e.scope.inMath(), nil
		},
		"iftrue": func(e *Engine, s *Stack, tok token.Token) (bool, error) {
			return true, nil
		},
		"iffalse": func(e *Engine, s *Stack, tok token.Token) (bool, error) {
			return false, nil
		},
	}
	for name, test := range tests {
		e.primitive(&Primitive{Name: name, Expand: conditional(test), cond: condIf})
	}
	e.primitive(&Primitive{Name: "ifcase", Expand: expandIfcase, cond: condIf})
	e.primitive(&Primitive{Name: "else", Expand: expandElse, cond: condElse})
	e.primitive(&Primitive{Name: "or", Expand: expandOr, cond: condOr})
	e.primitive(&Primitive{Name: "fi", Expand: expandFi, cond: condFi})
}

func conditional(test condTest) ExpandFunc {
	return func(e *Engine, s *Stack, tok token.Token) ([]token.Token, error) {
		value, err := test(e, s, tok)
		if err = e.soft(err); err != nil {
			return nil, err
		}
		if e.trace.Enabled(diag.TraceConditional) {
			e.trace.Printf(diag.TraceConditional, "{%s: %t}", tok, value)
		}
		e.conds = append(e.conds, condFrame{tok: tok})
		if value {
			return nil, nil
		}
		return nil, e.skipToElse(s)
	}
}

// skipToElse skips the false branch of the innermost conditional.
func (e *Engine) skipToElse(s *Stack) error {
	top := &e.conds[len(e.conds)-1]
	for {
		kind, err := e.skipBranch(s, top.tok)
		if err != nil {
			return err
		}
		switch kind {
		case condElse:
			top.elseSeen = true
			return nil
		case condFi:
			e.conds = e.conds[:len(e.conds)-1]
			return nil
		}
		// an \or outside \ifcase
		e.sink.Error(e.errorf(diag.Syntax, diag.ErrExtra, "\\or"))
	}
}

// skipBranch discards tokens up to the next \else, \or or \fi which
// belongs to the current conditional.  Nested conditionals are skipped
// as a whole.
func (e *Engine) skipBranch(s *Stack, tok token.Token) (condKind, error) {
	level := 0
	for {
		t, err := e.PopToken(s, 0)
		if err == io.EOF {
			e.conds = e.conds[:len(e.conds)-1]
			return condNone, e.errorf(diag.Lexical, diag.ErrIncompleteIf, tok.String())
		} else if err != nil {
			return condNone, err
		}
		if !t.CanExpand() || t.NoExpand {
			continue
		}
		p, ok := resolve(e.scope.meaning(t)).(*Primitive)
		if !ok {
			continue
		}
		switch p.cond {
		case condIf:
			level++
		case condFi:
			if level == 0 {
				return condFi, nil
			}
			level--
		case condElse, condOr:
			if level == 0 {
				return p.cond, nil
			}
		}
	}
}

// skipToFi discards the rest of the innermost conditional, after its
// selected branch has ended.
func (e *Engine) skipToFi(s *Stack) error {
	tok := e.conds[len(e.conds)-1].tok
	for {
		kind, err := e.skipBranch(s, tok)
		if err != nil {
			return err
		}
		if kind == condFi {
			e.conds = e.conds[:len(e.conds)-1]
			return nil
		}
	}
}

func expandElse(e *Engine, s *Stack, tok token.Token) ([]token.Token, error) {
	n := len(e.conds)
	if n == 0 || e.conds[n-1].elseSeen {
		return nil, e.errorf(diag.Syntax, diag.ErrExtra, tok.String())
	}
	return nil, e.skipToFi(s)
}

func expandOr(e *Engine, s *Stack, tok token.Token) ([]token.Token, error) {
	n := len(e.conds)
	if n == 0 || !e.conds[n-1].isCase || e.conds[n-1].elseSeen {
		return nil, e.errorf(diag.Syntax, diag.ErrExtra, tok.String())
	}
	return nil, e.skipToFi(s)
}

func expandFi(e *Engine, s *Stack, tok token.Token) ([]token.Token, error) {
	n := len(e.conds)
	if n == 0 {
		return nil, e.errorf(diag.Syntax, diag.ErrExtra, tok.String())
	}
	e.conds = e.conds[:n-1]
	return nil, nil
}

func expandIfcase(e *Engine, s *Stack, tok token.Token) ([]token.Token, error) {
	n, err := e.PopNumber(s)
	if err = e.soft(err); err != nil {
		return nil, err
	}
	if e.trace.Enabled(diag.TraceConditional) {
		e.trace.Printf(diag.TraceConditional, "{%s: case %d}", tok, n)
	}
	e.conds = append(e.conds, condFrame{tok: tok, isCase: true})
	top := len(e.conds) - 1
	for n != 0 {
		kind, err := e.skipBranch(s, tok)
		if err != nil {
			return nil, err
		}
		switch kind {
		case condOr:
			if n > 0 {
				n--
			}
		case condElse:
			e.conds[top].elseSeen = true
			return nil, nil
		case condFi:
			e.conds = e.conds[:top]
			return nil, nil
		}
	}
	return nil, nil
}

// charCode returns the character code used by \if.  Control sequences
// which were \let to a character stand for that character.
func (e *Engine) charCode(tok token.Token) rune {
	if tok.CanExpand() && !tok.NoExpand {
		if c, ok := resolve(e.scope.meaning(tok)).(*LetToken); ok {
			return c.Token.CharCode()
		}
	}
	if tok.Kind == token.Active {
		return tok.Char
	}
	return tok.CharCode()
}

// catCode returns the category used by \ifcat.  Control sequences give
// 16.
func (e *Engine) catCode(tok token.Token) int {
	if tok.CanExpand() && !tok.NoExpand {
		if c, ok := resolve(e.scope.meaning(tok)).(*LetToken); ok {
			tok = c.Token
		}
	}
	if cat, ok := tok.Catcode(); ok {
		return int(cat)
	}
	return 16
}

func (e *Engine) twoTokens(s *Stack, tok token.Token) (token.Token, token.Token, error) {
	a, err := e.nextExpanded(s)
	if err != nil {
		return a, a, e.eofError(err, tok)
	}
	b, err := e.nextExpanded(s)
	if err != nil {
		return a, b, e.eofError(err, tok)
	}
	return a, b, nil
}

func testIf(e *Engine, s *Stack, tok token.Token) (bool, error) {
	a, b, err := e.twoTokens(s, tok)
	if err != nil {
		return false, err
	}
	return e.charCode(a) == e.charCode(b), nil
}

func testIfcat(e *Engine, s *Stack, tok token.Token) (bool, error) {
	a, b, err := e.twoTokens(s, tok)
	if err != nil {
		return false, err
	}
	return e.catCode(a) == e.catCode(b), nil
}

func testIfx(e *Engine, s *Stack, tok token.Token) (bool, error) {
	a, err := e.PopToken(s, 0)
	if err != nil {
		return false, e.eofError(err, tok)
	}
	b, err := e.PopToken(s, 0)
	if err != nil {
		return false, e.eofError(err, tok)
	}
	return e.sameMeaning(a, b), nil
}

// relation reads one of <, = and >.  If none is found, = is assumed.
func (e *Engine) relation(s *Stack, tok token.Token) (rune, error) {
	t, err := e.nextNonBlank(s)
	if err != nil && err != io.EOF {
		return 0, err
	}
	if err == nil && t.Kind == token.Other {
		switch t.Char {
		case '<', '=', '>':
			return t.Char, nil
		}
	}
	if err == nil {
		s.Push(t)
	}
	e.sink.Error(e.errorf(diag.Syntax, diag.ErrMissingRelation, tok.String()))
	return '=', nil
}

func compare(a float64, rel rune, b float64) bool {
	switch rel {
	case '<':
		return a < b
	case '>':
		return a > b
	}
	return a == b
}

func testIfnum(e *Engine, s *Stack, tok token.Token) (bool, error) {
	a, err := e.PopNumber(s)
	if err = e.soft(err); err != nil {
		return false, err
	}
	rel, err := e.relation(s, tok)
	if err != nil {
		return false, err
	}
	b, err := e.PopNumber(s)
	if err = e.soft(err); err != nil {
		return false, err
	}
	return compare(float64(a), rel, float64(b)), nil
}

func testIfdim(e *Engine, s *Stack, tok token.Token) (bool, error) {
	a, err := e.PopDimension(s)
	if err = e.soft(err); err != nil {
		return false, err
	}
	rel, err := e.relation(s, tok)
	if err != nil {
		return false, err
	}
	b, err := e.PopDimension(s)
	if err = e.soft(err); err != nil {
		return false, err
	}
	x, err := a.ToPt(e.page)
	if err != nil {
		return false, e.locate(err)
	}
	y, err := b.ToPt(e.page)
	if err != nil {
		return false, e.locate(err)
	}
	return compare(x, rel, y), nil
}

func testIfodd(e *Engine, s *Stack, tok token.Token) (bool, error) {
	n, err := e.PopNumber(s)
	if err = e.soft(err); err != nil {
		return false, err
	}
	return n%2 != 0, nil
}

func testIfdefined(e *Engine, s *Stack, tok token.Token) (bool, error) {
	t, err := e.PopToken(s, 0)
	if err != nil {
		return false, e.eofError(err, tok)
	}
	if !t.CanExpand() {
		return true, nil
	}
	return e.scope.meaning(t) != nil, nil
}

func testIfcsname(e *Engine, s *Stack, tok token.Token) (bool, error) {
	name, err := e.readCsName(s, tok)
	if err != nil {
		e.sink.Error(err)
	}
	return e.scope.Lookup(name) != nil, nil
}
