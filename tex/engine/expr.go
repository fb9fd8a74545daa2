// expr.go - \numexpr and \dimexpr
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
	"math"

	"github.com/seehuhn/texparser/tex/diag"
	"github.com/seehuhn/texparser/tex/dimen"
	"github.com/seehuhn/texparser/tex/token"
)

// PopNumExpr evaluates an integer expression with the operators + - *
// / and parentheses.  Division truncates towards zero.  An optional
// \relax after the expression is removed.
func (e *Engine) PopNumExpr(s *Stack) (int32, error) {
	v, err := e.numExpr(s)
	if err != nil {
		return 0, err
	}
	return int32(v), e.exprEnd(s)
}

// PopDimExpr evaluates a dimension expression.  Dimensions can be
// added and subtracted, and multiplied or divided by integers.
func (e *Engine) PopDimExpr(s *Stack) (dimen.Dimension, error) {
	v, err := e.dimExpr(s)
	if err != nil {
		return dimen.Pt(0), err
	}
	return dimen.Pt(v), e.exprEnd(s)
}

func (e *Engine) exprEnd(s *Stack) error {
	tok, err := e.nextNonBlank(s)
	if err == io.EOF {
		return nil
	} else if err != nil {
		return err
	}
	if resolve(e.scope.meaning(tok)) != e.relax || tok.NoExpand {
		s.Push(tok)
	}
	return nil
}

// nextOp returns the next operator character from ops, or 0.
func (e *Engine) nextOp(s *Stack, ops string) (rune, error) {
	tok, err := e.nextNonBlank(s)
	if err == io.EOF {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	if tok.Kind == token.Other {
		for _, op := range ops {
			if tok.Char == op {
				return op, nil
			}
		}
	}
	s.Push(tok)
	return 0, nil
}

func (e *Engine) checkRange(v int64) (int64, error) {
	if v > math.MaxInt32 || v < -math.MaxInt32 {
		return 0, e.errorf(diag.Semantic, diag.ErrOverflow)
	}
	return v, nil
}

func (e *Engine) numExpr(s *Stack) (int64, error) {
	v, err := e.numTerm(s)
	if err != nil {
		return 0, err
	}
	for {
		op, err := e.nextOp(s, "+-")
		if err != nil || op == 0 {
			return v, err
		}
		t, err := e.numTerm(s)
		if err != nil {
			return 0, err
		}
		if op == '+' {
			v += t
		} else {
			v -= t
		}
		v, err = e.checkRange(v)
		if err != nil {
			return 0, err
		}
	}
}

func (e *Engine) numTerm(s *Stack) (int64, error) {
	v, err := e.numFactor(s)
	if err != nil {
		return 0, err
	}
	for {
		op, err := e.nextOp(s, "*/")
		if err != nil || op == 0 {
			return v, err
		}
		f, err := e.numFactor(s)
		if err != nil {
			return 0, err
		}
		if op == '*' {
			v *= f
		} else {
			if f == 0 {
				return 0, e.errorf(diag.Semantic, diag.ErrDivideByZero)
			}
			v /= f
		}
		v, err = e.checkRange(v)
		if err != nil {
			return 0, err
		}
	}
}

func (e *Engine) numFactor(s *Stack) (int64, error) {
	tok, err := e.nextNonBlank(s)
	if err == io.EOF {
		return 0, e.errorf(diag.Semantic, diag.ErrNumberExpected)
	} else if err != nil {
		return 0, err
	}
	switch {
	case isOther(tok, '-'):
		f, err := e.numFactor(s)
		return -f, err
	case isOther(tok, '+'):
		return e.numFactor(s)
	case isOther(tok, '('):
		v, err := e.numExpr(s)
		if err != nil {
			return 0, err
		}
		return v, e.closeParen(s)
	}
	s.Push(tok)
	n, err := e.PopNumber(s)
	return int64(n), err
}

func (e *Engine) closeParen(s *Stack) error {
	tok, err := e.nextNonBlank(s)
	if err == io.EOF {
		return e.errorf(diag.Syntax, diag.ErrMissingParen)
	} else if err != nil {
		return err
	}
	if !isOther(tok, ')') {
		s.Push(tok)
		return e.errorf(diag.Syntax, diag.ErrMissingParen)
	}
	return nil
}

// dimExpr evaluates a dimension expression, in points.
func (e *Engine) dimExpr(s *Stack) (float64, error) {
	v, err := e.dimTerm(s)
	if err != nil {
		return 0, err
	}
	for {
		op, err := e.nextOp(s, "+-")
		if err != nil || op == 0 {
			return v, err
		}
		t, err := e.dimTerm(s)
		if err != nil {
			return 0, err
		}
		if op == '+' {
			v += t
		} else {
			v -= t
		}
	}
}

func (e *Engine) dimTerm(s *Stack) (float64, error) {
	v, err := e.dimFactor(s)
	if err != nil {
		return 0, err
	}
	for {
		op, err := e.nextOp(s, "*/")
		if err != nil || op == 0 {
			return v, err
		}
		f, err := e.numFactor(s)
		if err != nil {
			return 0, err
		}
		if op == '*' {
			v *= float64(f)
		} else {
			if f == 0 {
				return 0, e.errorf(diag.Semantic, diag.ErrDivideByZero)
			}
			v /= float64(f)
		}
	}
}

func (e *Engine) dimFactor(s *Stack) (float64, error) {
	tok, err := e.nextNonBlank(s)
	if err == io.EOF {
		return 0, e.errorf(diag.Semantic, diag.ErrNumberExpected)
	} else if err != nil {
		return 0, err
	}
	switch {
	case isOther(tok, '-'):
		f, err := e.dimFactor(s)
		return -f, err
	case isOther(tok, '+'):
		return e.dimFactor(s)
	case isOther(tok, '('):
		v, err := e.dimExpr(s)
		if err != nil {
			return 0, err
		}
		return v, e.closeParen(s)
	}
	s.Push(tok)
	d, err := e.scanDimen(s, false)
	if err != nil {
		return 0, err
	}
	return d.ToPt(e.page)
}
