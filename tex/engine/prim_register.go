// prim_register.go - registers, arithmetic and category codes
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
	"unicode"

	"github.com/seehuhn/texparser/tex/catcode"
	"github.com/seehuhn/texparser/tex/diag"
	"github.com/seehuhn/texparser/tex/dimen"
	"github.com/seehuhn/texparser/tex/register"
	"github.com/seehuhn/texparser/tex/token"
)

type arithOp int

const (
	opAdvance arithOp = iota
	opMultiply
	opDivide
)

func (e *Engine) addRegisterPrimitives() {
	for _, kind := range []register.Kind{register.CountKind, register.DimenKind, register.SkipKind, register.ToksKind} {
		e.primitive(registerPrimitive(kind))
	}
	e.primitive(&Primitive{Name: "advance", Exec: arithPrimitive(opAdvance), Prefixable: true})
	e.primitive(&Primitive{Name: "multiply", Exec: arithPrimitive(opMultiply), Prefixable: true})
	e.primitive(&Primitive{Name: "divide", Exec: arithPrimitive(opDivide), Prefixable: true})

	e.primitive(&Primitive{
		Name:       "catcode",
		Exec:       execCatcode,
		Value:      catcodeValue,
		Prefixable: true,
	})
	e.primitive(&Primitive{
		Name: "numexpr",
		Value: func(e *Engine, s *Stack, tok token.Token) (Quantity, error) {
			n, err := e.PopNumExpr(s)
			return Quantity{Kind: IntQuantity, Int: n}, err
		},
	})
	e.primitive(&Primitive{
		Name: "dimexpr",
		Value: func(e *Engine, s *Stack, tok token.Token) (Quantity, error) {
			d, err := e.PopDimExpr(s)
			return Quantity{Kind: DimenQuantity, Glue: dimen.FromDimension(d)}, err
		},
	})
}

func registerPrimitive(kind register.Kind) *Primitive {
	return &Primitive{
		Name: kind.String(),
		Exec: func(e *Engine, s *Stack, tok token.Token, p Prefix) error {
			slot, err := e.readSlot(s)
			if err != nil {
				return err
			}
			return e.assign(register.Key{Kind: kind, Slot: slot}, s, p)
		},
		Value: func(e *Engine, s *Stack, tok token.Token) (Quantity, error) {
			slot, err := e.readSlot(s)
			if err != nil {
				return Quantity{}, err
			}
			return registerQuantity(e.scope.Register(register.Key{Kind: kind, Slot: slot})), nil
		},
		Prefixable: true,
		isReg:      true,
		regKind:    kind,
	}
}

// readSlot reads a register number.
func (e *Engine) readSlot(s *Stack) (int, error) {
	n, err := e.PopNumber(s)
	if err = e.soft(err); err != nil {
		return 0, err
	}
	if n < 0 || n > register.MaxSlot {
		return 0, e.errorf(diag.Semantic, diag.ErrInvalidCode, n, register.MaxSlot)
	}
	return int(n), nil
}

// assign reads a value for the given register and stores it.
func (e *Engine) assign(key register.Key, s *Stack, p Prefix) error {
	global := p&PrefixGlobal != 0
	if err := e.skipEquals(s); err != nil {
		return err
	}
	r := e.scope.Register(key).Clone()
	switch r := r.(type) {
	case *register.Count:
		n, err := e.PopNumber(s)
		if err = e.soft(err); err != nil {
			return err
		}
		r.Value = n
	case *register.Dimen:
		if key.Kind == register.SkipKind {
			g, err := e.PopGlue(s)
			if err = e.soft(err); err != nil {
				return err
			}
			r.Set(g)
		} else {
			d, err := e.PopDimension(s)
			if err = e.soft(err); err != nil {
				return err
			}
			r.Set(dimen.FromDimension(d))
		}
	case *register.Toks:
		toks, err := e.scanToks(s)
		if err != nil {
			return err
		}
		r.Value = toks
	}
	e.scope.SetRegister(r, global)
	if e.trace.Enabled(diag.TraceRegister) {
		e.trace.Printf(diag.TraceRegister, "{%s%s=%s}", globalMark(global), key, r)
	}
	return nil
}

// scanToks reads the value of a token list assignment: a group or a
// token register.
func (e *Engine) scanToks(s *Stack) ([]token.Token, error) {
	tok, err := e.nextNonBlank(s)
	if err == io.EOF {
		return nil, e.errorf(diag.Syntax, diag.ErrMissingBeginGroup)
	} else if err != nil {
		return nil, err
	}
	if tok.Kind == token.BeginGroup {
		g, err := e.collectGroup(s, tok, 0)
		if err != nil {
			return nil, err
		}
		return g.Contents(), nil
	}
	q, ok, err := e.internalQuantity(tok, s)
	if err != nil {
		return nil, err
	}
	if ok && q.Kind == ToksQuantity {
		return append([]token.Token(nil), q.Toks...), nil
	}
	if !ok {
		s.Push(tok)
	}
	return nil, e.errorf(diag.Syntax, diag.ErrMissingBeginGroup)
}

// registerKey reads a register reference: a name defined by \countdef
// and friends, or one of \count, \dimen, \skip and \toks with a number.
func (e *Engine) registerKey(s *Stack, tok token.Token) (register.Key, error) {
	switch c := resolve(e.scope.meaning(tok)).(type) {
	case *RegisterRef:
		if !tok.NoExpand {
			return c.Key, nil
		}
	case *Primitive:
		if c.isReg && !tok.NoExpand {
			slot, err := e.readSlot(s)
			return register.Key{Kind: c.regKind, Slot: slot}, err
		}
	}
	return register.Key{}, e.errorf(diag.Semantic, diag.ErrCantUse, tok.String())
}

func arithPrimitive(op arithOp) ExecFunc {
	return func(e *Engine, s *Stack, tok token.Token, p Prefix) error {
		t, err := e.nextNonBlank(s)
		if err != nil {
			return e.eofError(err, tok)
		}
		key, err := e.registerKey(s, t)
		if err != nil {
			return err
		}
		if _, err := e.scanKeyword(s, "by"); err != nil {
			return err
		}

		r := e.scope.Register(key).Clone()
		switch r := r.(type) {
		case *register.Count:
			n, err := e.PopNumber(s)
			if err = e.soft(err); err != nil {
				return err
			}
			switch op {
			case opAdvance:
				err = r.Advance(n)
			case opMultiply:
				err = r.Multiply(n)
			case opDivide:
				err = r.Divide(n)
			}
			if err != nil {
				return e.locate(err)
			}
		case *register.Dimen:
			if op == opAdvance {
				var g dimen.Glue
				if key.Kind == register.SkipKind {
					g, err = e.PopGlue(s)
				} else {
					var d dimen.Dimension
					d, err = e.PopDimension(s)
					g = dimen.FromDimension(d)
				}
				if err = e.soft(err); err != nil {
					return err
				}
				if err = r.Advance(g, e.page); err != nil {
					return e.locate(err)
				}
				break
			}
			n, err := e.PopNumber(s)
			if err = e.soft(err); err != nil {
				return err
			}
			if op == opMultiply {
				r.Multiply(n)
			} else if err = r.Divide(n); err != nil {
				return e.locate(err)
			}
		default:
			return e.errorf(diag.Semantic, diag.ErrCantUse, t.String())
		}

		global := p&PrefixGlobal != 0
		e.scope.SetRegister(r, global)
		if e.trace.Enabled(diag.TraceRegister) {
			e.trace.Printf(diag.TraceRegister, "{%s%s=%s}", globalMark(global), key, r)
		}
		return nil
	}
}

// readCharCode reads a character code for \catcode and similar.
func (e *Engine) readCharCode(s *Stack) (rune, error) {
	n, err := e.PopNumber(s)
	if err = e.soft(err); err != nil {
		return 0, err
	}
	if n < 0 || n > unicode.MaxRune {
		return 0, e.errorf(diag.Semantic, diag.ErrInvalidCode, n, unicode.MaxRune)
	}
	return rune(n), nil
}

func execCatcode(e *Engine, s *Stack, tok token.Token, p Prefix) error {
	r, err := e.readCharCode(s)
	if err != nil {
		return err
	}
	if err := e.skipEquals(s); err != nil {
		return err
	}
	n, err := e.PopNumber(s)
	if err = e.soft(err); err != nil {
		return err
	}
	cat := catcode.Category(n)
	if !cat.Valid() {
		return e.errorf(diag.Semantic, diag.ErrInvalidCode, n, int(catcode.Max))
	}
	global := p&PrefixGlobal != 0
	e.scope.SetCatcode(r, cat, global)
	if e.trace.Enabled(diag.TraceCatcode) {
		e.trace.Printf(diag.TraceCatcode, "{%s\\catcode%d=%d}", globalMark(global), r, n)
	}
	return nil
}

func catcodeValue(e *Engine, s *Stack, tok token.Token) (Quantity, error) {
	r, err := e.readCharCode(s)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Kind: IntQuantity, Int: int32(e.scope.Catcode(r))}, nil
}
