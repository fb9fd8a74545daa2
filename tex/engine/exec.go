// exec.go - processing of unexpandable tokens
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

// execute processes a single token from the main loop.
func (e *Engine) execute(tok token.Token, s *Stack, p Prefix) error {
	if e.trace.Enabled(diag.TraceProcessStack) {
		e.trace.Printf(diag.TraceProcessStack, "%s", tok)
	}
	if tok.CanExpand() {
		if tok.NoExpand {
			// \noexpand\foo in the main loop acts like \relax
			return nil
		}
		return e.executeCommand(tok, e.scope.meaning(tok), s, p)
	}

	if p != 0 {
		return e.errorf(diag.Semantic, diag.ErrCantUsePrefix, tok.String())
	}
	switch tok.Kind {
	case token.BeginGroup:
		e.EnterGroup(SimpleGroup, tok.Hook())
	case token.EndGroup:
		return e.endGroupChar(tok, s)
	case token.MathShift:
		return e.mathShift(tok, s)
	case token.Param:
		e.emit(tok)
		return e.errorf(diag.Semantic, diag.ErrMisplacedParam)
	case token.Tab:
		// inside an alignment, & moves to the next column
		if col := e.scope.Align(); col > 0 {
			e.scope.SetAlign(col + 1)
		}
		e.emit(tok)
	default:
		e.emit(tok)
	}
	return nil
}

func (e *Engine) executeCommand(tok token.Token, cmd Command, s *Stack, p Prefix) error {
	switch c := cmd.(type) {
	case nil:
		e.emit(tok)
		return e.errorf(diag.Semantic, diag.ErrUndefined, tok.String())
	case *Alias:
		return e.executeCommand(tok, c.Target, s, p)
	case *Macro:
		if p != 0 && !c.Prefixable {
			return e.errorf(diag.Semantic, diag.ErrCantUsePrefix, tok.String())
		}
		res, err := e.expand(tok, s)
		if err != nil {
			return err
		}
		s.PushTokens(res)
	case *Primitive:
		if p != 0 && !c.Prefixable {
			return e.errorf(diag.Semantic, diag.ErrCantUsePrefix, tok.String())
		}
		switch {
		case c.Expand != nil:
			res, err := e.expand(tok, s)
			if err != nil {
				return err
			}
			s.PushTokens(res)
		case c.Exec != nil:
			return c.Exec(e, s, tok, p)
		default:
			return e.errorf(diag.Semantic, diag.ErrCantUse, tok.String())
		}
	case *LetToken:
		return e.execute(c.Token, s, p)
	case *RegisterRef:
		return e.assign(c.Key, s, p)
	case *CharDef:
		if p != 0 {
			return e.errorf(diag.Semantic, diag.ErrCantUsePrefix, tok.String())
		}
		e.emit(token.NewChar(token.Other, c.Char))
	case *PageDimen:
		next, err := e.nextNonBlank(s)
		if err != nil && err != io.EOF {
			return err
		}
		if err == nil && isOther(next, '=') {
			if _, err := e.PopDimension(s); e.soft(err) != nil {
				return err
			}
			return e.errorf(diag.Semantic, diag.ErrAssignConstant, tok.String())
		}
		if err == nil {
			s.Push(next)
		}
		return e.errorf(diag.Semantic, diag.ErrCantUse, tok.String())
	}
	return nil
}

// endGroupChar handles an end-group character in the main loop.
func (e *Engine) endGroupChar(tok token.Token, s *Stack) error {
	switch e.scope.Kind {
	case SimpleGroup:
		return e.ExitGroup(s)
	case RootGroup:
		return e.errorf(diag.Resource, diag.ErrUnexpectedEndGroup)
	case SemiSimpleGroup:
		return e.errorf(diag.Syntax, diag.ErrExtraOrForgotten, tok.String(), "\\endgroup")
	case MathGroup:
		return e.errorf(diag.Syntax, diag.ErrExtraOrForgotten, tok.String(), "$")
	}
	return e.errorf(diag.Syntax, diag.ErrExtraOrForgotten, tok.String(), "\\end{"+e.scope.EnvName+"}")
}

// mathShift opens or closes inline and display math.
func (e *Engine) mathShift(tok token.Token, s *Stack) error {
	switch e.scope.Mode() {
	case TextMode:
		next, err := e.PopToken(s, 0)
		if err != nil && err != io.EOF {
			return err
		}
		display := err == nil && next.Kind == token.MathShift
		if err == nil && !display {
			s.Push(next)
		}
		e.emit(tok)
		if display {
			e.emit(next)
			e.EnterGroup(MathGroup, nil).SetMode(DisplayMath)
		} else {
			e.EnterGroup(MathGroup, nil).SetMode(InlineMath)
		}
		return nil
	}

	if e.scope.Kind != MathGroup {
		return e.errorf(diag.Syntax, diag.ErrExtraOrForgotten, tok.String(), "}")
	}
	e.emit(tok)
	if e.scope.Mode() == DisplayMath {
		next, err := e.PopToken(s, 0)
		if err != nil && err != io.EOF {
			return err
		}
		if err == nil && next.Kind == token.MathShift {
			e.emit(next)
		} else {
			if err == nil {
				s.Push(next)
			}
			e.emit(tok)
			if err := e.ExitGroup(s); err != nil {
				return err
			}
			return e.errorf(diag.Syntax, diag.ErrDollar2EndedWithDollar)
		}
	}
	return e.ExitGroup(s)
}
