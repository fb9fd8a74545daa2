// expand.go - one-step and full expansion
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

// expand returns the expansion of tok, which must be expandable.
func (e *Engine) expand(tok token.Token, s *Stack) ([]token.Token, error) {
	err := e.step()
	if err != nil {
		return nil, err
	}
	if e.trace.Enabled(diag.TraceExpansion) {
		e.trace.Printf(diag.TraceExpansion, "%s", tok)
	}
	switch c := resolve(e.scope.meaning(tok)).(type) {
	case *Macro:
		return e.expandMacro(c, s)
	case *Primitive:
		return c.Expand(e, s, tok)
	}
	return []token.Token{tok}, nil
}

// ExpandOnce expands the front token of s in place.  If the front
// token is not expandable, s is left unchanged and false is returned.
func (e *Engine) ExpandOnce(s *Stack) (bool, error) {
	local := s.Local() > 0
	tok, err := e.PopToken(s, 0)
	if err != nil {
		return false, err
	}
	if !e.isExpandable(tok, false) {
		s.Push(tok)
		return false, nil
	}
	res, err := e.expand(tok, s)
	if err != nil {
		return false, err
	}
	if e.trace.Enabled(diag.TraceExpandOnce) {
		e.trace.Printf(diag.TraceExpandOnce, "%s -> %s", tok, token.Detokenize(res))
	}
	if local {
		s.pushLocal(res)
	} else {
		s.PushTokens(res)
	}
	return true, nil
}

// nextExpanded returns the next unexpandable token from s, expanding
// macros and expandable primitives on the way.
func (e *Engine) nextExpanded(s *Stack) (token.Token, error) {
	for {
		tok, err := e.PopToken(s, 0)
		if err != nil {
			return tok, err
		}
		if !e.isExpandable(tok, false) {
			return tok, nil
		}
		res, err := e.expand(tok, s)
		if err != nil {
			return tok, err
		}
		s.PushTokens(res)
	}
}

// nextNonBlank is like nextExpanded, but skips blank tokens.
func (e *Engine) nextNonBlank(s *Stack) (token.Token, error) {
	for {
		tok, err := e.nextExpanded(s)
		if err != nil || !tok.IsBlank() {
			return tok, err
		}
	}
}

// ExpandFully expands all tokens in l, as \edef does.  Protected
// macros, tokens marked by \noexpand and everything unexpandable are
// copied to the result.  Macros near the end of l may read their
// arguments from parent, if parent is not nil.
func (e *Engine) ExpandFully(l *token.List, parent *Stack) (*token.List, error) {
	e.steps = 0
	return e.expandFully(l, parent)
}

func (e *Engine) expandFully(l *token.List, parent *Stack) (*token.List, error) {
	e.full++
	defer func() { e.full-- }()

	s := e.NewContinuation(parent, l)
	res := token.NewList()
	for s.Local() > 0 {
		n, err := s.next()
		if err == io.EOF {
			break
		} else if err != nil {
			return res, err
		}

		if g, ok := n.(*token.Group); ok {
			s.pushLocal(g.Tokens())
			continue
		}
		tok, ok := n.(token.Token)
		if !ok || tok.IsIgnorable() {
			continue
		}
		if !e.isExpandable(tok, true) {
			if tok.CanExpand() && !tok.NoExpand && e.scope.meaning(tok) == nil {
				e.sink.Error(e.errorf(diag.Semantic, diag.ErrUndefined, tok.String()))
			}
			res.Append(tok)
			continue
		}
		exp, err := e.expand(tok, s)
		if err != nil {
			return res, err
		}
		s.pushLocal(exp)
	}
	if e.trace.Enabled(diag.TraceExpandFully) {
		e.trace.Printf(diag.TraceExpandFully, "%s -> %s", l, res)
	}
	return res, nil
}

// expandTokens fully expands a token sequence without access to the
// surrounding input.
func (e *Engine) expandTokens(toks []token.Token) ([]token.Token, error) {
	res, err := e.expandFully(token.FromTokens(toks), nil)
	if err != nil {
		return nil, err
	}
	return res.Tokens(), nil
}
