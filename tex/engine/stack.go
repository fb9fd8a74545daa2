// stack.go - token stacks
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

// StackKind distinguishes the two kinds of token stacks.
type StackKind int

// The stack kinds.
const (
	// Primary stacks are refilled from the input sources when they
	// run empty.
	Primary StackKind = iota

	// Continuation stacks hold a local token list.  Once the list is
	// exhausted, tokens are taken from the parent stack.
	Continuation
)

// Stack is a sequence of nodes waiting to be processed.
type Stack struct {
	Kind   StackKind
	parent *Stack
	e      *Engine
	buf    token.Buffer

	// borrowed is set once tokens have been taken from the parent
	// after the local list ran empty.
	borrowed bool
}

// NewContinuation returns a stack which yields the nodes of l first,
// and then continues with parent.  If parent is nil, the stack ends
// together with l.
func (e *Engine) NewContinuation(parent *Stack, l *token.List) *Stack {
	s := &Stack{Kind: Continuation, parent: parent, e: e}
	if l != nil {
		s.buf.PushNodes(l.Nodes)
	}
	return s
}

// Local returns the number of nodes left in the local list of s.
func (s *Stack) Local() int {
	return s.buf.Len()
}

// next removes the front node from s.  Nested lists are spliced into
// the stack.  Once all input is exhausted, io.EOF is returned.
func (s *Stack) next() (token.Node, error) {
	for {
		n, ok := s.buf.Pop()
		if ok {
			if l, isList := n.(*token.List); isList {
				s.buf.PushNodes(l.Nodes)
				continue
			}
			return n, nil
		}
		if s.Kind == Continuation {
			if s.parent == nil {
				return nil, io.EOF
			}
			s.borrowed = true
			return s.parent.next()
		}
		err := s.e.fill()
		if err != nil {
			return nil, err
		}
	}
}

// Push returns n to the front of s.  Nodes which were taken from the
// parent stack go back there.
func (s *Stack) Push(n token.Node) {
	if s.buf.Len() == 0 && s.borrowed && s.parent != nil {
		s.parent.Push(n)
		return
	}
	s.buf.Push(n)
	s.borrowed = false
}

// PushTokens adds tokens to the front of s, so that toks[0] is the
// next token to be read.
func (s *Stack) PushTokens(toks []token.Token) {
	for i := len(toks) - 1; i >= 0; i-- {
		s.Push(toks[i])
	}
}

// pushLocal adds tokens to the local list of s.
func (s *Stack) pushLocal(toks []token.Token) {
	if len(toks) == 0 {
		return
	}
	s.buf.PushTokens(toks)
	s.borrowed = false
}

// PopStyle modifies the behaviour of Pop and PopToken.
type PopStyle int

// The available pop styles.
const (
	// PopShort rejects paragraph breaks.
	PopShort PopStyle = 1 << iota

	// PopRetainIgnorables keeps comments and skipped input.
	PopRetainIgnorables

	// PopIgnoreLeadingSpace skips blank tokens before the result.
	PopIgnoreLeadingSpace
)

// PopToken removes the next token from s, without expanding it.
// Groups on the stack are split into their tokens.
func (e *Engine) PopToken(s *Stack, style PopStyle) (token.Token, error) {
	for {
		n, err := s.next()
		if err != nil {
			return token.Token{}, err
		}
		var tok token.Token
		switch n := n.(type) {
		case token.Token:
			tok = n
		case *token.Group:
			s.Push(n.End)
			for i := len(n.Nodes) - 1; i >= 0; i-- {
				s.Push(n.Nodes[i])
			}
			tok = n.Begin
			if n.Hook != nil {
				tok = tok.WithHook(n.Hook)
			}
		default:
			continue
		}

		if tok.IsIgnorable() && style&PopRetainIgnorables == 0 {
			continue
		}
		if tok.IsBlank() && style&PopIgnoreLeadingSpace != 0 {
			continue
		}
		if style&PopShort != 0 && tok.IsPar() {
			s.Push(tok)
			return tok, e.errorf(diag.Syntax, diag.ErrParBeforeEndGroup, "argument")
		}
		if e.trace.Enabled(diag.TracePop) {
			e.trace.Printf(diag.TracePop, "%s", tok)
		}
		return tok, nil
	}
}

// Pop removes the next node from s, without expanding it.  A
// begin-group token is returned together with everything up to the
// matching end-group token, as a *token.Group.
func (e *Engine) Pop(s *Stack, style PopStyle) (token.Node, error) {
	for {
		n, err := s.next()
		if err != nil {
			return nil, err
		}
		tok, ok := n.(token.Token)
		if !ok {
			return n, nil
		}
		if tok.IsIgnorable() && style&PopRetainIgnorables == 0 {
			continue
		}
		if tok.IsBlank() && style&PopIgnoreLeadingSpace != 0 {
			continue
		}
		if style&PopShort != 0 && tok.IsPar() {
			s.Push(tok)
			return tok, e.errorf(diag.Syntax, diag.ErrParBeforeEndGroup, "argument")
		}
		if tok.Kind == token.BeginGroup {
			return e.collectGroup(s, tok, style)
		}
		return tok, nil
	}
}

// collectGroup reads up to the end-group token matching begin.
func (e *Engine) collectGroup(s *Stack, begin token.Token, style PopStyle) (*token.Group, error) {
	g := token.NewGroup(begin, token.Token{})
	for {
		n, err := s.next()
		if err == io.EOF {
			return g, e.errorf(diag.Lexical, diag.ErrNoEndGroup)
		} else if err != nil {
			return g, err
		}
		tok, ok := n.(token.Token)
		if !ok {
			g.Append(n)
			continue
		}
		switch {
		case tok.IsIgnorable() && style&PopRetainIgnorables == 0:
			continue
		case style&PopShort != 0 && tok.IsPar():
			s.Push(tok)
			return g, e.errorf(diag.Syntax, diag.ErrParBeforeEndGroup, "argument")
		case tok.Kind == token.BeginGroup:
			sub, err := e.collectGroup(s, tok, style&^PopIgnoreLeadingSpace)
			if err != nil {
				return g, err
			}
			g.Append(sub)
		case tok.Kind == token.EndGroup:
			g.End = tok
			return g, nil
		default:
			g.Append(tok)
		}
	}
}

// Peek returns the next node of s without removing it.
func (e *Engine) Peek(s *Stack) (token.Node, error) {
	n, err := s.next()
	if err != nil {
		return nil, err
	}
	s.Push(n)
	return n, nil
}

// popArg reads an undelimited macro argument: a single token or the
// contents of a group.
func (e *Engine) popArg(s *Stack, style PopStyle) ([]token.Token, error) {
	n, err := e.Pop(s, style|PopIgnoreLeadingSpace)
	if err != nil {
		return nil, err
	}
	switch n := n.(type) {
	case *token.Group:
		return n.Contents(), nil
	case token.Token:
		if n.Kind == token.EndGroup {
			s.Push(n)
			return nil, e.errorf(diag.Syntax, diag.ErrExtraEndGroupInArg, "argument")
		}
		return []token.Token{n}, nil
	}
	return nil, nil
}

// popGroup reads a group and returns its contents, without expanding
// anything.  The next token must be a begin-group token.
func (e *Engine) popGroup(s *Stack) ([]token.Token, error) {
	tok, err := e.PopToken(s, PopIgnoreLeadingSpace)
	if err != nil {
		return nil, err
	}
	if tok.Kind != token.BeginGroup {
		s.Push(tok)
		return nil, e.errorf(diag.Syntax, diag.ErrMissingBeginGroup)
	}
	g, err := e.collectGroup(s, tok, 0)
	if err != nil {
		return nil, err
	}
	return g.Contents(), nil
}
