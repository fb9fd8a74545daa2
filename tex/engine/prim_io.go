// prim_io.go - input files, messages and verbatim text
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
	"strings"

	"github.com/seehuhn/texparser/tex/diag"
	"github.com/seehuhn/texparser/tex/token"
)

func (e *Engine) addIOPrimitives() {
	e.primitive(&Primitive{Name: "input", Exec: execInput})
	e.primitive(&Primitive{Name: "endinput", Exec: func(e *Engine, s *Stack, tok token.Token, p Prefix) error {
		e.tok.EndInput()
		return nil
	}})
	e.primitive(&Primitive{Name: "message", Exec: execMessage})
	e.primitive(&Primitive{Name: "errmessage", Exec: execErrmessage})
	e.primitive(&Primitive{Name: "show", Exec: execShow})
	e.primitive(&Primitive{Name: "showthe", Exec: execShowthe})
	e.primitive(&Primitive{Name: "ignorespaces", Exec: execIgnorespaces})
	e.primitive(&Primitive{Name: "verb", Exec: execVerb})
}

// readFileName reads the argument of \input: either a group, or
// everything up to the next blank.
func (e *Engine) readFileName(s *Stack) (string, error) {
	tok, err := e.nextNonBlank(s)
	if err == io.EOF {
		return "", nil
	} else if err != nil {
		return "", err
	}
	if tok.Kind == token.BeginGroup {
		s.Push(tok)
		toks, err := e.popGroup(s)
		if err != nil {
			return "", err
		}
		toks, err = e.expandTokens(toks)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(token.Detokenize(toks)), nil
	}

	var b strings.Builder
	for {
		if tok.CanExpand() || tok.IsBlank() || tok.IsIgnorable() || tok.IsPar() {
			if !tok.IsBlank() {
				s.Push(tok)
			}
			break
		}
		b.WriteRune(tok.CharCode())
		tok, err = e.nextExpanded(s)
		if err == io.EOF {
			break
		} else if err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func execInput(e *Engine, s *Stack, tok token.Token, p Prefix) error {
	name, err := e.readFileName(s)
	if err != nil {
		return err
	}
	if name == "" {
		return e.errorf(diag.Resource, diag.ErrFileNotFound, name)
	}
	return e.input(name)
}

// messageText reads and expands a group, as for \message.
func (e *Engine) messageText(s *Stack) (string, error) {
	toks, err := e.popGroup(s)
	if err != nil {
		return "", err
	}
	toks, err = e.expandTokens(toks)
	if err != nil {
		return "", err
	}
	return token.Detokenize(toks), nil
}

func execMessage(e *Engine, s *Stack, tok token.Token, p Prefix) error {
	msg, err := e.messageText(s)
	if err != nil {
		return err
	}
	e.sink.Message(msg)
	return nil
}

func execErrmessage(e *Engine, s *Stack, tok token.Token, p Prefix) error {
	msg, err := e.messageText(s)
	if err != nil {
		return err
	}
	return e.errorf(diag.Semantic, diag.ErrUser, msg)
}

func execShow(e *Engine, s *Stack, tok token.Token, p Prefix) error {
	t, err := e.PopToken(s, 0)
	if err != nil {
		return e.eofError(err, tok)
	}
	e.sink.Message("> " + t.String() + "=" + e.meaningString(t) + ".")
	return nil
}

func execShowthe(e *Engine, s *Stack, tok token.Token, p Prefix) error {
	toks, err := expandThe(e, s, tok)
	if err != nil {
		return err
	}
	e.sink.Message("> " + token.Detokenize(toks) + ".")
	return nil
}

func execIgnorespaces(e *Engine, s *Stack, tok token.Token, p Prefix) error {
	t, err := e.nextNonBlank(s)
	if err == io.EOF {
		return nil
	} else if err != nil {
		return err
	}
	s.Push(t)
	return nil
}

// execVerb passes verbatim text on to the output.  The tokenizer
// normally supplies the text as a nested list directly after \verb.
// Otherwise, for example inside a macro argument, the text is
// reassembled from the following tokens.
func execVerb(e *Engine, s *Stack, tok token.Token, p Prefix) error {
	if n, ok := s.buf.Peek(); ok {
		if l, isList := n.(*token.List); isList {
			s.buf.Pop()
			e.emit(tok)
			e.emit(l)
			return nil
		}
	}

	res := token.NewList()
	delim, err := e.PopToken(s, PopRetainIgnorables)
	if err == nil && delim.Kind == token.Other && delim.Char == '*' {
		res.AppendTokens(delim)
		delim, err = e.PopToken(s, PopRetainIgnorables)
	}
	if err == io.EOF {
		return e.errorf(diag.Lexical, diag.ErrUnterminatedVerbatim, tok.String())
	} else if err != nil {
		return err
	}
	res.Append(verbChars(delim)...)
	for {
		t, err := e.PopToken(s, PopRetainIgnorables)
		if err == io.EOF {
			return e.errorf(diag.Lexical, diag.ErrUnterminatedVerbatim, tok.String())
		} else if err != nil {
			return err
		}
		res.Append(verbChars(t)...)
		if t.Equal(delim) {
			break
		}
	}
	e.emit(tok)
	e.emit(res)
	return nil
}

// verbChars converts a token back into Other tokens for its source
// characters.
func verbChars(t token.Token) []token.Node {
	var res []token.Node
	for _, r := range t.String() {
		res = append(res, token.NewChar(token.Other, r))
	}
	return res
}
