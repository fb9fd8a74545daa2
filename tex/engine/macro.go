// macro.go - definition and expansion of macros
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

// NewMacro checks a macro definition and returns the new macro.
// Parameters in the pattern must be numbered consecutively, starting
// at 1, and the replacement may only refer to existing parameters.
func NewMacro(name string, pattern, replacement []token.Token, p Prefix) (*Macro, error) {
	n := 0
	for i, t := range pattern {
		if t.Kind != token.Param {
			continue
		}
		switch {
		case t.Digit == token.BraceDigit && t.Depth == 0:
			if i != len(pattern)-1 {
				return nil, diag.New(diag.Syntax, diag.ErrIllegalParam, "\\"+name)
			}
		case t.Depth > 0 || t.Digit != n+1:
			return nil, diag.New(diag.Syntax, diag.ErrParamsNotConsecutive)
		default:
			n++
		}
	}
	for _, t := range replacement {
		if t.Kind == token.Param && t.Depth == 0 && (t.Digit <= 0 || t.Digit > n) {
			return nil, diag.New(diag.Syntax, diag.ErrIllegalParam, "\\"+name)
		}
	}
	return &Macro{
		Name:        name,
		Pattern:     pattern,
		Replacement: replacement,
		Long:        p&PrefixLong != 0,
		Protected:   p&PrefixProtected != 0,
		nArgs:       n,
	}, nil
}

// expandMacro reads the arguments of m from s and returns the
// replacement text with the arguments substituted.
func (e *Engine) expandMacro(m *Macro, s *Stack) ([]token.Token, error) {
	var style PopStyle
	if m.Short() {
		style = PopShort
	}
	var args [9][]token.Token

	pat := m.Pattern
	i := 0
	for i < len(pat) && pat[i].Kind != token.Param {
		t, err := e.PopToken(s, style)
		if err != nil {
			return nil, e.argError(err, m)
		}
		if !t.Equal(pat[i]) {
			s.Push(t)
			return nil, e.errorf(diag.Syntax, diag.ErrSyntax, "\\"+m.Name)
		}
		i++
	}

	for i < len(pat) {
		p := pat[i]
		if p.Digit == token.BraceDigit {
			t, err := e.PopToken(s, style)
			if err != nil {
				return nil, e.argError(err, m)
			}
			s.Push(t)
			if t.Kind != token.BeginGroup {
				return nil, e.errorf(diag.Syntax, diag.ErrSyntax, "\\"+m.Name)
			}
			break
		}

		i++
		j := i
		for j < len(pat) && pat[j].Kind != token.Param {
			j++
		}
		delim := pat[i:j]

		var arg []token.Token
		var err error
		switch {
		case len(delim) == 0 && j < len(pat) && pat[j].Digit == token.BraceDigit:
			arg, err = e.scanToBrace(s, style)
			j++
		case len(delim) == 0:
			arg, err = e.popArg(s, style)
		default:
			arg, err = e.scanDelimited(s, delim, style)
		}
		if err != nil {
			return nil, e.argError(err, m)
		}
		args[p.Digit-1] = arg
		i = j
	}

	if e.trace.Enabled(diag.TraceMacro) {
		var b strings.Builder
		b.WriteString("\\" + m.Name)
		for k := 0; k < m.nArgs; k++ {
			b.WriteString(" #")
			b.WriteByte(byte('1' + k))
			b.WriteString("<-")
			b.WriteString(token.Detokenize(args[k]))
		}
		e.trace.Printf(diag.TraceMacro, "%s", b.String())
	}
	return substitute(m.Replacement, args[:]), nil
}

// scanDelimited reads a delimited argument.  Braces around the whole
// argument are removed.
func (e *Engine) scanDelimited(s *Stack, delim []token.Token, style PopStyle) ([]token.Token, error) {
	var units []token.Node
	for {
		n, err := e.Pop(s, style)
		if err != nil {
			return nil, err
		}
		if t, ok := n.(token.Token); ok && t.Kind == token.EndGroup {
			s.Push(t)
			return nil, e.errorf(diag.Syntax, diag.ErrExtraEndGroupInArg, "argument")
		}
		units = append(units, n)
		if endsWith(units, delim) {
			units = units[:len(units)-len(delim)]
			break
		}
	}

	if len(units) == 1 {
		if g, ok := units[0].(*token.Group); ok {
			return g.Contents(), nil
		}
	}
	return token.NewList(units...).Tokens(), nil
}

func endsWith(units []token.Node, delim []token.Token) bool {
	k := len(units) - len(delim)
	if k < 0 {
		return false
	}
	for i, d := range delim {
		t, ok := units[k+i].(token.Token)
		if !ok || !t.Equal(d) {
			return false
		}
	}
	return true
}

// scanToBrace reads the tokens up to the next begin-group token, which
// is left on the stack.
func (e *Engine) scanToBrace(s *Stack, style PopStyle) ([]token.Token, error) {
	var res []token.Token
	for {
		t, err := e.PopToken(s, style)
		if err != nil {
			return nil, err
		}
		switch t.Kind {
		case token.BeginGroup:
			s.Push(t)
			return res, nil
		case token.EndGroup:
			s.Push(t)
			return nil, e.errorf(diag.Syntax, diag.ErrExtraEndGroupInArg, "argument")
		}
		res = append(res, t)
	}
}

// argError adds the macro name to errors found while reading
// arguments.
func (e *Engine) argError(err error, m *Macro) error {
	if err == io.EOF {
		return e.errorf(diag.Lexical, diag.ErrFileEndedInArg, "\\"+m.Name)
	}
	if de, ok := err.(*diag.Error); ok {
		switch de.Tag {
		case diag.ErrParBeforeEndGroup, diag.ErrExtraEndGroupInArg:
			de.Params = []interface{}{"\\" + m.Name}
		}
	}
	return err
}

// substitute replaces the parameter tokens in repl by the arguments.
// Doubled parameter characters lose one level.
func substitute(repl []token.Token, args [][]token.Token) []token.Token {
	res := make([]token.Token, 0, len(repl))
	for _, t := range repl {
		if t.Kind == token.Param {
			if t.Depth == 0 && t.Digit > 0 {
				res = append(res, args[t.Digit-1]...)
				continue
			}
			if t.Depth > 0 {
				t.Depth--
			}
		}
		res = append(res, t)
	}
	return res
}
