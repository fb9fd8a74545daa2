// prim_group.go - grouping and environments
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
	"strings"

	"github.com/seehuhn/texparser/tex/diag"
	"github.com/seehuhn/texparser/tex/token"
)

// endEnv is pushed by \end after the \endxxx macro.  The space in the
// name keeps it out of reach of the input.
const endEnv = " endenv"

func (e *Engine) addGroupPrimitives() {
	e.primitive(&Primitive{Name: "relax", Exec: func(e *Engine, s *Stack, tok token.Token, p Prefix) error {
		return nil
	}})
	e.primitive(&Primitive{Name: "par", Exec: func(e *Engine, s *Stack, tok token.Token, p Prefix) error {
		e.emit(tok)
		return nil
	}})

	e.primitive(&Primitive{Name: "begingroup", Exec: func(e *Engine, s *Stack, tok token.Token, p Prefix) error {
		e.EnterGroup(SemiSimpleGroup, nil)
		return nil
	}})
	e.primitive(&Primitive{Name: "endgroup", Exec: execEndgroup})
	e.root.commands["bgroup"] = &LetToken{Name: "bgroup", Token: token.NewChar(token.BeginGroup, '{')}
	e.root.commands["egroup"] = &LetToken{Name: "egroup", Token: token.NewChar(token.EndGroup, '}')}
	e.primitive(&Primitive{Name: "aftergroup", Exec: execAftergroup})

	e.primitive(&Primitive{Name: "begin", Exec: execBegin})
	e.primitive(&Primitive{Name: "end", Exec: execEnd})
	e.primitive(&Primitive{Name: endEnv, Exec: execEndEnv})
}

func execEndgroup(e *Engine, s *Stack, tok token.Token, p Prefix) error {
	switch e.scope.Kind {
	case SemiSimpleGroup:
		return e.ExitGroup(s)
	case RootGroup:
		return e.errorf(diag.Syntax, diag.ErrExtra, tok.String())
	}
	return e.errorf(diag.Syntax, diag.ErrExtraOrForgotten, tok.String(), e.closer())
}

// closer names the token which would close the innermost group.
func (e *Engine) closer() string {
	switch e.scope.Kind {
	case SimpleGroup:
		return "}"
	case SemiSimpleGroup:
		return "\\endgroup"
	case MathGroup:
		return "$"
	case EnvGroup:
		return "\\end{" + e.scope.EnvName + "}"
	}
	return ""
}

func execAftergroup(e *Engine, s *Stack, tok token.Token, p Prefix) error {
	t, err := e.PopToken(s, 0)
	if err != nil {
		return e.eofError(err, tok)
	}
	e.scope.afterGroup = append(e.scope.afterGroup, t)
	return nil
}

// readEnvName reads the argument of \begin and \end.  The name is
// expanded.
func (e *Engine) readEnvName(s *Stack) (string, error) {
	toks, err := e.popGroup(s)
	if err != nil {
		return "", err
	}
	toks, err = e.expandTokens(toks)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, t := range toks {
		if t.Kind == token.ControlSequence {
			b.WriteString(t.String())
		} else if !t.IsIgnorable() {
			b.WriteRune(t.CharCode())
		}
	}
	return strings.TrimSpace(b.String()), nil
}

func execBegin(e *Engine, s *Stack, tok token.Token, p Prefix) error {
	name, err := e.readEnvName(s)
	if err != nil {
		return err
	}
	e.EnterGroup(EnvGroup, nil).EnvName = name
	if e.scope.Lookup(name) == nil {
		e.sink.Warning("environment " + name + " undefined")
		return nil
	}
	s.Push(e.factory.ControlSequence(name))
	return nil
}

func execEnd(e *Engine, s *Stack, tok token.Token, p Prefix) error {
	name, err := e.readEnvName(s)
	if err != nil {
		return err
	}
	e.envNames = append(e.envNames, name)
	s.Push(token.NewCS(endEnv))
	if e.scope.Lookup("end"+name) != nil {
		s.Push(e.factory.ControlSequence("end" + name))
	}
	return nil
}

func execEndEnv(e *Engine, s *Stack, tok token.Token, p Prefix) error {
	n := len(e.envNames)
	if n == 0 {
		return e.errorf(diag.Syntax, diag.ErrExtra, "\\end")
	}
	name := e.envNames[n-1]
	e.envNames = e.envNames[:n-1]

	switch e.scope.Kind {
	case EnvGroup:
		var err error
		if e.scope.EnvName != name {
			err = e.errorf(diag.Syntax, diag.ErrEnvMismatch, e.scope.EnvName, name)
		}
		if err2 := e.ExitGroup(s); err2 != nil {
			return err2
		}
		return err
	case RootGroup:
		return e.errorf(diag.Syntax, diag.ErrExtra, "\\end{"+name+"}")
	}
	return e.errorf(diag.Syntax, diag.ErrExtraOrForgotten, "\\end{"+name+"}", e.closer())
}
