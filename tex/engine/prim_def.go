// prim_def.go - definitions: \def, \let, prefixes and friends
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
	"unicode"

	"github.com/seehuhn/texparser/tex/diag"
	"github.com/seehuhn/texparser/tex/register"
	"github.com/seehuhn/texparser/tex/token"
)

func (e *Engine) addDefPrimitives() {
	e.primitive(&Primitive{Name: "def", Exec: defPrimitive(false, false), Prefixable: true})
	e.primitive(&Primitive{Name: "gdef", Exec: defPrimitive(false, true), Prefixable: true})
	e.primitive(&Primitive{Name: "edef", Exec: defPrimitive(true, false), Prefixable: true})
	e.primitive(&Primitive{Name: "xdef", Exec: defPrimitive(true, true), Prefixable: true})
	e.primitive(&Primitive{Name: "let", Exec: execLet, Prefixable: true})
	e.primitive(&Primitive{Name: "futurelet", Exec: execFuturelet, Prefixable: true})

	e.primitive(&Primitive{Name: "global", Exec: prefixPrimitive(PrefixGlobal), Prefixable: true})
	e.primitive(&Primitive{Name: "long", Exec: prefixPrimitive(PrefixLong), Prefixable: true})
	e.primitive(&Primitive{Name: "outer", Exec: prefixPrimitive(PrefixOuter), Prefixable: true})
	e.primitive(&Primitive{Name: "protected", Exec: prefixPrimitive(PrefixProtected), Prefixable: true})

	e.primitive(&Primitive{Name: "chardef", Exec: execChardef, Prefixable: true})
	for _, kind := range []register.Kind{register.CountKind, register.DimenKind, register.SkipKind, register.ToksKind} {
		e.primitive(&Primitive{Name: kind.String() + "def", Exec: registerDef(kind), Prefixable: true})
		e.primitive(&Primitive{Name: "new" + kind.String(), Exec: registerNew(kind)})
	}
	e.primitive(&Primitive{Name: "newif", Exec: execNewif})
}

// primitive adds p to the root scope.
func (e *Engine) primitive(p *Primitive) {
	e.root.commands[p.Name] = p
}

// nameOf returns the name under which a command is bound to tok.
func nameOf(tok token.Token) string {
	if tok.Kind == token.Active {
		return string(tok.Char)
	}
	return tok.Name
}

// readName reads the control sequence or active character which is
// about to be defined.
func (e *Engine) readName(s *Stack) (token.Token, error) {
	tok, err := e.PopToken(s, PopIgnoreLeadingSpace)
	if err == io.EOF {
		return tok, e.errorf(diag.Syntax, diag.ErrMissingCs)
	} else if err != nil {
		return tok, err
	}
	if tok.Kind != token.ControlSequence && tok.Kind != token.Active {
		s.Push(tok)
		return tok, e.errorf(diag.Syntax, diag.ErrMissingCs)
	}
	return tok, nil
}

// locate adds the input position to errors which do not have one.
func (e *Engine) locate(err error) error {
	if de, ok := err.(*diag.Error); ok && de.Stack == nil {
		de.Stack = e.tok.Frames()
	}
	return err
}

func defPrimitive(expand, global bool) ExecFunc {
	return func(e *Engine, s *Stack, tok token.Token, p Prefix) error {
		name, err := e.readName(s)
		if err != nil {
			return err
		}

		var pattern []token.Token
		var begin token.Token
		for {
			t, err := e.PopToken(s, 0)
			if err == io.EOF {
				return e.errorf(diag.Lexical, diag.ErrFileEndedInArg, tok.String())
			} else if err != nil {
				return err
			}
			if t.Kind == token.BeginGroup {
				begin = t
				break
			}
			if t.Kind == token.EndGroup {
				s.Push(t)
				return e.errorf(diag.Syntax, diag.ErrMissingBeginGroup)
			}
			pattern = append(pattern, t)
		}
		g, err := e.collectGroup(s, begin, 0)
		if err != nil {
			return err
		}
		body := g.Contents()
		if expand {
			body, err = e.expandTokens(body)
			if err != nil {
				return err
			}
			for i := range body {
				body[i].NoExpand = false
			}
		}

		m, err := NewMacro(nameOf(name), pattern, body, p)
		if err != nil {
			return e.locate(err)
		}
		glob := global || p&PrefixGlobal != 0
		e.scope.bind(name, m, glob)
		if e.trace.Enabled(diag.TraceDefinition) {
			e.trace.Printf(diag.TraceDefinition, "%s%s=%s", globalMark(glob), name, commandMeaning(m))
		}
		return nil
	}
}

func globalMark(global bool) string {
	if global {
		return "\\global"
	}
	return ""
}

func execLet(e *Engine, s *Stack, tok token.Token, p Prefix) error {
	name, err := e.readName(s)
	if err != nil {
		return err
	}
	t, err := e.PopToken(s, PopIgnoreLeadingSpace)
	if err == nil && isOther(t, '=') {
		t, err = e.PopToken(s, 0)
		if err == nil && t.IsBlank() {
			t, err = e.PopToken(s, 0)
		}
	}
	if err == io.EOF {
		return e.errorf(diag.Lexical, diag.ErrFileEndedInArg, tok.String())
	} else if err != nil {
		return err
	}
	e.let(name, t, p&PrefixGlobal != 0)
	return nil
}

func execFuturelet(e *Engine, s *Stack, tok token.Token, p Prefix) error {
	name, err := e.readName(s)
	if err != nil {
		return err
	}
	t1, err := e.PopToken(s, 0)
	if err != nil {
		return e.eofError(err, tok)
	}
	t2, err := e.PopToken(s, 0)
	if err != nil {
		return e.eofError(err, tok)
	}
	e.let(name, t2, p&PrefixGlobal != 0)
	s.Push(t2)
	s.Push(t1)
	return nil
}

func (e *Engine) eofError(err error, tok token.Token) error {
	if err == io.EOF {
		return e.errorf(diag.Lexical, diag.ErrFileEndedInArg, tok.String())
	}
	return err
}

// let gives name the current meaning of target.
func (e *Engine) let(name, target token.Token, global bool) {
	var cmd Command
	switch {
	case target.CanExpand() && target.NoExpand:
		cmd = &Alias{Name: nameOf(name), Target: e.relax}
	case target.CanExpand():
		switch c := e.scope.meaning(target).(type) {
		case *Macro, *Primitive:
			cmd = &Alias{Name: nameOf(name), Target: c}
		case *Alias:
			cmd = &Alias{Name: nameOf(name), Target: c.Target, Robust: c.Robust}
		default:
			cmd = c
		}
	default:
		cmd = &LetToken{Name: nameOf(name), Token: target}
	}
	e.scope.bind(name, cmd, global)
	if e.trace.Enabled(diag.TraceDefinition) {
		e.trace.Printf(diag.TraceDefinition, "%s%s=%s", globalMark(global), name, e.meaningString(target))
	}
}

func prefixPrimitive(flag Prefix) ExecFunc {
	return func(e *Engine, s *Stack, tok token.Token, p Prefix) error {
		for {
			next, err := e.nextNonBlank(s)
			if err == io.EOF {
				return e.errorf(diag.Semantic, diag.ErrCantUsePrefix, "end of input")
			} else if err != nil {
				return err
			}
			if resolve(e.scope.meaning(next)) == e.relax && !next.NoExpand {
				continue
			}
			return e.execute(next, s, p|flag)
		}
	}
}

func execChardef(e *Engine, s *Stack, tok token.Token, p Prefix) error {
	name, err := e.readName(s)
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
	if n < 0 || n > unicode.MaxRune {
		return e.errorf(diag.Semantic, diag.ErrInvalidCode, n, unicode.MaxRune)
	}
	e.scope.bind(name, &CharDef{Name: nameOf(name), Char: rune(n)}, p&PrefixGlobal != 0)
	return nil
}

func registerDef(kind register.Kind) ExecFunc {
	return func(e *Engine, s *Stack, tok token.Token, p Prefix) error {
		name, err := e.readName(s)
		if err != nil {
			return err
		}
		if err := e.skipEquals(s); err != nil {
			return err
		}
		slot, err := e.readSlot(s)
		if err != nil {
			return err
		}
		ref := &RegisterRef{Name: nameOf(name), Key: register.Key{Kind: kind, Slot: slot}}
		e.scope.bind(name, ref, p&PrefixGlobal != 0)
		return nil
	}
}

func registerNew(kind register.Kind) ExecFunc {
	return func(e *Engine, s *Stack, tok token.Token, p Prefix) error {
		name, err := e.readName(s)
		if err != nil {
			return err
		}
		slot, err := e.alloc.Alloc(kind)
		if err != nil {
			return e.locate(err)
		}
		ref := &RegisterRef{Name: nameOf(name), Key: register.Key{Kind: kind, Slot: slot}}
		e.scope.bind(name, ref, true)
		if e.trace.Enabled(diag.TraceRegister) {
			e.trace.Printf(diag.TraceRegister, "%s=%s", name, ref.Key)
		}
		return nil
	}
}

// execNewif defines \ifxxx together with \xxxtrue and \xxxfalse.
func execNewif(e *Engine, s *Stack, tok token.Token, p Prefix) error {
	name, err := e.readName(s)
	if err != nil {
		return err
	}
	if name.Kind != token.ControlSequence || !strings.HasPrefix(name.Name, "if") || len(name.Name) < 3 {
		return e.errorf(diag.Semantic, diag.ErrCantUse, name.String())
	}
	base := name.Name[2:]
	e.scope.Define(name.Name, &Alias{Name: name.Name, Target: e.root.Lookup("iffalse")}, false)
	for _, value := range []string{"true", "false"} {
		m := &Macro{
			Name: base + value,
			Replacement: []token.Token{
				token.NewCS("let"), name, token.NewCS("if" + value),
			},
		}
		e.scope.Define(m.Name, m, false)
	}
	return nil
}
