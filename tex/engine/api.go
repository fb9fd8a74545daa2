// api.go - functions for host programs
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
	"sort"

	"github.com/seehuhn/texparser/tex/catcode"
	"github.com/seehuhn/texparser/tex/diag"
	"github.com/seehuhn/texparser/tex/format"
	"github.com/seehuhn/texparser/tex/register"
	"github.com/seehuhn/texparser/tex/token"
)

// DefineMacro defines a macro in the current scope.  Pattern and
// replacement are given as TeX source and are tokenized with the
// current category codes.  The prefix flags PrefixLong and
// PrefixProtected are recorded in the macro, PrefixGlobal makes the
// definition global.  As in input files, a control word at the very
// end of the text is read as a control space.
func (e *Engine) DefineMacro(name, pattern, replacement string, flags Prefix) error {
	pat, err := e.Tokenize(pattern)
	if err != nil {
		return err
	}
	patToks := withoutIgnorables(pat.Tokens())
	// "#{" leaves the brace in the input, where it would open the body
	if n := len(patToks); n > 1 && patToks[n-1].Kind == token.BeginGroup &&
		patToks[n-2].Kind == token.Param && patToks[n-2].Digit == token.BraceDigit {
		patToks = patToks[:n-1]
	}
	repl, err := e.Tokenize(replacement)
	if err != nil {
		return err
	}
	m, err := NewMacro(name, patToks, withoutIgnorables(repl.Tokens()), flags)
	if err != nil {
		return err
	}
	e.scope.Define(name, m, flags&PrefixGlobal != 0)
	return nil
}

func withoutIgnorables(toks []token.Token) []token.Token {
	res := toks[:0]
	for _, t := range toks {
		if !t.IsIgnorable() {
			res = append(res, t)
		}
	}
	return res
}

// Define binds a command to a control sequence name.
func (e *Engine) Define(name string, cmd Command, global bool) {
	e.scope.Define(name, cmd, global)
}

// Register returns the current value of the register bound to name,
// for example by \newcount.  The second return value is false if name
// does not denote a register.
func (e *Engine) Register(name string) (register.Register, bool) {
	ref, ok := resolve(e.scope.Lookup(name)).(*RegisterRef)
	if !ok {
		return nil, false
	}
	return e.scope.Register(ref.Key), true
}

// SetCatcode changes the category code of r in the current scope.
func (e *Engine) SetCatcode(r rune, cat catcode.Category, global bool) error {
	if !cat.Valid() {
		return diag.New(diag.Semantic, diag.ErrInvalidCode, int(cat), int(catcode.Max))
	}
	e.scope.SetCatcode(r, cat, global)
	return nil
}

// Snapshot captures the global state of the engine: category codes,
// definitions and registers of the root scope.  Primitives are not
// included, and commands supplied by the host are only included if
// they are macros or other user-definable commands.
func (e *Engine) Snapshot(label string) *format.Snapshot {
	s := format.New(label)
	for r, cat := range e.root.catcodes {
		s.Catcodes[r] = cat
	}

	names := make([]string, 0, len(e.root.commands))
	for name := range e.root.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cmd := e.root.commands[name]
		if p, ok := cmd.(*Primitive); ok && p.Name != name {
			// names created by \csname
			cmd = &Alias{Name: name, Target: p}
		}
		if c, ok := storeCommand(cmd); ok {
			c.Name = name
			s.Commands = append(s.Commands, c)
		}
	}
	var chars []rune
	for r := range e.root.active {
		chars = append(chars, r)
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] })
	for _, r := range chars {
		if c, ok := storeCommand(e.root.active[r]); ok {
			c.Name = string(r)
			c.Active = true
			s.Commands = append(s.Commands, c)
		}
	}

	for _, r := range e.root.registers {
		s.Registers = append(s.Registers, storeRegister(r))
	}
	sort.Slice(s.Registers, func(i, j int) bool {
		a, b := s.Registers[i], s.Registers[j]
		return a.Kind < b.Kind || a.Kind == b.Kind && a.Slot < b.Slot
	})
	s.Alloc = append(s.Alloc, e.alloc.Next[:]...)
	return s
}

func storeCommand(cmd Command) (format.Command, bool) {
	switch c := cmd.(type) {
	case *Macro:
		return format.Command{
			Kind:        format.MacroCommand,
			Pattern:     c.Pattern,
			Replacement: c.Replacement,
			Long:        c.Long,
			Protected:   c.Protected,
			Prefixable:  c.Prefixable,
		}, true
	case *Alias:
		switch t := c.Target.(type) {
		case *Primitive:
			return format.Command{Kind: format.AliasCommand, Target: t.Name, Robust: c.Robust}, true
		case *Macro:
			res, _ := storeCommand(t)
			res.Kind = format.AliasCommand
			res.Robust = c.Robust
			return res, true
		}
	case *LetToken:
		return format.Command{Kind: format.LetCommand, Token: c.Token}, true
	case *RegisterRef:
		return format.Command{
			Kind:    format.RegisterCommand,
			RegKind: int(c.Key.Kind),
			Slot:    c.Key.Slot,
		}, true
	case *CharDef:
		return format.Command{Kind: format.CharCommand, Char: c.Char}, true
	}
	return format.Command{}, false
}

func storeRegister(r register.Register) format.Register {
	key := r.Key()
	res := format.Register{Kind: int(key.Kind), Slot: key.Slot}
	switch r := r.(type) {
	case *register.Count:
		res.Int = r.Value
	case *register.Dimen:
		res.Glue = r.Value
	case *register.Toks:
		res.Toks = r.Value
	}
	return res
}

// Restore installs the global state recorded in s.  Definitions made
// since the engine was created are kept unless s overrides them.
func (e *Engine) Restore(s *format.Snapshot) error {
	err := s.Check()
	if err != nil {
		return err
	}

	for r, cat := range s.Catcodes {
		e.root.catcodes[r] = cat
	}
	for _, c := range s.Commands {
		cmd, err := e.loadCommand(c)
		if err != nil {
			return err
		}
		if c.Active {
			e.root.active[[]rune(c.Name)[0]] = cmd
		} else {
			e.root.commands[c.Name] = cmd
		}
	}
	for _, r := range s.Registers {
		key := register.Key{Kind: register.Kind(r.Kind), Slot: r.Slot}
		reg := register.New(key)
		switch reg := reg.(type) {
		case *register.Count:
			reg.Value = r.Int
		case *register.Dimen:
			reg.Value = r.Glue
		case *register.Toks:
			reg.Value = r.Toks
		}
		e.root.registers[key] = reg
	}
	copy(e.alloc.Next[:], s.Alloc)
	return nil
}

func (e *Engine) loadCommand(c format.Command) (Command, error) {
	name := c.Name
	switch c.Kind {
	case format.MacroCommand, format.AliasCommand:
		if c.Kind == format.AliasCommand && c.Target != "" {
			p, ok := e.root.commands[c.Target].(*Primitive)
			if !ok {
				return nil, diag.New(diag.Resource, diag.ErrUndefined, "\\"+c.Target)
			}
			return &Alias{Name: name, Target: p, Robust: c.Robust}, nil
		}
		var p Prefix
		if c.Long {
			p |= PrefixLong
		}
		if c.Protected {
			p |= PrefixProtected
		}
		m, err := NewMacro(name, c.Pattern, c.Replacement, p)
		if err != nil {
			return nil, err
		}
		m.Prefixable = c.Prefixable
		if c.Kind == format.AliasCommand {
			return &Alias{Name: name, Target: m, Robust: c.Robust}, nil
		}
		return m, nil
	case format.LetCommand:
		return &LetToken{Name: name, Token: c.Token}, nil
	case format.RegisterCommand:
		key := register.Key{Kind: register.Kind(c.RegKind), Slot: c.Slot}
		return &RegisterRef{Name: name, Key: key}, nil
	case format.CharCommand:
		return &CharDef{Name: name, Char: c.Char}, nil
	}
	return nil, diag.New(diag.Resource, diag.ErrFormatVersion, "?", format.Version)
}
