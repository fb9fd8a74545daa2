// scope.go - the chain of nested scopes
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
	"github.com/seehuhn/texparser/tex/catcode"
	"github.com/seehuhn/texparser/tex/diag"
	"github.com/seehuhn/texparser/tex/register"
	"github.com/seehuhn/texparser/tex/token"
)

// GroupKind records how a scope was opened.
type GroupKind int

// The kinds of groups.
const (
	RootGroup GroupKind = iota
	SimpleGroup
	SemiSimpleGroup
	MathGroup
	EnvGroup
)

var groupNames = []string{"root", "simple", "semi simple", "math shift", "environment"}

func (k GroupKind) String() string {
	if k >= 0 && int(k) < len(groupNames) {
		return groupNames[k]
	}
	return "?"
}

// Mode is the typesetting mode of a scope.
type Mode int

// The modes.
const (
	TextMode Mode = iota
	InlineMath
	DisplayMath
)

// Scope holds the local state of one group level.  Lookups which find
// nothing in a scope continue in the parent scope.
type Scope struct {
	parent *Scope
	depth  int

	// Kind tells how the scope was opened.
	Kind GroupKind

	// EnvName is the name of the environment for scopes of kind
	// EnvGroup.
	EnvName string

	catcodes  map[rune]catcode.Category
	commands  map[string]Command
	active    map[rune]Command
	registers map[register.Key]register.Register

	afterGroup []token.Token
	hook       token.ScopeHook

	mode     Mode
	modeSet  bool
	font     string
	fontSet  bool
	align    int
	alignSet bool
}

func newRootScope() *Scope {
	return &Scope{
		Kind:      RootGroup,
		catcodes:  catcode.Default(),
		commands:  make(map[string]Command),
		active:    make(map[rune]Command),
		registers: make(map[register.Key]register.Register),
	}
}

// Parent returns the enclosing scope, or nil for the root scope.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Depth returns the nesting level of s.  The root scope has depth 0.
func (s *Scope) Depth() int {
	return s.depth
}

func (s *Scope) root() *Scope {
	for s.parent != nil {
		s = s.parent
	}
	return s
}

// Catcode returns the category code of r.
func (s *Scope) Catcode(r rune) catcode.Category {
	for sc := s; sc != nil; sc = sc.parent {
		if cat, ok := sc.catcodes[r]; ok {
			return cat
		}
	}
	return catcode.Fallback(r)
}

// SetCatcode changes the category of r, either in this scope or, if
// global is set, in all scopes.
func (s *Scope) SetCatcode(r rune, cat catcode.Category, global bool) {
	if !global {
		if s.catcodes == nil {
			s.catcodes = make(map[rune]catcode.Category)
		}
		s.catcodes[r] = cat
		return
	}
	for sc := s; sc.parent != nil; sc = sc.parent {
		delete(sc.catcodes, r)
	}
	s.root().catcodes[r] = cat
}

// Lookup returns the meaning of the control sequence with the given
// name, or nil if the name is undefined.
func (s *Scope) Lookup(name string) Command {
	for sc := s; sc != nil; sc = sc.parent {
		if cmd, ok := sc.commands[name]; ok {
			return cmd
		}
	}
	return nil
}

// LookupActive returns the meaning of the active character r.
func (s *Scope) LookupActive(r rune) Command {
	for sc := s; sc != nil; sc = sc.parent {
		if cmd, ok := sc.active[r]; ok {
			return cmd
		}
	}
	return nil
}

// Define binds a control sequence name to cmd.  A nil cmd makes the
// name undefined.
func (s *Scope) Define(name string, cmd Command, global bool) {
	if !global {
		if s.commands == nil {
			s.commands = make(map[string]Command)
		}
		s.commands[name] = cmd
		return
	}
	for sc := s; sc.parent != nil; sc = sc.parent {
		delete(sc.commands, name)
	}
	s.root().commands[name] = cmd
}

// DefineActive binds the active character r to cmd.
func (s *Scope) DefineActive(r rune, cmd Command, global bool) {
	if !global {
		if s.active == nil {
			s.active = make(map[rune]Command)
		}
		s.active[r] = cmd
		return
	}
	for sc := s; sc.parent != nil; sc = sc.parent {
		delete(sc.active, r)
	}
	s.root().active[r] = cmd
}

// meaning returns the command bound to a control sequence or an active
// character token.
func (s *Scope) meaning(tok token.Token) Command {
	switch tok.Kind {
	case token.ControlSequence:
		return s.Lookup(tok.Name)
	case token.Active:
		return s.LookupActive(tok.Char)
	}
	return nil
}

func (s *Scope) bind(tok token.Token, cmd Command, global bool) {
	if tok.Kind == token.Active {
		s.DefineActive(tok.Char, cmd, global)
	} else {
		s.Define(tok.Name, cmd, global)
	}
}

// Register returns the register for the given key, as visible in this
// scope.  The result must not be modified; use SetRegister to change
// register values.
func (s *Scope) Register(key register.Key) register.Register {
	for sc := s; sc != nil; sc = sc.parent {
		if r, ok := sc.registers[key]; ok {
			return r
		}
	}
	return register.New(key)
}

// SetRegister stores r.  Local assignments shadow the register in
// this scope, global assignments change the root scope and remove all
// shadows.
func (s *Scope) SetRegister(r register.Register, global bool) {
	key := r.Key()
	if !global {
		if s.registers == nil {
			s.registers = make(map[register.Key]register.Register)
		}
		s.registers[key] = r
		return
	}
	for sc := s; sc.parent != nil; sc = sc.parent {
		delete(sc.registers, key)
	}
	s.root().registers[key] = r
}

// Mode returns the current typesetting mode.
func (s *Scope) Mode() Mode {
	for sc := s; sc != nil; sc = sc.parent {
		if sc.modeSet {
			return sc.mode
		}
	}
	return TextMode
}

// SetMode changes the typesetting mode of this scope.
func (s *Scope) SetMode(m Mode) {
	s.mode = m
	s.modeSet = true
}

// Font returns the name of the current font.  The engine does not
// interpret fonts; the setting is maintained for host commands.
func (s *Scope) Font() string {
	for sc := s; sc != nil; sc = sc.parent {
		if sc.fontSet {
			return sc.font
		}
	}
	return ""
}

// SetFont changes the font of this scope.
func (s *Scope) SetFont(name string) {
	s.font = name
	s.fontSet = true
}

// Align returns the alignment column, or 0 outside of alignments.
// Alignments are started by host commands, which set the column to 1;
// every executed alignment tab advances the column.
func (s *Scope) Align() int {
	for sc := s; sc != nil; sc = sc.parent {
		if sc.alignSet {
			return sc.align
		}
	}
	return 0
}

// SetAlign changes the alignment column of this scope.
func (s *Scope) SetAlign(col int) {
	s.align = col
	s.alignSet = true
}

func (s *Scope) inMath() bool {
	for sc := s; sc != nil; sc = sc.parent {
		if sc.Kind == MathGroup {
			return true
		}
	}
	return false
}

// Catcode implements the catcode.Lookup interface for the tokenizer.
func (e *Engine) Catcode(r rune) catcode.Category {
	return e.scope.Catcode(r)
}

// EnterGroup opens a new scope.  If hook is not nil, it is notified
// when the scope is entered and left.
func (e *Engine) EnterGroup(kind GroupKind, hook token.ScopeHook) *Scope {
	s := &Scope{
		parent: e.scope,
		depth:  e.scope.depth + 1,
		Kind:   kind,
		hook:   hook,
	}
	e.scope = s
	if e.trace.Enabled(diag.TraceGroup) {
		e.trace.Printf(diag.TraceGroup, "{entering %s group: level %d}", kind, s.depth)
	}
	if hook != nil {
		hook.EnterScope()
	}
	return s
}

// ExitGroup closes the innermost scope.  Tokens saved by \aftergroup
// are pushed onto st.  Leaving the root scope is a fatal error.
func (e *Engine) ExitGroup(st *Stack) error {
	s := e.scope
	if s.parent == nil {
		return e.errorf(diag.Resource, diag.ErrUnexpectedEndGroup)
	}
	if e.trace.Enabled(diag.TraceGroup) {
		e.trace.Printf(diag.TraceGroup, "{leaving %s group: level %d}", s.Kind, s.depth)
	}
	e.scope = s.parent
	if s.hook != nil {
		s.hook.ExitScope()
	}
	if st != nil {
		st.PushTokens(s.afterGroup)
	}
	return nil
}
