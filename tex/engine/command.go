// command.go - the meanings of control sequences
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
	"fmt"
	"strings"

	"github.com/seehuhn/texparser/tex/dimen"
	"github.com/seehuhn/texparser/tex/register"
	"github.com/seehuhn/texparser/tex/token"
)

// Command is the meaning of a control sequence or an active
// character.  The possible meanings are *Primitive, *Macro, *Alias,
// *LetToken, *RegisterRef, *CharDef and *PageDimen.
type Command interface {
	// CommandName returns the name the command was defined with.
	CommandName() string

	isCommand()
}

// Prefix collects the prefixes \global, \long, \protected and \outer
// which precede a command.  Prefixes only apply to the next command.
type Prefix uint8

// The prefixes.
const (
	PrefixGlobal Prefix = 1 << iota
	PrefixLong
	PrefixProtected
	PrefixOuter
)

// ExpandFunc implements an expandable primitive.  The returned tokens
// replace the primitive and its arguments.
type ExpandFunc func(e *Engine, s *Stack, tok token.Token) ([]token.Token, error)

// ExecFunc implements a non-expandable primitive.
type ExecFunc func(e *Engine, s *Stack, tok token.Token, p Prefix) error

// ValueFunc reads an internal quantity, for example the value of a
// register.
type ValueFunc func(e *Engine, s *Stack, tok token.Token) (Quantity, error)

type condKind int

const (
	condNone condKind = iota
	condIf
	condElse
	condOr
	condFi
)

// Primitive is a command implemented in Go.  Exactly one of Expand and
// Exec is normally set.  Primitives with a Value function can be used
// where TeX expects an internal quantity.
type Primitive struct {
	Name   string
	Expand ExpandFunc
	Exec   ExecFunc
	Value  ValueFunc

	// Prefixable primitives accept \global and the other prefixes.
	Prefixable bool

	cond condKind

	// \count, \dimen, \skip and \toks select a register by number
	isReg   bool
	regKind register.Kind
}

// CommandName implements the Command interface.
func (p *Primitive) CommandName() string { return p.Name }
func (p *Primitive) isCommand()          {}

// Macro is a user-defined macro.
type Macro struct {
	Name string

	// Pattern is the parameter text, Replacement the body.  Parameter
	// tokens in both refer to the arguments.
	Pattern     []token.Token
	Replacement []token.Token

	// Long macros accept paragraph breaks in their arguments.
	Long      bool
	Protected bool

	// Prefixable macros accept \global and the other prefixes, which
	// are then discarded.
	Prefixable bool

	nArgs int
}

// CommandName implements the Command interface.
func (m *Macro) CommandName() string { return m.Name }
func (m *Macro) isCommand()          {}

// NumArgs returns the number of macro arguments.
func (m *Macro) NumArgs() int {
	return m.nArgs
}

// Short checks whether paragraph breaks are rejected in arguments.
func (m *Macro) Short() bool {
	return !m.Long
}

// Delimited checks whether the last argument is delimited by a
// begin-group token.
func (m *Macro) Delimited() bool {
	n := len(m.Pattern)
	return n > 0 && m.Pattern[n-1].Kind == token.Param &&
		m.Pattern[n-1].Digit == token.BraceDigit
}

// Alias is a second name for a macro or primitive, as created by \let.
type Alias struct {
	Name   string
	Target Command

	// Robust aliases are not expanded inside \edef and other full
	// expansions.
	Robust bool
}

// CommandName implements the Command interface.
func (a *Alias) CommandName() string { return a.Name }
func (a *Alias) isCommand()          {}

// LetToken is a name which was \let to a character token.
type LetToken struct {
	Name  string
	Token token.Token
}

// CommandName implements the Command interface.
func (l *LetToken) CommandName() string { return l.Name }
func (l *LetToken) isCommand()          {}

// RegisterRef is a name for a register, as created by \countdef or
// \newcount.
type RegisterRef struct {
	Name string
	Key  register.Key
}

// CommandName implements the Command interface.
func (r *RegisterRef) CommandName() string { return r.Name }
func (r *RegisterRef) isCommand()          {}

// CharDef is a name for a character code, as created by \chardef.
type CharDef struct {
	Name string
	Char rune
}

// CommandName implements the Command interface.
func (c *CharDef) CommandName() string { return c.Name }
func (c *CharDef) isCommand()          {}

// PageDimen is a read-only page dimension like \linewidth.  Its value
// is supplied by the host.
type PageDimen struct {
	Name string
	Dim  dimen.PageDim
}

// CommandName implements the Command interface.
func (p *PageDimen) CommandName() string { return p.Name }
func (p *PageDimen) isCommand()          {}

// resolve follows aliases to the underlying command.
func resolve(cmd Command) Command {
	for {
		a, ok := cmd.(*Alias)
		if !ok {
			return cmd
		}
		cmd = a.Target
	}
}

// Meaning returns the command bound to a control sequence or active
// character token, or nil.
func (e *Engine) Meaning(tok token.Token) Command {
	return e.scope.meaning(tok)
}

// isExpandable checks whether tok would be expanded in the current
// context.  Inside full expansions, protected macros are not expanded.
func (e *Engine) isExpandable(tok token.Token, full bool) bool {
	if !tok.CanExpand() || tok.NoExpand {
		return false
	}
	cmd := e.scope.meaning(tok)
	if a, ok := cmd.(*Alias); ok && a.Robust && full {
		return false
	}
	switch c := resolve(cmd).(type) {
	case *Macro:
		return !(full && c.Protected)
	case *Primitive:
		return c.Expand != nil
	}
	return false
}

// QuantityKind enumerates the types of internal quantities.
type QuantityKind int

// The types of internal quantities.
const (
	IntQuantity QuantityKind = iota
	DimenQuantity
	GlueQuantity
	ToksQuantity
)

// Quantity is the value of an internal quantity, as shown by \the.
type Quantity struct {
	Kind QuantityKind
	Int  int32
	Glue dimen.Glue
	Toks []token.Token
}

// registerQuantity returns the value of a register.
func registerQuantity(r register.Register) Quantity {
	switch r := r.(type) {
	case *register.Count:
		return Quantity{Kind: IntQuantity, Int: r.Value}
	case *register.Dimen:
		if r.Key().Kind == register.SkipKind {
			return Quantity{Kind: GlueQuantity, Glue: r.Value}
		}
		return Quantity{Kind: DimenQuantity, Glue: r.Value}
	case *register.Toks:
		return Quantity{Kind: ToksQuantity, Toks: r.Value}
	}
	return Quantity{}
}

// meaningString describes the meaning of tok, as shown by \meaning.
func (e *Engine) meaningString(tok token.Token) string {
	if !tok.CanExpand() {
		return charMeaning(tok)
	}
	cmd := e.scope.meaning(tok)
	if cmd == nil {
		return "undefined"
	}
	return commandMeaning(cmd)
}

func commandMeaning(cmd Command) string {
	switch c := cmd.(type) {
	case *Alias:
		return commandMeaning(c.Target)
	case *Primitive:
		return "\\" + c.Name
	case *Macro:
		var b strings.Builder
		if c.Protected {
			b.WriteString("\\protected ")
		}
		if c.Long {
			b.WriteString("\\long ")
		}
		b.WriteString("macro:")
		b.WriteString(token.Detokenize(c.Pattern))
		b.WriteString("->")
		b.WriteString(token.Detokenize(c.Replacement))
		return b.String()
	case *LetToken:
		return charMeaning(c.Token)
	case *RegisterRef:
		return c.Key.String()
	case *CharDef:
		return fmt.Sprintf("\\char\"%X", c.Char)
	case *PageDimen:
		return c.Dim.String()
	}
	return "undefined"
}

func charMeaning(tok token.Token) string {
	c := tok.String()
	switch tok.Kind {
	case token.Letter:
		return "the letter " + c
	case token.Other:
		return "the character " + c
	case token.BeginGroup:
		return "begin-group character " + c
	case token.EndGroup:
		return "end-group character " + c
	case token.MathShift:
		return "math shift character " + c
	case token.Tab:
		return "alignment tab character " + c
	case token.Param:
		return "macro parameter character " + string(tok.Char)
	case token.Superscript:
		return "superscript character " + c
	case token.Subscript:
		return "subscript character " + c
	case token.Space, token.EndOfLine:
		return "blank space  "
	case token.Par:
		return "\\par"
	}
	return c
}

// sameMeaning implements the comparison done by \ifx.
func (e *Engine) sameMeaning(a, b token.Token) bool {
	ca, cb := e.letValue(a), e.letValue(b)
	ta, aIsTok := ca.(*LetToken)
	tb, bIsTok := cb.(*LetToken)
	if aIsTok || bIsTok {
		return aIsTok && bIsTok && ta.Token.Equal(tb.Token)
	}
	return sameCommand(ca, cb)
}

// letValue returns the meaning of tok as a command.  Character tokens
// are represented as *LetToken values.
func (e *Engine) letValue(tok token.Token) Command {
	if tok.CanExpand() && !tok.NoExpand {
		return resolve(e.scope.meaning(tok))
	}
	if tok.CanExpand() {
		return e.relax
	}
	return &LetToken{Token: tok}
}

func sameCommand(a, b Command) bool {
	a, b = resolve(a), resolve(b)
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch a := a.(type) {
	case *Macro:
		b, ok := b.(*Macro)
		if !ok {
			return false
		}
		return a.Long == b.Long && a.Protected == b.Protected &&
			sameTokens(a.Pattern, b.Pattern) &&
			sameTokens(a.Replacement, b.Replacement)
	case *LetToken:
		b, ok := b.(*LetToken)
		return ok && a.Token.Equal(b.Token)
	case *RegisterRef:
		b, ok := b.(*RegisterRef)
		return ok && a.Key == b.Key
	case *CharDef:
		b, ok := b.(*CharDef)
		return ok && a.Char == b.Char
	case *PageDimen:
		b, ok := b.(*PageDimen)
		return ok && a.Dim == b.Dim
	}
	return a == b
}

func sameTokens(a, b []token.Token) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
