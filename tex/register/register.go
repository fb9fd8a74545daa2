// register.go - count, dimen and token registers
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

// Package register implements TeX's registers.
package register

import (
	"math"
	"strconv"

	"github.com/seehuhn/texparser/tex/diag"
	"github.com/seehuhn/texparser/tex/dimen"
	"github.com/seehuhn/texparser/tex/token"
)

// Kind enumerates the register types.
type Kind int

// The register types.  Skip registers are dimen registers which keep
// their stretch and shrink components.
const (
	CountKind Kind = iota
	DimenKind
	SkipKind
	ToksKind

	numKinds = iota
)

var kindNames = []string{"count", "dimen", "skip", "toks"}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind maps the TeX names count, dimen, skip and toks to register
// kinds.
func ParseKind(name string) (Kind, bool) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), true
		}
	}
	return 0, false
}

// Key identifies a register slot.
type Key struct {
	Kind Kind
	Slot int
}

func (k Key) String() string {
	return "\\" + k.Kind.String() + strconv.Itoa(k.Slot)
}

// Register is a storage location for a count, a dimension or a token
// list.  Registers are mutable; scopes keep copies.
type Register interface {
	Key() Key
	Clone() Register
	String() string
}

// New allocates a register with value zero.
func New(key Key) Register {
	switch key.Kind {
	case CountKind:
		return &Count{key: key}
	case ToksKind:
		return &Toks{key: key}
	}
	return &Dimen{key: key}
}

// Count is an integer register.
type Count struct {
	key   Key
	Value int32
}

// Key implements the Register interface.
func (r *Count) Key() Key { return r.key }

// Clone implements the Register interface.
func (r *Count) Clone() Register {
	res := *r
	return &res
}

func (r *Count) String() string {
	return strconv.Itoa(int(r.Value))
}

// Set assigns a new value, checking the range of TeX integers.
func (r *Count) Set(v int64) error {
	if v > math.MaxInt32 || v < -math.MaxInt32 {
		return diag.New(diag.Semantic, diag.ErrOverflow)
	}
	r.Value = int32(v)
	return nil
}

// Advance adds n to the register.
func (r *Count) Advance(n int32) error {
	return r.Set(int64(r.Value) + int64(n))
}

// Multiply multiplies the register by n.
func (r *Count) Multiply(n int32) error {
	return r.Set(int64(r.Value) * int64(n))
}

// Divide divides the register by n, truncating towards zero.
func (r *Count) Divide(n int32) error {
	if n == 0 {
		return diag.New(diag.Semantic, diag.ErrDivideByZero)
	}
	r.Value /= n
	return nil
}

// Dimen is a register holding a dimension or glue.
type Dimen struct {
	key   Key
	Value dimen.Glue
}

// Key implements the Register interface.
func (r *Dimen) Key() Key { return r.key }

// Clone implements the Register interface.
func (r *Dimen) Clone() Register {
	res := *r
	return &res
}

func (r *Dimen) String() string {
	return r.Value.String()
}

// Set assigns a new value.  Registers of kind DimenKind only keep the
// natural width.
func (r *Dimen) Set(g dimen.Glue) {
	if r.key.Kind != SkipKind {
		g = g.Rigid()
	}
	r.Value = g
}

// Advance adds g to the register.
func (r *Dimen) Advance(g dimen.Glue, p dimen.PageProvider) error {
	if r.key.Kind != SkipKind {
		g = g.Rigid()
	}
	return r.Value.Advance(g, p)
}

// Multiply multiplies the register by n.
func (r *Dimen) Multiply(n int32) {
	r.Value.Multiply(n)
}

// Divide divides the register by n.
func (r *Dimen) Divide(n int32) error {
	return r.Value.Divide(n)
}

// Toks is a token list register.
type Toks struct {
	key   Key
	Value []token.Token
}

// Key implements the Register interface.
func (r *Toks) Key() Key { return r.key }

// Clone implements the Register interface.
func (r *Toks) Clone() Register {
	res := &Toks{key: r.key}
	res.Value = append(res.Value, r.Value...)
	return res
}

func (r *Toks) String() string {
	return token.Detokenize(r.Value)
}
