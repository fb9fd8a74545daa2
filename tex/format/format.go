// format.go - engine state for format files
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

// Package format stores the global state of a TeX engine, so that the
// effect of a preamble can be reused without reading it again.
package format

import (
	"encoding/gob"
	"fmt"
	"io"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"

	"github.com/seehuhn/texparser/tex/catcode"
	"github.com/seehuhn/texparser/tex/diag"
	"github.com/seehuhn/texparser/tex/dimen"
	"github.com/seehuhn/texparser/tex/token"
)

// Version is the version of the snapshot layout.  Snapshots can be
// loaded by all versions with the same major version number.
const Version = "1.1.0"

var compatible = mustConstraint(fmt.Sprintf("^%d", semver.MustParse(Version).Major()))

func mustConstraint(c string) *semver.Constraints {
	res, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return res
}

// namespace is used to derive the snapshot IDs.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL,
	[]byte("https://github.com/seehuhn/texparser/format"))

// CommandKind enumerates the user-definable command types.
type CommandKind int

// The kinds of stored commands.
const (
	MacroCommand CommandKind = iota
	AliasCommand
	LetCommand
	RegisterCommand
	CharCommand
)

// Command describes the meaning of a control sequence or an active
// character.
type Command struct {
	Kind CommandKind

	// Name is the name of the control sequence, or the character
	// itself for active characters.
	Name   string
	Active bool

	// Char is the value of a CharCommand.
	Char rune

	// macros, and aliases of macros
	Pattern     []token.Token
	Replacement []token.Token
	Long        bool
	Protected   bool
	Prefixable  bool

	// Target is the name of the primitive an alias refers to.  It is
	// empty for aliases of macros.
	Target string
	Robust bool

	// Token is the value of a LetCommand.
	Token token.Token

	// RegKind and Slot identify the register of a RegisterCommand.
	RegKind int
	Slot    int
}

// Register holds the value of one register.
type Register struct {
	Kind int
	Slot int
	Int  int32
	Glue dimen.Glue
	Toks []token.Token
}

// Snapshot is the global state of an engine.
type Snapshot struct {
	ID      uuid.UUID
	Version string
	Name    string
	Created time.Time

	Catcodes  map[rune]catcode.Category
	Commands  []Command
	Registers []Register
	Alloc     []int
}

// New returns an empty snapshot.  The ID is derived from name, so that
// snapshots of the same source are recognisable.
func New(name string) *Snapshot {
	return &Snapshot{
		ID:       uuid.NewSHA1(namespace, []byte(name)),
		Version:  Version,
		Name:     name,
		Created:  time.Now(),
		Catcodes: make(map[rune]catcode.Category),
	}
}

// Check verifies that the snapshot can be used by this version of the
// program.
func (s *Snapshot) Check() error {
	v, err := semver.NewVersion(s.Version)
	if err != nil || !compatible.Check(v) {
		return diag.New(diag.Resource, diag.ErrFormatVersion, s.Version, Version)
	}
	return nil
}

// Write stores the snapshot in gob format.
func (s *Snapshot) Write(w io.Writer) error {
	return gob.NewEncoder(w).Encode(s)
}

// Read loads a snapshot written by Write and checks its version.
func Read(r io.Reader) (*Snapshot, error) {
	s := &Snapshot{}
	err := gob.NewDecoder(r).Decode(s)
	if err != nil {
		return nil, err
	}
	err = s.Check()
	if err != nil {
		return nil, err
	}
	return s, nil
}
