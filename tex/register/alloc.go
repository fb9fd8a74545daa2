// alloc.go - allocation of register slots
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

package register

import "github.com/seehuhn/texparser/tex/diag"

// MaxSlot is the largest register number.
const MaxSlot = 32767

// Slots 0 to 9 and 255 are scratch registers, never handed out by
// Alloc.
const (
	firstFree = 10
	scratch   = 255
)

// Allocator hands out unused register slots, as \newcount and friends
// do.  The zero value is ready to use.
type Allocator struct {
	// Next holds the most recently allocated slot for each kind, or
	// zero if none was allocated yet.
	Next [numKinds]int
}

// Alloc returns the next free slot of the given kind.
func (a *Allocator) Alloc(kind Kind) (int, error) {
	slot := a.Next[kind] + 1
	if slot < firstFree {
		slot = firstFree
	}
	if slot == scratch {
		slot++
	}
	if slot > MaxSlot {
		return 0, diag.New(diag.Resource, diag.ErrNoRoom, "\\"+kind.String())
	}
	a.Next[kind] = slot
	return slot, nil
}
