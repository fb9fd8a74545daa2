// prim.go - the table of primitives
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
	"github.com/seehuhn/texparser/tex/dimen"
)

func (e *Engine) addPrimitives() {
	e.addGroupPrimitives()
	e.relax = e.root.Lookup("relax")

	e.addDefPrimitives()
	e.addRegisterPrimitives()
	e.addExpandPrimitives()
	e.addCondPrimitives()
	e.addIOPrimitives()

	for i, name := range dimen.PageDimNames {
		e.root.commands[name] = &PageDimen{Name: name, Dim: dimen.PageDim(i)}
	}
}
