// glue.go - dimensions and glue
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

package dimen

import (
	"math"
	"strconv"
	"strings"

	"github.com/seehuhn/texparser/tex/diag"
)

// Dimension is a length, given as a value together with its unit.
type Dimension struct {
	Value float64
	Unit  Unit
}

// Pt returns the dimension x pt.
func Pt(x float64) Dimension {
	return Dimension{Value: x, Unit: Points}
}

// ToPt converts d to points.
func (d Dimension) ToPt(p PageProvider) (float64, error) {
	return Convert(d.Value, d.Unit, Points, p)
}

// In expresses d in the unit u.
func (d Dimension) In(u Unit, p PageProvider) (Dimension, error) {
	if d.Unit == u {
		return d, nil
	}
	x, err := Convert(d.Value, d.Unit, u, p)
	if err != nil {
		return Dimension{}, err
	}
	return Dimension{Value: x, Unit: u}, nil
}

// IsZero checks whether d has value zero.
func (d Dimension) IsZero() bool {
	return d.Value == 0
}

// Scale multiplies d by f.
func (d Dimension) Scale(f float64) Dimension {
	return Dimension{Value: d.Value * f, Unit: d.Unit}
}

func (d Dimension) String() string {
	return FormatNumber(d.Value) + d.Unit.String()
}

// FormatNumber formats x the way TeX shows dimensions: with at most
// five digits after the decimal point, and at least one.
func FormatNumber(x float64) string {
	x = math.Round(x*1e5) / 1e5
	if x == 0 {
		x = 0
	}
	s := strconv.FormatFloat(x, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// Glue is a dimension which can stretch and shrink.
type Glue struct {
	Natural Dimension
	Stretch Dimension
	Shrink  Dimension
}

// FromDimension returns glue without stretch and shrink.
func FromDimension(d Dimension) Glue {
	return Glue{Natural: d}
}

// Rigid returns g without stretch and shrink.
func (g Glue) Rigid() Glue {
	return Glue{Natural: g.Natural}
}

func (g Glue) String() string {
	res := g.Natural.String()
	if !g.Stretch.IsZero() {
		res += " plus " + g.Stretch.String()
	}
	if !g.Shrink.IsZero() {
		res += " minus " + g.Shrink.String()
	}
	return res
}

// Advance adds other to g.  The result keeps the units of g.
func (g *Glue) Advance(other Glue, p PageProvider) error {
	nat, err := addDimensions(g.Natural, other.Natural, p)
	if err != nil {
		return err
	}
	stretch, err := addDimensions(g.Stretch, other.Stretch, p)
	if err != nil {
		return err
	}
	shrink, err := addDimensions(g.Shrink, other.Shrink, p)
	if err != nil {
		return err
	}
	g.Natural, g.Stretch, g.Shrink = nat, stretch, shrink
	return nil
}

// addDimensions adds two glue components.  Infinite components of
// higher order win over those of lower order.
func addDimensions(a, b Dimension, p PageProvider) (Dimension, error) {
	if b.IsZero() {
		return a, nil
	}
	if a.IsZero() && a.Unit.Order() != b.Unit.Order() {
		return b, nil
	}
	ao, bo := a.Unit.Order(), b.Unit.Order()
	switch {
	case ao > bo:
		return a, nil
	case ao < bo:
		return b, nil
	case ao > 0:
		return Dimension{Value: a.Value + b.Value, Unit: a.Unit}, nil
	}
	x, err := Convert(b.Value, b.Unit, a.Unit, p)
	if err != nil {
		return Dimension{}, err
	}
	return Dimension{Value: a.Value + x, Unit: a.Unit}, nil
}

// Multiply scales all components of g by n.
func (g *Glue) Multiply(n int32) {
	f := float64(n)
	g.Natural = g.Natural.Scale(f)
	g.Stretch = g.Stretch.Scale(f)
	g.Shrink = g.Shrink.Scale(f)
}

// Divide divides all components of g by n.
func (g *Glue) Divide(n int32) error {
	if n == 0 {
		return diag.New(diag.Semantic, diag.ErrDivideByZero)
	}
	f := float64(n)
	g.Natural.Value /= f
	g.Stretch.Value /= f
	g.Shrink.Value /= f
	return nil
}

// Negate flips the sign of all components.
func (g Glue) Negate() Glue {
	return Glue{
		Natural: g.Natural.Scale(-1),
		Stretch: g.Stretch.Scale(-1),
		Shrink:  g.Shrink.Scale(-1),
	}
}
