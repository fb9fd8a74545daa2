// dimen_test.go - unit tests for the dimen package
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
	"bytes"
	"encoding/gob"
	"math"
	"testing"

	"github.com/seehuhn/texparser/tex/diag"
)

func TestConvert(t *testing.T) {
	testCases := []struct {
		x        float64
		from, to Fixed
		res      float64
	}{
		{2, IN, PT, 144.54},
		{1, PC, PT, 12},
		{72, BP, IN, 1},
		{2.54, CM, IN, 1},
		{10, MM, CM, 1},
		{1, CC, DD, 12},
		{65536, SP, PT, 1},
	}
	for i, test := range testCases {
		res, err := Convert(test.x, FixedUnit(test.from), FixedUnit(test.to), nil)
		if err != nil {
			t.Errorf("test %d: %s", i, err)
			continue
		}
		if math.Abs(res-test.res) > 1e-9 {
			t.Errorf("test %d: expected %g, got %g", i, test.res, res)
		}
	}
}

func TestConversionClosure(t *testing.T) {
	for a := PT; a <= SP; a++ {
		for b := PT; b <= SP; b++ {
			x := 17.25
			y, err := Convert(x, FixedUnit(a), FixedUnit(b), nil)
			if err != nil {
				t.Fatal(err)
			}
			z, err := Convert(y, FixedUnit(b), FixedUnit(a), nil)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(z-x) > 1e-9 {
				t.Errorf("%s -> %s -> %s: %g != %g",
					FixedUnit(a), FixedUnit(b), FixedUnit(a), z, x)
			}
		}
	}
}

func TestPercent(t *testing.T) {
	page := StaticPage{LineWidth: 72}
	d := Dimension{Value: 50, Unit: Percent(LineWidth)}
	pt, err := d.ToPt(page)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(pt-72.27/2) > 1e-9 {
		t.Errorf("wrong value %g", pt)
	}

	page[LineWidth] = 144
	pt, _ = d.ToPt(page)
	if math.Abs(pt-72.27) > 1e-9 {
		t.Errorf("page change not seen, got %g", pt)
	}
}

func TestFil(t *testing.T) {
	_, err := Dimension{Value: 1, Unit: Fil(1)}.ToPt(nil)
	if !diag.HasTag(err, diag.ErrMissingUnit) {
		t.Errorf("wrong error %v", err)
	}
	u, ok := ParseUnit("FILL")
	if !ok || u.Order() != 2 || u.String() != "fill" {
		t.Errorf("wrong unit %s", u)
	}
	if _, ok := ParseUnit("em"); ok {
		t.Error("em should not be known")
	}
}

func TestFormat(t *testing.T) {
	testCases := []struct {
		x   float64
		out string
	}{
		{144.54, "144.54"},
		{5, "5.0"},
		{-0.5, "-0.5"},
		{1.0 / 3, "0.33333"},
		{-1e-9, "0.0"},
	}
	for _, test := range testCases {
		if out := FormatNumber(test.x); out != test.out {
			t.Errorf("%g: expected %q, got %q", test.x, test.out, out)
		}
	}
}

func TestGlue(t *testing.T) {
	g := Glue{
		Natural: Pt(3),
		Stretch: Dimension{Value: 1, Unit: Fil(1)},
	}
	other := Glue{
		Natural: Dimension{Value: 1, Unit: FixedUnit(IN)},
		Stretch: Pt(5),
		Shrink:  Pt(2),
	}
	if err := g.Advance(other, nil); err != nil {
		t.Fatal(err)
	}
	if s := g.String(); s != "75.27pt plus 1.0fil minus 2.0pt" {
		t.Errorf("wrong glue %q", s)
	}

	g.Multiply(2)
	if s := g.String(); s != "150.54pt plus 2.0fil minus 4.0pt" {
		t.Errorf("wrong glue %q", s)
	}
	if err := g.Divide(4); err != nil {
		t.Fatal(err)
	}
	if s := g.String(); s != "37.635pt plus 0.5fil minus 1.0pt" {
		t.Errorf("wrong glue %q", s)
	}
	if err := g.Divide(0); !diag.HasTag(err, diag.ErrDivideByZero) {
		t.Errorf("wrong error %v", err)
	}

	back := g
	if err := back.Advance(other, nil); err != nil {
		t.Fatal(err)
	}
	if err := back.Advance(other.Negate(), nil); err != nil {
		t.Fatal(err)
	}
	if math.Abs(back.Natural.Value-g.Natural.Value) > 1e-9 {
		t.Errorf("advance by x and -x changed %s to %s", g, back)
	}
}

func TestUnitText(t *testing.T) {
	units := []Unit{Points, FixedUnit(SP), Fil(3), Percent(TextWidth)}
	for _, u := range units {
		text, err := u.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back Unit
		if err := back.UnmarshalText(text); err != nil {
			t.Errorf("%s: %v", text, err)
			continue
		}
		if back != u {
			t.Errorf("%s: got %s", text, back)
		}
	}

	var u Unit
	if err := u.UnmarshalText([]byte("em")); !diag.HasTag(err, diag.ErrMissingUnit) {
		t.Errorf("wrong error %v", err)
	}
}

func TestGlueGob(t *testing.T) {
	in := Glue{
		Natural: Dimension{Value: 50, Unit: Percent(LineWidth)},
		Stretch: Dimension{Value: 2, Unit: Fil(2)},
		Shrink:  Dimension{Value: 1.5, Unit: FixedUnit(CM)},
	}
	buf := &bytes.Buffer{}
	if err := gob.NewEncoder(buf).Encode(in); err != nil {
		t.Fatal(err)
	}
	var out Glue
	if err := gob.NewDecoder(buf).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Errorf("got %s, expected %s", out, in)
	}
}
