// register_test.go - unit tests for the register package
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

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seehuhn/texparser/tex/diag"
	"github.com/seehuhn/texparser/tex/dimen"
	"github.com/seehuhn/texparser/tex/token"
)

func TestCountArithmetic(t *testing.T) {
	r := New(Key{CountKind, 0}).(*Count)
	require.NoError(t, r.Advance(5))
	require.NoError(t, r.Advance(3))
	assert.Equal(t, int32(8), r.Value)

	// advance by x, then by -x
	require.NoError(t, r.Advance(1234))
	require.NoError(t, r.Advance(-1234))
	assert.Equal(t, int32(8), r.Value)

	require.NoError(t, r.Multiply(-3))
	assert.Equal(t, int32(-24), r.Value)
	require.NoError(t, r.Divide(5))
	assert.Equal(t, int32(-4), r.Value, "division must truncate towards zero")

	err := r.Divide(0)
	assert.True(t, diag.HasTag(err, diag.ErrDivideByZero))

	r.Value = math.MaxInt32
	err = r.Advance(1)
	assert.True(t, diag.HasTag(err, diag.ErrOverflow))
	assert.Equal(t, int32(math.MaxInt32), r.Value)
}

func TestDivideMultiply(t *testing.T) {
	for _, a := range []int32{0, 1, 7, 100, -100, 12345, -7} {
		for _, b := range []int32{1, 2, 3, 7, -4} {
			r := &Count{Value: a}
			require.NoError(t, r.Divide(b))
			require.NoError(t, r.Multiply(b))
			assert.Equal(t, a-a%b, r.Value, "a=%d b=%d", a, b)
		}
	}
}

func TestDimen(t *testing.T) {
	d := New(Key{DimenKind, 1}).(*Dimen)
	g := dimen.Glue{
		Natural: dimen.Pt(2),
		Stretch: dimen.Dimension{Value: 1, Unit: dimen.Fil(1)},
	}
	d.Set(g)
	assert.Equal(t, "2.0pt", d.String(), "dimen registers are rigid")

	s := New(Key{SkipKind, 1}).(*Dimen)
	s.Set(g)
	require.NoError(t, s.Advance(g, nil))
	assert.Equal(t, "4.0pt plus 2.0fil", s.String())
	s.Multiply(3)
	require.NoError(t, s.Divide(2))
	assert.Equal(t, "6.0pt plus 3.0fil", s.String())
}

func TestClone(t *testing.T) {
	c := &Toks{key: Key{ToksKind, 3}, Value: []token.Token{token.NewChar(token.Letter, 'a')}}
	d := c.Clone().(*Toks)
	d.Value[0] = token.NewChar(token.Letter, 'b')
	assert.Equal(t, "a", c.String())
	assert.Equal(t, "b", d.String())
	assert.Equal(t, "\\toks3", d.Key().String())
}

func TestAlloc(t *testing.T) {
	var a Allocator
	slot, err := a.Alloc(CountKind)
	require.NoError(t, err)
	assert.Equal(t, 10, slot)
	slot, _ = a.Alloc(CountKind)
	assert.Equal(t, 11, slot)
	slot, _ = a.Alloc(ToksKind)
	assert.Equal(t, 10, slot)

	a.Next[DimenKind] = 254
	slot, _ = a.Alloc(DimenKind)
	assert.Equal(t, 256, slot, "slot 255 is reserved")

	a.Next[SkipKind] = MaxSlot
	_, err = a.Alloc(SkipKind)
	assert.Equal(t, diag.Resource, diag.KindOf(err))
}
