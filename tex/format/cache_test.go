// cache_test.go - unit tests for cache.go
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

package format

import (
	"bytes"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seehuhn/texparser/tex/catcode"
	"github.com/seehuhn/texparser/tex/diag"
	"github.com/seehuhn/texparser/tex/dimen"
	"github.com/seehuhn/texparser/tex/token"
)

func testSnapshot() *Snapshot {
	s := New("test.tex")
	s.Catcodes['@'] = catcode.Letter
	s.Commands = append(s.Commands, Command{
		Kind:        MacroCommand,
		Name:        "foo",
		Pattern:     []token.Token{token.NewParam(1, 0)},
		Replacement: []token.Token{token.NewChar(token.Other, '['), token.NewParam(1, 0)},
	})
	s.Registers = append(s.Registers, Register{
		Kind: 1,
		Slot: 3,
		Glue: dimen.FromDimension(dimen.Dimension{Value: 50, Unit: dimen.Percent(dimen.TextWidth)}),
	})
	s.Alloc = []int{10, 0, 0, 11}
	return s
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := testSnapshot()
	buf := &bytes.Buffer{}
	require.NoError(t, s.Write(buf))

	back, err := Read(buf)
	require.NoError(t, err)
	assert.Equal(t, s.ID, back.ID)
	assert.Equal(t, catcode.Letter, back.Catcodes['@'])
	require.Len(t, back.Commands, 1)
	assert.Equal(t, "foo", back.Commands[0].Name)
	assert.Equal(t, s.Commands[0].Replacement, back.Commands[0].Replacement)
	require.Len(t, back.Registers, 1)
	assert.Equal(t, s.Registers[0].Glue, back.Registers[0].Glue)
	assert.Equal(t, s.Alloc, back.Alloc)
}

func TestSnapshotVersion(t *testing.T) {
	testCases := []struct {
		version string
		ok      bool
	}{
		{Version, true},
		{"1.0.0", true},
		{"1.9.3", true},
		{"1.0.0-rc.1", false},
		{"0.9.0", false},
		{"2.0.0", false},
		{"garbage", false},
	}
	for _, test := range testCases {
		s := New("x")
		s.Version = test.version
		err := s.Check()
		if test.ok {
			assert.NoError(t, err, test.version)
		} else {
			assert.True(t, diag.HasTag(err, diag.ErrFormatVersion), test.version)
		}
	}
}

func TestCache(t *testing.T) {
	c, err := Open(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, c.Put("A", testSnapshot()))
	assert.True(t, c.Has("A"))
	assert.False(t, c.Has("B"))

	s, err := c.Get("A")
	require.NoError(t, err)
	assert.Equal(t, "test.tex", s.Name)

	_, err = c.Get("B")
	assert.True(t, os.IsNotExist(err), "wrong error %v", err)

	require.NoError(t, c.Close(-1))
}

func TestCacheReopen(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, c.Put("A", testSnapshot()))
	require.NoError(t, c.Close(0))

	// unused entries from earlier runs are pruned
	c, err = Open(dir)
	require.NoError(t, err)
	require.NoError(t, c.Close(0))

	c, err = Open(dir)
	require.NoError(t, err)
	assert.False(t, c.Has("A"))
	require.NoError(t, c.Close(-1))
}

func TestCacheLoad(t *testing.T) {
	c, err := Open(t.TempDir())
	require.NoError(t, err)
	defer c.Close(-1)

	var calls int32
	build := func() (*Snapshot, error) {
		atomic.AddInt32(&calls, 1)
		return testSnapshot(), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := c.Load("preamble", build)
			if assert.NoError(t, err) {
				assert.Equal(t, "test.tex", s.Name)
			}
		}()
	}
	wg.Wait()

	s, err := c.Load("preamble", build)
	require.NoError(t, err)
	assert.Equal(t, "test.tex", s.Name)
	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(8))
	assert.True(t, c.Has("preamble"))
}

func TestByteSize(t *testing.T) {
	testCases := []struct {
		in  byteSize
		out string
	}{
		{0, "0B"},
		{999, "999B"},
		{2048, "2KB"},
		{3 * 1024 * 1024, "3MB"},
	}
	for _, test := range testCases {
		assert.Equal(t, test.out, test.in.String())
	}
}
