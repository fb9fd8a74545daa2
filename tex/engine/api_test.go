// api_test.go - unit tests for api.go
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
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seehuhn/texparser/tex/catcode"
	"github.com/seehuhn/texparser/tex/diag"
	"github.com/seehuhn/texparser/tex/format"
	"github.com/seehuhn/texparser/tex/register"
	"github.com/seehuhn/texparser/tex/token"
)

type mapOpener map[string]string

func (m mapOpener) Open(name string) (io.ReadCloser, string, error) {
	text, ok := m[name]
	if !ok {
		return nil, "", os.ErrNotExist
	}
	return io.NopCloser(strings.NewReader(text)), "", nil
}

func TestDefineMacro(t *testing.T) {
	e, _ := newTestEngine(nil)
	require.NoError(t, e.DefineMacro("pair", "#1#2", "(#2,#1)", 0))
	require.NoError(t, e.DefineMacro("upto", "#1#{", "[#1]", PrefixLong))

	out, err := e.ParseString("test.tex", `\pair ab\upto xy{z}`)
	require.NoError(t, err)
	assert.Equal(t, "(b,a)[xy]z", token.Detokenize(out.Tokens()))

	m, ok := e.Scope().Lookup("upto").(*Macro)
	require.True(t, ok)
	assert.True(t, m.Long)
	assert.Equal(t, 1, m.NumArgs())

	err = e.DefineMacro("bad", "#2", "", 0)
	assert.True(t, diag.HasTag(err, diag.ErrParamsNotConsecutive))
}

func TestHostCommands(t *testing.T) {
	ticks := 0
	tick := &Primitive{
		Name: "tick",
		Exec: func(e *Engine, s *Stack, tok token.Token, p Prefix) error {
			ticks++
			return nil
		},
	}
	greet, err := NewMacro("greet", nil, []token.Token{
		token.NewChar(token.Letter, 'h'),
		token.NewChar(token.Letter, 'i'),
	}, 0)
	require.NoError(t, err)

	e, rec := newTestEngine(&Config{
		Commands: map[string]Command{"tick": tick, "greet": greet},
	})
	out, err := e.ParseString("test.tex", `\tick\greet\tick `)
	require.NoError(t, err)
	assert.Equal(t, "hi", token.Detokenize(out.Tokens()))
	assert.Equal(t, 2, ticks)
	assert.Empty(t, rec.Errors)
}

func TestScopeSettings(t *testing.T) {
	var reports []string
	cmds := map[string]Command{
		"bf": &Primitive{Name: "bf", Exec: func(e *Engine, s *Stack, tok token.Token, p Prefix) error {
			e.Scope().SetFont("bold")
			return nil
		}},
		"tabular": &Primitive{Name: "tabular", Exec: func(e *Engine, s *Stack, tok token.Token, p Prefix) error {
			e.Scope().SetAlign(1)
			return nil
		}},
		"report": &Primitive{Name: "report", Exec: func(e *Engine, s *Stack, tok token.Token, p Prefix) error {
			reports = append(reports, fmt.Sprintf("%s/%d", e.Scope().Font(), e.Scope().Align()))
			return nil
		}},
	}
	e, rec := newTestEngine(&Config{Commands: cmds})
	out, err := e.ParseString("test.tex", `\report{\bf\report}\report{\tabular a&b&c\report}\report `)
	require.NoError(t, err)
	assert.Equal(t, "a&b&c", token.Detokenize(out.Tokens()))
	assert.Equal(t, []string{"/0", "bold/0", "/0", "/3", "/0"}, reports)
	assert.Empty(t, rec.Errors)
}

func TestRegisterAPI(t *testing.T) {
	e, _ := newTestEngine(nil)
	_, err := e.ParseString("test.tex", `\newcount\c \c=42 \newdimen\d \d=3pt`)
	require.NoError(t, err)

	r, ok := e.Register("c")
	require.True(t, ok)
	c, ok := r.(*register.Count)
	require.True(t, ok)
	assert.Equal(t, int32(42), c.Value)

	_, ok = e.Register("relax")
	assert.False(t, ok)
	_, ok = e.Register("nothing")
	assert.False(t, ok)
}

func TestSetCatcode(t *testing.T) {
	e, _ := newTestEngine(nil)
	require.NoError(t, e.SetCatcode('@', catcode.Letter, false))
	out, err := e.ParseString("test.tex", `\def\a@b{Q}\a@b`)
	require.NoError(t, err)
	assert.Equal(t, "Q", token.Detokenize(out.Tokens()))

	err = e.SetCatcode('@', catcode.Category(99), false)
	assert.True(t, diag.HasTag(err, diag.ErrInvalidCode))
}

func TestExpandFully(t *testing.T) {
	e, _ := newTestEngine(nil)
	require.NoError(t, e.DefineMacro("a", "", `\b x`, 0))
	require.NoError(t, e.DefineMacro("b", "", "Y", 0))

	l, err := e.Tokenize(`[\a]`)
	require.NoError(t, err)
	res, err := e.ExpandFully(l, nil)
	require.NoError(t, err)
	assert.Equal(t, "[Yx]", token.Detokenize(res.Tokens()))
}

func TestExpandFullyFixedPoint(t *testing.T) {
	e, _ := newTestEngine(nil)
	_, err := e.ParseString("defs.tex",
		`\def\b{Y}\def\a#1{[\b#1]}\def\c{\ifnum 1<2 T\else F\fi}`+"\n")
	require.NoError(t, err)

	l, err := e.Tokenize(`\a{\c}\noexpand\b.`)
	require.NoError(t, err)
	first, err := e.ExpandFully(l, nil)
	require.NoError(t, err)
	assert.Equal(t, `[YT]\b.`, token.Detokenize(first.Tokens()))

	second, err := e.ExpandFully(first, nil)
	require.NoError(t, err)
	assert.Equal(t, first.Tokens(), second.Tokens())
}

type countingHook struct {
	enter, exit int
}

func (h *countingHook) EnterScope() { h.enter++ }
func (h *countingHook) ExitScope()  { h.exit++ }

func TestGroupHook(t *testing.T) {
	e, rec := newTestEngine(nil)
	hook := &countingHook{}
	g := token.NewGroup(token.NewChar(token.BeginGroup, '{'),
		token.NewChar(token.EndGroup, '}'), token.NewChar(token.Letter, 'x'))
	g.Hook = hook
	e.Primary().Push(g)

	out, err := e.ParseString("test.tex", "y")
	require.NoError(t, err)
	assert.Equal(t, "xy", token.Detokenize(out.Tokens()))
	assert.Equal(t, 1, hook.enter)
	assert.Equal(t, 1, hook.exit)
	assert.Equal(t, 0, e.Scope().Depth())
	assert.Empty(t, rec.Errors)
}

func TestInput(t *testing.T) {
	opener := mapOpener{
		"sub":  `\def\sub{S}in`,
		"bad":  `x\verb|abc`,
		"deep": `<\input sub >`,
	}
	testCases := []struct {
		in, out string
		tag     string
	}{
		{`a\input sub b\sub `, "ainbS", ""},
		{`A\input bad B`, "AxB", diag.ErrUnterminatedVerbatim},
		{`\input{deep}\sub `, "<in>S", ""},
	}
	for _, test := range testCases {
		e, rec := newTestEngine(&Config{Opener: opener})
		out, err := e.ParseString("test.tex", test.in)
		require.NoError(t, err, test.in)
		assert.Equal(t, test.out, token.Detokenize(out.Tokens()), test.in)
		if test.tag != "" {
			assert.True(t, rec.HasTag(test.tag), test.in)
		} else {
			assert.Empty(t, rec.Errors, test.in)
		}
	}
}

func TestEndInput(t *testing.T) {
	opener := mapOpener{
		"stop": "a\\endinput\nc\n",
		"late": "a\\endinput b\nc\n",
		"lead": "a\\endinput\n  c\n",
	}
	testCases := []struct {
		file, keep string
	}{
		{"stop", "a"},
		{"late", "ab"},
		{"lead", "a"},
	}
	for _, test := range testCases {
		e, _ := newTestEngine(&Config{Opener: opener})
		out, err := e.ParseString("test.tex", `\input `+test.file+` X`)
		require.NoError(t, err)
		text := token.Detokenize(out.Tokens())
		assert.True(t, strings.HasPrefix(text, test.keep), text)
		assert.True(t, strings.HasSuffix(text, "X"), text)
		assert.NotContains(t, text, "c", test.file)
	}
}

func TestSnapshotRestore(t *testing.T) {
	e1, _ := newTestEngine(nil)
	_, err := e1.ParseString("preamble.tex", `\catcode`+"`"+`\@=11
\def\m#1{<#1>}
\newcount\c \c=5
\let\r\relax
\let\x=y
\chardef\q=66
\dimen2=4pt \skip3=3pt plus 1fil
\catcode`+"`"+`\~=13 \def~{T}
\expandafter\def\csname p q\endcsname{PQ}
`)
	require.NoError(t, err)

	snap := e1.Snapshot("preamble.tex")
	buf := &bytes.Buffer{}
	require.NoError(t, snap.Write(buf))
	back, err := format.Read(buf)
	require.NoError(t, err)

	e2, rec := newTestEngine(nil)
	require.NoError(t, e2.Restore(back))
	out, err := e2.ParseString("doc.tex", `\m{q}\the\c\def\a@b{Z}\a@b\r\x\q~\csname p q\endcsname\the\dimen2 `)
	require.NoError(t, err)
	assert.Equal(t, "<q>5ZyBTPQ4.0pt", token.Detokenize(out.Tokens()))
	assert.Empty(t, rec.Errors)

	// allocation continues after the restored registers
	_, err = e2.ParseString("more.tex", `\newcount\d `)
	require.NoError(t, err)
	r1, _ := e1.Register("c")
	r2, _ := e2.Register("d")
	assert.Equal(t, r1.Key().Slot+1, r2.Key().Slot)

	old := e1.Snapshot("x")
	old.Version = "0.1.0"
	assert.True(t, diag.HasTag(e2.Restore(old), diag.ErrFormatVersion))
}
