// engine_test.go - unit tests for the main loop and the primitives
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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seehuhn/texparser/tex/diag"
	"github.com/seehuhn/texparser/tex/token"
)

func newTestEngine(cfg *Config) (*Engine, *diag.Recorder) {
	rec := &diag.Recorder{}
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.Sink = rec
	if cfg.JobName == "" {
		cfg.JobName = "test"
	}
	return New(cfg), rec
}

// parse runs src through a new engine and returns the output as text.
// Like the last line of a file, src is terminated by a newline; a
// final newline in the output is removed again.
func parse(t *testing.T, src string) (string, *diag.Recorder) {
	t.Helper()
	e, rec := newTestEngine(nil)
	out, err := e.ParseString("test.tex", src+"\n")
	require.NoError(t, err, src)
	return strings.TrimSuffix(token.Detokenize(out.Tokens()), "\n"), rec
}

func TestParse(t *testing.T) {
	testCases := []struct {
		in, out string
	}{
		{`\def\foo#1{[#1]}\foo{bar}`, "[bar]"},
		{`\def\foo#1{[#1]}\foo bar`, "[b]ar"},
		{`\def\a#1.#2!{(#1|#2)}\a {x}.y!`, "(x|y)"},
		{`\def\a#1#2{#2#1}\a xy`, "yx"},
		{`\def\a x#1{(#1)}\a x5`, "(5)"},
		{`\def\a#1#{[#1]}\a xy{z}`, "[xy]z"},
		{`\def\a{\def\b##1{<##1>}}\a\b q`, "<q>"},
		{`\gdef\a{G}\a`, "G"},
		{`\def\y{Y}\edef\x{\y\noexpand\y}\def\y{Z}\x`, "YZ"},
		{`\def\a{X}\def\b#1{[#1]}\expandafter\b\a`, "[X]"},
		{`\let\x=a\x`, "a"},
		{`\chardef\c=65 \c`, "A"},

		{`\count0=5 \advance\count0 by 3 \the\count0`, "8"},
		{`\count1=7 \multiply\count1 6 \the\count1`, "42"},
		{`\count1=-7 \divide\count1 2 \the\count1`, "-3"},
		{`\dimen0=2in \the\dimen0`, "144.54pt"},
		{`\skip3=1pt plus 2fil minus 3pt \the\skip3`, "1.0pt plus 2.0fil minus 3.0pt"},
		{`\dimen2=3pt \advance\dimen2 by -1pt \the\dimen2`, "2.0pt"},
		{`\dimen0=0.5\linewidth \the\dimen0`, "172.5pt"},
		{`\dimen0=1,5pt \dimen1=2\dimen0 \the\dimen1`, "3.0pt"},
		{`\toks0={ab}\the\toks0`, "ab"},
		{`\newcount\c \c=42 \the\c`, "42"},
		{`\countdef\c=7 \c=3 \the\count7`, "3"},
		{`\the\numexpr 2*(3+4)-1\relax`, "13"},
		{`\the\numexpr 7/2\relax`, "3"},
		{`\the\dimexpr 1pt*3/2\relax`, "1.5pt"},
		{`\the\catcode` + "`" + `\{`, "1"},

		{`\number 0042`, "42"},
		{`\number'17`, "15"},
		{`\number"1F`, "31"},
		{`\number` + "`" + `a`, "97"},
		{`\romannumeral 1984 `, "mcmlxxxiv"},
		{`\romannumeral 0`, ""},
		{`\string\foo`, `\foo`},
		{`\meaning\relax`, `\relax`},
		{`\def\a#1{x#1}\meaning\a`, "macro:#1->x#1"},
		{`\meaning a`, "the letter a"},
		{`\uppercase{abc}`, "ABC"},
		{`\lowercase{ABC}`, "abc"},
		{`\detokenize{\a b}`, `\a b`},
		{`\jobname`, "test"},
		{`\expandafter\def\csname x y\endcsname{Q}\csname x y\endcsname`, "Q"},
		{`\csname undefined\endcsname\meaning\undefined`, `\relax`},
		{`\toks0={\y}\edef\x{\the\toks0}\meaning\x`, `macro:->\y`},
		{`\def\y{Y}\edef\x{\unexpanded{\y}\y}\meaning\x`, `macro:->\y Y`},

		{`{\def\x{a}\x}`, "a"},
		{`\begingroup\count1=7 \endgroup\the\count1`, "0"},
		{`{\global\count1=7 }\the\count1`, "7"},
		{`\def\x{b}{\aftergroup\x a}`, "ab"},
		{`\bgroup\def\x{a}\egroup\ifdefined\x D\else U\fi`, "U"},
		{`{\catcode` + "`" + `\~=12 ~}`, "~"},
		{`\def\foo{[}\def\endfoo{]}\begin{foo}x\end{foo}`, "[x]"},
		{`$x$`, "$x$"},
		{`$$x$$`, "$$x$$"},
		{`$\ifmmode M\fi$\ifmmode M\else T\fi`, "$M$T"},

		{"a\n\nb", "a\n\nb"},
		{"a\nb", "a\nb"},
		{`a\par b`, `a\par b`},
		{`\verb|a{b|`, `\verb|a{b|`},
		{`\ignorespaces   x`, "x"},
		{`\relax x`, "x"},
	}
	for _, test := range testCases {
		out, rec := parse(t, test.in)
		assert.Equal(t, test.out, out, test.in)
		assert.Empty(t, rec.Errors, test.in)
	}
}

func TestSoftErrors(t *testing.T) {
	testCases := []struct {
		in, out string
		tag     string
	}{
		{`\undefined x`, `\undefined x`, diag.ErrUndefined},
		{`{\def\x{a}}\x`, `\x`, diag.ErrUndefined},
		{`\count1=x\the\count1`, "x0", diag.ErrNumberExpected},
		{`\dimen1=3 x\the\dimen1`, "x3.0pt", diag.ErrMissingUnit},
		{`\dimen1=3fil\relax\the\dimen1`, "3.0pt", diag.ErrMissingUnit},
		{`\divide\count1 0 x`, "x", diag.ErrDivideByZero},
		{`\the\numexpr 1/0\relax`, "", diag.ErrDivideByZero},
		{`\linewidth=3pt x`, "x", diag.ErrAssignConstant},
		{`\global a`, "", diag.ErrCantUsePrefix},
		{`\fi x`, "x", diag.ErrExtra},
		{`\ifnum 1 2 A\else B\fi`, "B", diag.ErrMissingRelation},
		{`\def\a#1{}{\a}x`, "x", diag.ErrExtraEndGroupInArg},
		{`\def\a#1{}\a` + "\n\n" + `x`, "\n\nx", diag.ErrParBeforeEndGroup},
		{`\def\a.#1{}\a x`, "x", diag.ErrSyntax},
		{`\def\a#2{}x`, "x", diag.ErrParamsNotConsecutive},
		{`\def\a#1{#2}x`, "x", diag.ErrIllegalParam},
		{`\begingroup}\endgroup`, "", diag.ErrExtraOrForgotten},
		{`\begin{a}\end{b}`, "", diag.ErrEnvMismatch},
		{`\endgroup x`, "x", diag.ErrExtra},
		{`\errmessage{oops}`, "", diag.ErrUser},
		{`$$x$ y`, "$$x$$ y", diag.ErrDollar2EndedWithDollar},
		{`# x`, "# x", diag.ErrMisplacedParam},
	}
	for _, test := range testCases {
		out, rec := parse(t, test.in)
		assert.Equal(t, test.out, out, test.in)
		assert.True(t, rec.HasTag(test.tag), "%s: missing %s in %v", test.in, test.tag, rec.Errors)
	}
}

func TestFatalErrors(t *testing.T) {
	testCases := []struct {
		in   string
		tag  string
		kind diag.Kind
	}{
		{`{a`, diag.ErrUnterminatedGroup, diag.Lexical},
		{`$a`, diag.ErrMissingEndMath, diag.Lexical},
		{`a}`, diag.ErrUnexpectedEndGroup, diag.Resource},
		{`\def\a#1{}\a `, diag.ErrFileEndedInArg, diag.Lexical},
		{`\def\a{`, diag.ErrNoEndGroup, diag.Lexical},
		{`\verb|abc`, diag.ErrUnterminatedVerbatim, diag.Lexical},
		{`\iffalse abc`, diag.ErrIncompleteIf, diag.Lexical},
		{`\input nonexistent x`, diag.ErrFileNotFound, diag.Resource},
	}
	for _, test := range testCases {
		e, _ := newTestEngine(nil)
		_, err := e.ParseString("test.tex", test.in)
		if assert.Error(t, err, test.in) {
			assert.True(t, diag.HasTag(err, test.tag), "%s: wrong error %v", test.in, err)
			assert.Equal(t, test.kind, diag.KindOf(err), test.in)
		}
	}
}

func TestStepLimit(t *testing.T) {
	e, _ := newTestEngine(&Config{StepLimit: 1000})
	_, err := e.ParseString("loop.tex", `\def\a{\a}\a `)
	require.Error(t, err)
	assert.True(t, diag.HasTag(err, diag.ErrStepLimit))
	assert.Equal(t, diag.Resource, diag.KindOf(err))

	// the budget is per call
	out, err := e.ParseString("ok.tex", `\def\b{x}\b\b\b `)
	require.NoError(t, err)
	assert.Equal(t, "xxx", token.Detokenize(out.Tokens()))
}

func TestMessages(t *testing.T) {
	_, rec := parse(t, `\def\n{World}\message{Hello \n}\show\relax\count3=5 \showthe\count3`)
	assert.Equal(t, []string{"Hello World", `> \relax=\relax.`, "> 5."}, rec.Messages)

	_, rec = parse(t, `\begin{nothing}\end{nothing}`)
	assert.Len(t, rec.Warnings, 1)
	assert.Empty(t, rec.Errors)
}

func TestCatcodeGroup(t *testing.T) {
	e, rec := newTestEngine(nil)
	out, err := e.ParseString("test.tex", "{\\catcode`\\~=12 ~}~")
	require.NoError(t, err)
	toks := out.Tokens()
	require.Len(t, toks, 2)
	assert.Equal(t, token.Other, toks[0].Kind)
	assert.Equal(t, token.Active, toks[1].Kind)
	assert.True(t, rec.HasTag(diag.ErrUndefined))
}

type recordingOutput struct {
	nodes []token.Node
}

func (r *recordingOutput) Emit(n token.Node) {
	r.nodes = append(r.nodes, n)
}

func TestOutput(t *testing.T) {
	rec := &recordingOutput{}
	e, _ := newTestEngine(&Config{Output: rec})
	out, err := e.ParseString("test.tex", `a\verb+x+`)
	require.NoError(t, err)
	assert.Equal(t, out.Nodes, rec.nodes)
	require.Len(t, rec.nodes, 3)
	l, ok := rec.nodes[2].(*token.List)
	require.True(t, ok)
	assert.Equal(t, "+x+", l.String())
}

func TestGroupBalance(t *testing.T) {
	inputs := []string{
		`{a{b}c}`,
		`\begingroup{x}\endgroup `,
		`\def\e{}\begin{e}{x}\end{e}`,
		`$a{b}$`,
		`{\aftergroup\relax}`,
	}
	for _, in := range inputs {
		e, _ := newTestEngine(nil)
		_, err := e.ParseString("test.tex", in)
		assert.NoError(t, err, in)
		assert.Equal(t, 0, e.Scope().Depth(), in)
	}
}
