// cond_test.go - unit tests for cond.go
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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConditionals(t *testing.T) {
	testCases := []struct {
		in, out string
	}{
		{`\ifnum 3<5 yes\else no\fi`, "yes"},
		{`\ifnum 3>5 yes\else no\fi`, "no"},
		{`\ifnum 3=3 yes\fi`, "yes"},
		{`\ifx\a\b T\else F\fi`, "T"},
		{`\def\a{x}\def\b{x}\ifx\a\b T\else F\fi`, "T"},
		{`\def\a{x}\def\b{y}\ifx\a\b T\else F\fi`, "F"},
		{`\if aaT\fi`, "T"},
		{`\if abT\else F\fi`, "F"},
		{`\ifcat abT\fi`, "T"},
		{`\ifcat a1T\else F\fi`, "F"},
		{`\ifcase 2 a\or b\or c\else d\fi`, "c"},
		{`\ifcase 0 a\or b\fi`, "a"},
		{`\ifcase 5 a\or b\else d\fi`, "d"},
		{`\ifodd 3 odd\fi`, "odd"},
		{`\ifodd 4 odd\else even\fi`, "even"},
		{`\ifdim 1in>72pt Y\fi`, "Y"},
		{`\ifdefined\undefined A\else B\fi`, "B"},
		{`\ifdefined\relax A\else B\fi`, "A"},
		{`\ifcsname relax\endcsname A\fi`, "A"},
		{`\ifcsname nothing\endcsname A\else B\fi`, "B"},
		{`\iftrue A\else B\fi`, "A"},
		{`\iffalse A\else B\fi`, "B"},

		// skipped branches are not expanded, but nesting is tracked
		{`\iffalse \ifnum 1=1 x\else y\fi \else z\fi`, "z"},
		{`\iftrue a\else \iffalse b\fi c\fi d`, "ad"},
		{`\ifcase 1 \iftrue x\or y\fi \or z\fi`, "z"},
		{`\iffalse \undefined\fi ok`, "ok"},

		{`\newif\iffoo \footrue \iffoo Y\else N\fi`, "Y"},
		{`\newif\iffoo \foofalse \iffoo Y\else N\fi`, "N"},
		{`\def\x{\ifx\n a A\else B\fi}\futurelet\n\x a`, " Aa"},
		{`\def\t{\iftrue}\t X\fi`, "X"},
	}
	for _, test := range testCases {
		out, rec := parse(t, test.in)
		assert.Equal(t, test.out, out, test.in)
		assert.Empty(t, rec.Errors, test.in)
	}
}
