// token_test.go - unit tests for the token package
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

package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func letters(s string) []Node {
	var res []Node
	for _, r := range s {
		res = append(res, NewChar(Letter, r))
	}
	return res
}

func TestTokenString(t *testing.T) {
	testCases := []struct {
		tok Token
		out string
	}{
		{NewCS("foo"), "\\foo"},
		{NewCS(" "), "\\ "},
		{NewChar(Letter, 'x'), "x"},
		{NewParam(1, 0), "#1"},
		{NewParam(2, 2), "###2"},
		{NewParam(RawDigit, 0), "#"},
		{NewParam(BraceDigit, 0), "#"},
		{Token{Kind: Space}, " "},
		{NewChar(Space, '\t'), "\t"},
		{Token{Kind: Par}, "\n\n"},
		{Token{Kind: Par, Name: "\r\n\r\n"}, "\r\n\r\n"},
		{Token{Kind: Comment, Char: '%', Name: " note\n"}, "% note\n"},
		{Token{Kind: SkippedSpaces, Name: "   "}, "   "},
	}
	for i, test := range testCases {
		assert.Equal(t, test.out, test.tok.String(), "test %d", i)
	}
}

func TestDetokenize(t *testing.T) {
	toks := []Token{
		NewCS("foo"), NewChar(Letter, 'a'),
		NewCS("bar"), NewChar(Other, '1'),
		NewCS("%"), NewChar(Letter, 'b'),
	}
	assert.Equal(t, "\\foo a\\bar1\\%b", Detokenize(toks))
}

func TestEqual(t *testing.T) {
	assert.True(t, NewChar(Space, ' ').Equal(NewChar(EndOfLine, '\n')))
	assert.True(t, NewCS("x").Equal(Token{Kind: ControlSequence, Name: "x", NoExpand: true}))
	assert.False(t, NewChar(Letter, 'a').Equal(NewChar(Other, 'a')))
	assert.False(t, NewParam(1, 0).Equal(NewParam(1, 1)))
	assert.False(t, NewCS("x").Equal(NewCS("y")))
}

func TestCapabilities(t *testing.T) {
	cs := NewCS("foo")
	assert.True(t, cs.CanExpand())
	assert.False(t, cs.IsExpansionBlocker())
	cs.NoExpand = true
	assert.True(t, cs.IsExpansionBlocker())

	assert.True(t, NewCS("par").IsPar())
	assert.True(t, Token{Kind: Par}.IsPar())
	assert.False(t, NewChar(Letter, 'p').IsPar())

	assert.True(t, Token{Kind: Comment}.IsIgnorable())
	assert.True(t, NewChar(EndOfLine, '\n').IsBlank())
	assert.True(t, NewCS("abc").IsControlWord())
	assert.False(t, NewCS("@").IsControlWord())

	assert.Equal(t, rune(256), NewCS("relax").CharCode())
	assert.Equal(t, ' ', NewChar(EndOfLine, '\n').CharCode())
}

func TestFlatten(t *testing.T) {
	inner := NewList(letters("bc")...)
	group := NewGroup(NewChar(BeginGroup, '{'), NewChar(EndGroup, '}'),
		NewList(letters("d")...))
	l := NewList(NewChar(Letter, 'a'), inner, group)
	l.Flatten()

	require.Equal(t, 4, l.Len())
	_, isGroup := l.Nodes[3].(*Group)
	assert.True(t, isGroup, "groups must not be flattened")
	assert.Equal(t, "abc{d}", l.String())
	assert.Len(t, group.Contents(), 1)
	assert.Len(t, group.Tokens(), 3)
}

func TestListIDs(t *testing.T) {
	a := NewList()
	b := NewList()
	assert.NotEqual(t, a.ID, b.ID)
	c := a.Clone()
	assert.NotEqual(t, a.ID, c.ID)
}

func TestListPop(t *testing.T) {
	l := NewList(letters("ab")...)
	n, ok := l.PopFront()
	require.True(t, ok)
	assert.Equal(t, "a", n.String())
	l.Prepend(NewChar(Other, '1'))
	assert.Equal(t, "1b", l.String())
	l.AppendTokens(NewCS("x"))
	assert.Equal(t, "1b\\x", l.String())
}

func TestBuffer(t *testing.T) {
	var b Buffer
	b.PushTokens([]Token{NewChar(Letter, 'a'), NewChar(Letter, 'b')})
	b.Push(NewChar(Letter, 'z'))
	b.Append(NewChar(Letter, 'c'))
	require.Equal(t, 4, b.Len())

	n, ok := b.Peek()
	require.True(t, ok)
	assert.Equal(t, "z", n.String())

	n, _ = b.Pop()
	assert.Equal(t, "z", n.String())

	rest := b.Take()
	assert.Equal(t, "[a|b|c]", Strings(rest))
	assert.Equal(t, 0, b.Len())
	_, ok = b.Pop()
	assert.False(t, ok)
}
