// list.go - token lists and groups
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
	"strings"
	"sync/atomic"
)

// Node is an element of a List: a Token, a nested *List or a *Group.
type Node interface {
	IsPar() bool
	IsSingleToken() bool
	String() string
}

var lastListID uint64

func nextID() uint64 {
	return atomic.AddUint64(&lastListID, 1)
}

// List is an ordered sequence of nodes.  Every list carries an ID
// which is unique within the running program.
type List struct {
	ID    uint64
	Nodes []Node
}

// NewList allocates a new list holding the given nodes.
func NewList(nodes ...Node) *List {
	return &List{
		ID:    nextID(),
		Nodes: nodes,
	}
}

// FromTokens allocates a new list holding the given tokens.
func FromTokens(toks []Token) *List {
	nodes := make([]Node, len(toks))
	for i, tok := range toks {
		nodes[i] = tok
	}
	return NewList(nodes...)
}

// Len returns the number of top-level nodes in the list.
func (l *List) Len() int {
	return len(l.Nodes)
}

// Append adds nodes at the end of the list.
func (l *List) Append(nodes ...Node) {
	l.Nodes = append(l.Nodes, nodes...)
}

// AppendTokens adds tokens at the end of the list.
func (l *List) AppendTokens(toks ...Token) {
	for _, tok := range toks {
		l.Nodes = append(l.Nodes, tok)
	}
}

// Prepend adds nodes at the start of the list.
func (l *List) Prepend(nodes ...Node) {
	l.Nodes = append(append([]Node{}, nodes...), l.Nodes...)
}

// Front returns the first node of the list.
func (l *List) Front() (Node, bool) {
	if len(l.Nodes) == 0 {
		return nil, false
	}
	return l.Nodes[0], true
}

// PopFront removes the first node from the list.
func (l *List) PopFront() (Node, bool) {
	if len(l.Nodes) == 0 {
		return nil, false
	}
	n := l.Nodes[0]
	l.Nodes[0] = nil
	l.Nodes = l.Nodes[1:]
	return n, true
}

// Flatten splices the contents of nested lists into l.  Groups are
// kept as they are.
func (l *List) Flatten() *List {
	flat := false
	for _, n := range l.Nodes {
		if _, ok := n.(*List); ok {
			flat = true
			break
		}
	}
	if !flat {
		return l
	}
	var res []Node
	var walk func(nodes []Node)
	walk = func(nodes []Node) {
		for _, n := range nodes {
			if sub, ok := n.(*List); ok {
				walk(sub.Nodes)
			} else {
				res = append(res, n)
			}
		}
	}
	walk(l.Nodes)
	l.Nodes = res
	return l
}

// Tokens returns all tokens in the list.  Nested lists are flattened
// and groups contribute their delimiters.
func (l *List) Tokens() []Token {
	var res []Token
	appendTokens(&res, l.Nodes)
	return res
}

func appendTokens(res *[]Token, nodes []Node) {
	for _, n := range nodes {
		switch n := n.(type) {
		case Token:
			*res = append(*res, n)
		case *List:
			appendTokens(res, n.Nodes)
		case *Group:
			*res = append(*res, n.Begin)
			appendTokens(res, n.Nodes)
			*res = append(*res, n.End)
		}
	}
}

// Clone returns a deep copy of the list with a fresh ID.
func (l *List) Clone() *List {
	return NewList(cloneNodes(l.Nodes)...)
}

func cloneNodes(nodes []Node) []Node {
	res := make([]Node, len(nodes))
	for i, n := range nodes {
		switch n := n.(type) {
		case *List:
			res[i] = n.Clone()
		case *Group:
			res[i] = n.Clone()
		default:
			res[i] = n
		}
	}
	return res
}

// IsPar implements the Node interface.
func (l *List) IsPar() bool {
	return false
}

// IsSingleToken implements the Node interface.
func (l *List) IsSingleToken() bool {
	return false
}

func (l *List) String() string {
	return Detokenize(l.Tokens())
}

// ScopeHook is notified when the scope opened by a group is entered
// and left.
type ScopeHook interface {
	EnterScope()
	ExitScope()
}

// Group is a balanced list of nodes between a begin-group and an
// end-group token.  Unlike plain lists, groups are never flattened.
// If Hook is set and the group is executed, the hook is notified when
// the group's scope is entered and left.
type Group struct {
	List
	Begin, End Token
	Hook       ScopeHook
}

// NewGroup allocates a new group.
func NewGroup(begin, end Token, nodes ...Node) *Group {
	return &Group{
		List:  List{ID: nextID(), Nodes: nodes},
		Begin: begin,
		End:   end,
	}
}

// Contents returns the tokens inside the group, without the
// delimiters.
func (g *Group) Contents() []Token {
	return g.List.Tokens()
}

// Tokens returns the tokens of the group, including the delimiters.
func (g *Group) Tokens() []Token {
	res := []Token{g.Begin}
	appendTokens(&res, g.Nodes)
	return append(res, g.End)
}

// Clone returns a deep copy of the group with a fresh ID.
func (g *Group) Clone() *Group {
	res := NewGroup(g.Begin, g.End, cloneNodes(g.Nodes)...)
	res.Hook = g.Hook
	return res
}

func (g *Group) String() string {
	return Detokenize(g.Tokens())
}

// Strings returns the source text of each node, for debugging.
func Strings(nodes []Node) string {
	res := make([]string, len(nodes))
	for i, n := range nodes {
		res[i] = n.String()
	}
	return "[" + strings.Join(res, "|") + "]"
}
