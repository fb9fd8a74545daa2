// buffer.go - pending tokens
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

// Buffer holds nodes which are waiting to be processed.  Nodes are
// removed from and pushed back to the front of the buffer.
type Buffer struct {
	// items is stored in reverse order, the front of the buffer is
	// the last element.
	items []Node
}

// Len returns the number of nodes in the buffer.
func (b *Buffer) Len() int {
	return len(b.items)
}

// Pop removes the front node.
func (b *Buffer) Pop() (Node, bool) {
	n := len(b.items)
	if n == 0 {
		return nil, false
	}
	res := b.items[n-1]
	b.items[n-1] = nil
	b.items = b.items[:n-1]
	return res, true
}

// Peek returns the front node without removing it.
func (b *Buffer) Peek() (Node, bool) {
	n := len(b.items)
	if n == 0 {
		return nil, false
	}
	return b.items[n-1], true
}

// Push adds a node at the front.
func (b *Buffer) Push(n Node) {
	b.items = append(b.items, n)
}

// PushNodes adds nodes at the front, so that nodes[0] is the next
// node to be popped.
func (b *Buffer) PushNodes(nodes []Node) {
	for i := len(nodes) - 1; i >= 0; i-- {
		b.items = append(b.items, nodes[i])
	}
}

// PushTokens adds tokens at the front, so that toks[0] is the next
// node to be popped.
func (b *Buffer) PushTokens(toks []Token) {
	for i := len(toks) - 1; i >= 0; i-- {
		b.items = append(b.items, toks[i])
	}
}

// Append adds a node at the end of the buffer.
func (b *Buffer) Append(n Node) {
	b.items = append(b.items, nil)
	copy(b.items[1:], b.items)
	b.items[0] = n
}

// Take removes all nodes from the buffer and returns them in order.
func (b *Buffer) Take() []Node {
	n := len(b.items)
	res := make([]Node, n)
	for i, item := range b.items {
		res[n-1-i] = item
	}
	b.items = nil
	return res
}
