// scanner.go -
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

// Package scanner reads characters from a stack of nested input
// sources.
package scanner

import (
	"bufio"
	"bytes"
	"io"

	"github.com/seehuhn/texparser/tex/diag"
	"github.com/seehuhn/texparser/tex/token"
)

// Scanner implements methods to recursivly walk through a set of
// input files and buffers.  Only the innermost source is read from;
// the caller decides when to return to the enclosing source by calling
// .Pop().
type Scanner struct {
	// Opener is used by .Include() to locate input files.  If Opener
	// is nil, files are opened relative to the current directory.
	Opener Opener

	top   *Source
	depth int
}

// Source is one input file or buffer.  Sources form a singly linked
// list, from the innermost source to the outermost one.
type Source struct {
	Name string

	// Line is the current line number, starting at 1.
	Line int

	// Pending holds tokens which were read ahead from this source
	// before a nested source was opened.  They are processed again
	// once the nested source is exhausted.
	Pending []token.Node

	parent   *Source
	rd       io.RuneReader
	closer   io.Closer
	pushback []rune
	lineBuf  []rune
	prevLine []rune

	endAfterLine bool
	eof          bool
}

// Parent returns the enclosing source, or nil for the outermost one.
func (src *Source) Parent() *Source {
	return src.parent
}

// Close closes all input files and discards all buffers used by the
// scanner.
func (scan *Scanner) Close() (err error) {
	for scan.top != nil {
		e2 := scan.Pop()
		if err == nil {
			err = e2
		}
	}
	return
}

// Prepend adds the given buffer to the list of input sources.  The
// buffer contents are read next.  The argument `name` is used to
// identify the buffer in error messages and should be a short,
// human-readable string.
func (scan *Scanner) Prepend(data []byte, name string) {
	scan.push(&Source{
		Name: name,
		rd:   bytes.NewReader(data),
	})
}

// PushReader adds the given reader to the list of input sources.  If
// charset is non-empty, the input is converted from this character
// set.  If r implements io.Closer, it is closed when the source is
// removed.
func (scan *Scanner) PushReader(r io.Reader, name, charset string) error {
	dec, err := decode(r, charset)
	if err != nil {
		return err
	}
	src := &Source{
		Name: name,
		rd:   bufio.NewReader(dec),
	}
	if c, ok := r.(io.Closer); ok {
		src.closer = c
	}
	scan.push(src)
	return nil
}

// Include adds the contents of the given file to the list of input
// sources.  The file contents are read next.
func (scan *Scanner) Include(fileName string) error {
	opener := scan.Opener
	if opener == nil {
		opener = &DirOpener{}
	}
	r, charset, err := opener.Open(fileName)
	if err != nil {
		return err
	}
	err = scan.PushReader(r, fileName, charset)
	if err != nil {
		r.Close()
		return err
	}
	return nil
}

func (scan *Scanner) push(src *Source) {
	src.Line = 1
	src.parent = scan.top
	scan.top = src
	scan.depth++
}

// Pop closes the innermost source.  Reading continues with the
// enclosing source.
func (scan *Scanner) Pop() error {
	src := scan.top
	if src == nil {
		return nil
	}
	scan.top = src.parent
	scan.depth--
	if src.closer != nil {
		return src.closer.Close()
	}
	return nil
}

// Top returns the innermost source, or nil if there is no input.
func (scan *Scanner) Top() *Source {
	return scan.top
}

// Depth returns the number of open sources.
func (scan *Scanner) Depth() int {
	return scan.depth
}

// EndInput arranges for the innermost source to end after the
// current line.
func (scan *Scanner) EndInput() {
	if scan.top != nil {
		scan.top.endAfterLine = true
	}
}

// Stop ends the innermost source immediately.  Characters which were
// pushed back are discarded.
func (scan *Scanner) Stop() {
	if scan.top != nil {
		scan.top.pushback = nil
		scan.top.eof = true
	}
}

// ReadRune returns the next character of the innermost source.  At
// the end of this source, io.EOF is returned.
func (scan *Scanner) ReadRune() (rune, error) {
	src := scan.top
	if src == nil {
		return 0, io.EOF
	}
	if n := len(src.pushback); n > 0 {
		r := src.pushback[n-1]
		src.pushback = src.pushback[:n-1]
		src.advance(r)
		return r, nil
	}
	if src.eof {
		return 0, io.EOF
	}
	r, _, err := src.rd.ReadRune()
	if err != nil {
		src.eof = true
		if err == io.EOF {
			return 0, io.EOF
		}
		return 0, scan.MakeError(diag.Lexical, diag.ErrUser, err.Error())
	}
	src.advance(r)
	if r == '\n' && src.endAfterLine {
		src.eof = true
	}
	return r, nil
}

// UnreadRune pushes r back into the innermost source.  Any number of
// characters can be pushed back.
func (scan *Scanner) UnreadRune(r rune) {
	src := scan.top
	if src == nil {
		return
	}
	src.pushback = append(src.pushback, r)
	if r == '\n' {
		src.Line--
		src.lineBuf = src.prevLine
		src.prevLine = nil
	} else if n := len(src.lineBuf); n > 0 {
		src.lineBuf = src.lineBuf[:n-1]
	}
}

// PeekRune returns the next character without consuming it.
func (scan *Scanner) PeekRune() (rune, error) {
	r, err := scan.ReadRune()
	if err != nil {
		return 0, err
	}
	scan.UnreadRune(r)
	return r, nil
}

func (src *Source) advance(r rune) {
	if r == '\n' {
		src.Line++
		src.prevLine = src.lineBuf
		src.lineBuf = nil
		return
	}
	src.lineBuf = append(src.lineBuf, r)
}

// Frames describes the current position in all open sources,
// innermost first.
func (scan *Scanner) Frames() []diag.Frame {
	var res []diag.Frame
	for src := scan.top; src != nil; src = src.parent {
		context := string(src.lineBuf)
		if len(src.lineBuf) > 20 {
			context = "..." + string(src.lineBuf[len(src.lineBuf)-17:])
		}
		res = append(res, diag.Frame{
			Name:    src.Name,
			Line:    src.Line,
			Context: context,
		})
	}
	return res
}

// MakeError returns an error object which includes the given message
// together with human-readable information about the current input
// position.
func (scan *Scanner) MakeError(kind diag.Kind, tag string, params ...interface{}) *diag.Error {
	err := diag.New(kind, tag, params...)
	err.Stack = scan.Frames()
	return err
}
