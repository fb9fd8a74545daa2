// scanner_test.go - unit tests for scanner.go
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

package scanner

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func readAll(t *testing.T, scan *Scanner) string {
	var res []rune
	for {
		r, err := scan.ReadRune()
		if err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		res = append(res, r)
	}
	return string(res)
}

func TestScannerSimple(t *testing.T) {
	scan := &Scanner{}
	scan.Prepend([]byte("ing"), "end")
	scan.Prepend([]byte("test"), "beginning")

	if scan.Depth() != 2 {
		t.Fatalf("wrong depth %d", scan.Depth())
	}
	if got := readAll(t, scan); got != "test" {
		t.Fatalf("expected %q, got %q", "test", got)
	}
	scan.Pop()
	if got := readAll(t, scan); got != "ing" {
		t.Fatalf("expected %q, got %q", "ing", got)
	}
	scan.Pop()
	if scan.Top() != nil {
		t.Fatal("unexpected source")
	}
	if _, err := scan.ReadRune(); err != io.EOF {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestUnread(t *testing.T) {
	scan := &Scanner{}
	scan.Prepend([]byte("ab\ncd"), "buf")
	for i := 0; i < 3; i++ {
		scan.ReadRune()
	}
	if scan.Top().Line != 2 {
		t.Errorf("wrong line %d", scan.Top().Line)
	}
	scan.UnreadRune('\n')
	scan.UnreadRune('X')
	if scan.Top().Line != 1 {
		t.Errorf("wrong line %d after unread", scan.Top().Line)
	}
	r, _ := scan.PeekRune()
	if r != 'X' {
		t.Errorf("expected X, got %q", r)
	}
	if got := readAll(t, scan); got != "X\ncd" {
		t.Errorf("wrong remainder %q", got)
	}
}

func TestScannerError(t *testing.T) {
	scan := &Scanner{}
	scan.Prepend([]byte("\nline after include\nend\n"), "level1")
	scan.Prepend([]byte("line 1\nline 2\nlin"), "level2")
	readAll(t, scan)

	err := scan.MakeError(0, "test")
	if len(err.Stack) != 2 {
		t.Fatalf("wrong stack depth %d", len(err.Stack))
	}
	if err.Stack[0].Name != "level2" || err.Stack[0].Line != 3 {
		t.Errorf("wrong error location in %q", err)
	}
	if err.Stack[0].Context != "lin" {
		t.Errorf("wrong context %q", err.Stack[0].Context)
	}
	if err.Stack[1].Name != "level1" || err.Stack[1].Line != 1 {
		t.Errorf("wrong outer location in %q", err)
	}
}

func TestEndInput(t *testing.T) {
	scan := &Scanner{}
	scan.Prepend([]byte("first line\nsecond line\n"), "buf")
	r, _ := scan.ReadRune()
	if r != 'f' {
		t.Fatalf("unexpected %q", r)
	}
	scan.EndInput()
	if got := readAll(t, scan); got != "irst line\n" {
		t.Errorf("wrong remainder %q", got)
	}
}

func TestStop(t *testing.T) {
	scan := &Scanner{}
	scan.Prepend([]byte("outer"), "outer")
	scan.Prepend([]byte("first\nsecond\n"), "buf")
	for i := 0; i < 7; i++ {
		scan.ReadRune()
	}
	// look ahead into the second line
	r, _ := scan.PeekRune()
	if r != 's' {
		t.Fatalf("unexpected %q", r)
	}
	scan.Stop()
	if got := readAll(t, scan); got != "" {
		t.Errorf("wrong remainder %q", got)
	}
	scan.Pop()
	if got := readAll(t, scan); got != "outer" {
		t.Errorf("wrong outer text %q", got)
	}
}

func TestUnreadNewline(t *testing.T) {
	scan := &Scanner{}
	scan.Prepend([]byte("abc\ndef"), "buf")
	for i := 0; i < 4; i++ {
		scan.ReadRune()
	}
	scan.UnreadRune('\n')
	frame := scan.Frames()[0]
	if frame.Line != 1 || frame.Context != "abc" {
		t.Errorf("wrong position %d %q", frame.Line, frame.Context)
	}
	if got := readAll(t, scan); got != "\ndef" {
		t.Errorf("wrong remainder %q", got)
	}
	frame = scan.Frames()[0]
	if frame.Line != 2 || frame.Context != "def" {
		t.Errorf("wrong position %d %q", frame.Line, frame.Context)
	}
}

func TestCharset(t *testing.T) {
	scan := &Scanner{}
	err := scan.PushReader(bytes.NewReader([]byte("caf\xe9")), "latin1", "ISO-8859-1")
	if err != nil {
		t.Fatal(err)
	}
	if got := readAll(t, scan); got != "café" {
		t.Errorf("wrong decoding %q", got)
	}

	err = scan.PushReader(bytes.NewReader(nil), "bad", "no-such-charset")
	if err == nil {
		t.Error("unknown charset not detected")
	}
}

func TestInclude(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "chapter.tex"), []byte("text"), 0644)
	if err != nil {
		t.Fatal(err)
	}

	scan := &Scanner{Opener: &DirOpener{BaseDir: dir}}
	defer scan.Close()
	err = scan.Include("chapter")
	if err != nil {
		t.Fatal(err)
	}
	if got := readAll(t, scan); got != "text" {
		t.Errorf("wrong contents %q", got)
	}

	err = scan.Include("missing")
	if !os.IsNotExist(err) {
		t.Errorf("wrong error %v", err)
	}
}
