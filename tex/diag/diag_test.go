// diag_test.go - unit tests for the diag package
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

package diag

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"strings"
	"testing"
)

func TestErrorFormat(t *testing.T) {
	err := New(Syntax, ErrSyntax, "\\foo")
	err.Stack = []Frame{
		{Name: "inner.tex", Line: 3},
		{Name: "main.tex", Line: 10, Context: "rest"},
	}
	msg := err.Error()
	expected := "Use of \\foo doesn't match its definition\n" +
		"    inner.tex, line 3, included from\n" +
		"    main.tex, line 10, after \"rest\""
	if msg != expected {
		t.Errorf("wrong message %q", msg)
	}
	if err.File() != "inner.tex" || err.Line() != 3 {
		t.Errorf("wrong position %s:%d", err.File(), err.Line())
	}
}

func TestErrorIs(t *testing.T) {
	err := fmt.Errorf("context: %w", New(Semantic, ErrDivideByZero))
	if !errors.Is(err, New(Lexical, ErrDivideByZero)) {
		t.Error("errors.Is failed to match by tag")
	}
	if errors.Is(err, New(Semantic, ErrOverflow)) {
		t.Error("errors.Is matched a different tag")
	}
	if !HasTag(err, ErrDivideByZero) {
		t.Error("HasTag failed")
	}
	if KindOf(err) != Semantic {
		t.Errorf("wrong kind %s", KindOf(err))
	}
	if KindOf(errors.New("other")) != Lexical {
		t.Error("foreign errors should be lexical")
	}
}

func TestUnknownTag(t *testing.T) {
	msg := English.Format("tex.error.nonsense", 1, "a")
	if msg != "tex.error.nonsense 1 a" {
		t.Errorf("wrong fallback message %q", msg)
	}
}

func TestParseTrace(t *testing.T) {
	testCases := []struct {
		in  string
		out Trace
	}{
		{"", 0},
		{"expansion", TraceExpansion},
		{"expansion,process-stack", TraceExpansion | TraceProcessStack},
		{" read , pop ", TraceRead | TracePop},
		{"all", TraceAll},
	}
	for i, test := range testCases {
		out, err := ParseTrace(test.in)
		if err != nil {
			t.Errorf("test %d: unexpected error %s", i, err)
			continue
		}
		if out != test.out {
			t.Errorf("test %d: expected %s, got %s", i, test.out, out)
		}
	}

	_, err := ParseTrace("expansion,bogus")
	if err == nil {
		t.Error("unknown category not detected")
	}
	if len(traceNames) != 18 {
		t.Errorf("expected 18 categories, got %d", len(traceNames))
	}
}

func TestTracer(t *testing.T) {
	buf := &bytes.Buffer{}
	tr := &Tracer{Mask: TraceMacro, Logger: log.New(buf, "", 0)}
	tr.Printf(TraceMacro, "expanding %s", "\\foo")
	tr.Printf(TracePop, "not shown")
	out := buf.String()
	if !strings.Contains(out, "[macro] expanding \\foo") {
		t.Errorf("unexpected trace output %q", out)
	}
	if strings.Contains(out, "not shown") {
		t.Error("disabled category was traced")
	}

	var none *Tracer
	none.Printf(TraceAll, "nil tracer must not panic")
}
