// error.go - error values reported by the macro engine
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
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind classifies errors by how processing continues after them.
type Kind int

// The different error kinds.  Lexical and Resource errors abort the
// current input file, Syntax and Semantic errors are reported and
// processing continues.
const (
	Lexical Kind = iota + 1
	Syntax
	Semantic
	Resource
)

func (k Kind) String() string {
	switch k {
	case Lexical:
		return "lexical"
	case Syntax:
		return "syntax"
	case Semantic:
		return "semantic"
	case Resource:
		return "resource"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Fatal returns true for error kinds which abort the current file.
func (k Kind) Fatal() bool {
	return k == Lexical || k == Resource
}

// Frame describes one input source on the include stack.
type Frame struct {
	Name    string
	Line    int
	Context string
}

// Error is the error type used throughout the engine.  The message is
// given by a tag, which is looked up in the current Localizer, together
// with the message parameters.
type Error struct {
	Kind   Kind
	Tag    string
	Params []interface{}

	// Stack lists the input sources active when the error occurred,
	// innermost first.
	Stack []Frame

	// Err optionally holds an underlying cause.
	Err error
}

// New allocates a new error without position information.
func New(kind Kind, tag string, params ...interface{}) *Error {
	return &Error{
		Kind:   kind,
		Tag:    tag,
		Params: params,
	}
}

// Wrap allocates a new error for the given cause.
func Wrap(kind Kind, tag string, cause error, params ...interface{}) *Error {
	return &Error{
		Kind:   kind,
		Tag:    tag,
		Params: params,
		Err:    cause,
	}
}

// File returns the name of the innermost input source.
func (err *Error) File() string {
	if len(err.Stack) == 0 {
		return ""
	}
	return err.Stack[0].Name
}

// Line returns the line number within the innermost input source.
func (err *Error) Line() int {
	if len(err.Stack) == 0 {
		return 0
	}
	return err.Stack[0].Line
}

// Message returns the localized message text, without position
// information.
func (err *Error) Message() string {
	msg := CurrentLocalizer.Format(err.Tag, err.Params...)
	if err.Err != nil {
		msg += ": " + err.Err.Error()
	}
	return msg
}

func (err *Error) Error() string {
	res := []string{err.Message()}
	for i, frame := range err.Stack {
		if i > 0 {
			res = append(res, ", included from")
		}
		res = append(res, "\n    ",
			frame.Name, ", line ", strconv.Itoa(frame.Line))
		if frame.Context != "" {
			res = append(res, fmt.Sprintf(", after %q", frame.Context))
		}
	}
	return strings.Join(res, "")
}

// Unwrap gives access to the underlying cause.
func (err *Error) Unwrap() error {
	return err.Err
}

// Is reports whether target is an *Error with the same tag.
func (err *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Tag == err.Tag
}

// HasTag checks whether any error in the chain of err carries the
// given message tag.
func HasTag(err error, tag string) bool {
	var e *Error
	for err != nil {
		if errors.As(err, &e) {
			if e.Tag == tag {
				return true
			}
			err = e.Err
			continue
		}
		return false
	}
	return false
}

// KindOf returns the kind of the first *Error in the chain of err.
// Errors from other sources are treated as lexical errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Lexical
}
