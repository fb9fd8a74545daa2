// sink.go - where warnings, messages and recoverable errors go
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
	"log"
)

// Sink receives diagnostics from the engine.
type Sink interface {
	Warning(msg string)
	Message(msg string)
	Error(err error)
}

// LogSink writes all diagnostics to a logger.  If Logger is nil, the
// standard logger of the log package is used.
type LogSink struct {
	Logger *log.Logger
}

func (s LogSink) logger() *log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return log.Default()
}

// Warning implements the Sink interface.
func (s LogSink) Warning(msg string) {
	s.logger().Println("warning:", msg)
}

// Message implements the Sink interface.
func (s LogSink) Message(msg string) {
	s.logger().Println(msg)
}

// Error implements the Sink interface.
func (s LogSink) Error(err error) {
	s.logger().Println("error:", err)
}

// Recorder is a Sink which keeps everything it receives.
type Recorder struct {
	Warnings []string
	Messages []string
	Errors   []error
}

// Warning implements the Sink interface.
func (r *Recorder) Warning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Message implements the Sink interface.
func (r *Recorder) Message(msg string) {
	r.Messages = append(r.Messages, msg)
}

// Error implements the Sink interface.
func (r *Recorder) Error(err error) {
	r.Errors = append(r.Errors, err)
}

// HasTag checks whether one of the recorded errors carries the given
// tag.
func (r *Recorder) HasTag(tag string) bool {
	for _, err := range r.Errors {
		if HasTag(err, tag) {
			return true
		}
	}
	return false
}
