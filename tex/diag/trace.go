// trace.go - debug tracing controlled by a bit mask
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
	"fmt"
	"log"
	"strings"
)

// Trace is a set of debug categories.
type Trace uint32

// The debug categories.
const (
	TraceRead Trace = 1 << iota
	TraceCatcode
	TraceTokens
	TracePop
	TracePush
	TraceExpansion
	TraceExpandOnce
	TraceExpandFully
	TraceMacro
	TraceDefinition
	TraceGroup
	TraceScope
	TraceRegister
	TraceNumber
	TraceDimension
	TraceConditional
	TraceInput
	TraceProcessStack

	TraceAll Trace = 1<<iota - 1
)

var traceNames = []string{
	"read",
	"catcode",
	"tokens",
	"pop",
	"push",
	"expansion",
	"expand-once",
	"expand-fully",
	"macro",
	"definition",
	"group",
	"scope",
	"register",
	"number",
	"dimension",
	"conditional",
	"input",
	"process-stack",
}

// ParseTrace converts a comma separated list of category names into a
// Trace value.  The name "all" selects every category.
func ParseTrace(list string) (Trace, error) {
	var res Trace
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if name == "all" {
			res |= TraceAll
			continue
		}
		found := false
		for i, n := range traceNames {
			if n == name {
				res |= 1 << uint(i)
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown debug category %q", name)
		}
	}
	return res, nil
}

func (t Trace) String() string {
	var res []string
	for i, n := range traceNames {
		if t&(1<<uint(i)) != 0 {
			res = append(res, n)
		}
	}
	return strings.Join(res, ",")
}

// Tracer writes debug output for the enabled categories.  A nil
// *Tracer is valid and traces nothing.
type Tracer struct {
	Mask   Trace
	Logger *log.Logger
}

// Enabled checks whether any of the categories in c are traced.
func (tr *Tracer) Enabled(c Trace) bool {
	return tr != nil && tr.Mask&c != 0
}

// Printf writes a trace message for category c.
func (tr *Tracer) Printf(c Trace, format string, args ...interface{}) {
	if !tr.Enabled(c) {
		return
	}
	logger := tr.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Printf("["+c.String()+"] "+format, args...)
}
