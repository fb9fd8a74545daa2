// engine.go - the macro expansion engine
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
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/seehuhn/texparser/tex/diag"
	"github.com/seehuhn/texparser/tex/dimen"
	"github.com/seehuhn/texparser/tex/register"
	"github.com/seehuhn/texparser/tex/scanner"
	"github.com/seehuhn/texparser/tex/token"
	"github.com/seehuhn/texparser/tex/tokenizer"
)

// Output receives the material which the engine does not interpret
// itself: characters, unknown control sequences, paragraph breaks.
type Output interface {
	Emit(n token.Node)
}

// Config collects the host supplied parts of an Engine.  All fields
// are optional.
type Config struct {
	// Factory constructs the tokens read from the input.
	Factory token.Factory

	// Page gives the page geometry used for percentage units.
	Page dimen.PageProvider

	// Sink receives warnings, messages and non-fatal errors.  If Sink
	// is nil, these are written to the standard logger.
	Sink diag.Sink

	// Opener locates the files read by \input.
	Opener scanner.Opener

	// Output receives every node as soon as it is produced.
	Output Output

	Trace *diag.Tracer

	// StepLimit bounds the number of expansion steps of a single
	// call to Parse or ExpandFully.  Zero means no limit.
	StepLimit int

	// Commands holds additional commands supplied by the host.  They
	// are defined in the root scope, after the primitives.
	Commands map[string]Command

	// JobName is the value of \jobname.  If it is empty, the name of
	// the first parsed source is used.
	JobName string
}

// Engine reads TeX input, expands macros, executes assignments and
// passes everything else on to the host.
type Engine struct {
	factory   token.Factory
	page      dimen.PageProvider
	sink      diag.Sink
	output    Output
	trace     *diag.Tracer
	stepLimit int
	jobName   string

	tok     *tokenizer.Tokenizer
	primary *Stack
	root    *Scope
	scope   *Scope
	alloc   register.Allocator

	// relax is the primitive \relax, used for names created by
	// \csname.
	relax Command

	conds    []condFrame
	envNames []string

	// inputs records the scope depth at the start of every file
	// opened by \input.
	inputs []int

	// base is the number of input sources below the source of the
	// current call to Parse.
	base  int
	steps int
	out   *token.List

	// full is positive during full expansion.
	full int
}

// New allocates a new engine, with all primitives defined.
func New(cfg *Config) *Engine {
	if cfg == nil {
		cfg = &Config{}
	}
	e := &Engine{
		factory:   cfg.Factory,
		page:      cfg.Page,
		sink:      cfg.Sink,
		output:    cfg.Output,
		trace:     cfg.Trace,
		stepLimit: cfg.StepLimit,
		jobName:   cfg.JobName,
	}
	if e.factory == nil {
		e.factory = token.DefaultFactory{}
	}
	if e.page == nil {
		e.page = dimen.DefaultPage
	}
	if e.sink == nil {
		e.sink = diag.LogSink{}
	}

	e.root = newRootScope()
	e.scope = e.root

	e.tok = tokenizer.NewTokenizer(e)
	e.tok.Factory = e.factory
	e.tok.Opener = cfg.Opener
	e.tok.Trace = e.trace

	e.primary = &Stack{Kind: Primary, e: e}

	e.addPrimitives()
	for name, cmd := range cfg.Commands {
		e.root.commands[name] = cmd
	}
	return e
}

// Scope returns the innermost scope.
func (e *Engine) Scope() *Scope {
	return e.scope
}

// Primary returns the stack which is refilled from the input sources.
func (e *Engine) Primary() *Stack {
	return e.primary
}

// Page returns the page geometry used for percentage units.
func (e *Engine) Page() dimen.PageProvider {
	return e.page
}

// ParseString processes TeX source given as a string.
func (e *Engine) ParseString(name, text string) (*token.List, error) {
	return e.Parse(name, strings.NewReader(text))
}

// ParseFile processes the given TeX file.
func (e *Engine) ParseFile(fileName string) (*token.List, error) {
	fd, err := os.Open(fileName)
	if err != nil {
		return nil, diag.Wrap(diag.Resource, diag.ErrFileNotFound, err, fileName)
	}
	if e.jobName == "" {
		base := filepath.Base(fileName)
		e.jobName = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return e.Parse(fileName, fd)
}

// Parse reads r until its end and processes all tokens.  The returned
// list holds the material passed on to the host.  A fatal error
// aborts processing and is returned together with the output
// produced so far.  If r implements io.Closer, it is closed.
func (e *Engine) Parse(name string, r io.Reader) (*token.List, error) {
	if e.jobName == "" {
		e.jobName = strings.TrimSuffix(name, filepath.Ext(name))
	}

	oldBase, oldOut := e.base, e.out
	defer func() {
		e.base, e.out = oldBase, oldOut
	}()
	e.base = e.tok.Depth()
	e.out = token.NewList()
	e.steps = 0

	err := e.tok.PushReader(r, name, "")
	if err != nil {
		return e.out, err
	}
	if e.trace.Enabled(diag.TraceInput) {
		e.trace.Printf(diag.TraceInput, "(%s", name)
	}

	depth := e.scope.Depth()
	conds := len(e.conds)
	err = e.run()
	if err != nil {
		// drop the sources opened by this call
		for e.tok.Depth() > e.base {
			e.tok.Pop()
		}
		e.primary.buf.Take()
		e.inputs = e.inputs[:0]
		return e.out, err
	}

	if len(e.conds) > conds {
		c := e.conds[len(e.conds)-1]
		e.sink.Warning("end occurred when " + c.tok.String() + " was incomplete")
		e.conds = e.conds[:conds]
	}
	if e.scope.Depth() > depth {
		if e.scope.inMath() {
			err = e.errorf(diag.Lexical, diag.ErrMissingEndMath)
		} else {
			err = e.errorf(diag.Lexical, diag.ErrUnterminatedGroup, e.scope.Depth()-depth)
		}
	}
	e.tok.Pop()
	if e.trace.Enabled(diag.TraceInput) {
		e.trace.Printf(diag.TraceInput, ")")
	}
	return e.out, err
}

// Tokenize splits text into tokens, using the current category codes,
// without expanding or executing anything.
func (e *Engine) Tokenize(text string) (*token.List, error) {
	e.tok.Prepend([]byte(text), "tokenize")
	res := token.NewList()
	err := e.tok.ReadAll(res)
	e.tok.Pop()
	return res, err
}

// run is the main loop.  It executes the tokens from the primary
// stack until the input of the current Parse call is exhausted.
func (e *Engine) run() error {
	s := e.primary
	for {
		tok, err := e.PopToken(s, 0)
		if err == io.EOF {
			return nil
		}
		if err == nil {
			err = e.execute(tok, s, 0)
		}
		if err != nil {
			err = e.recover(err)
			if err != nil {
				return err
			}
		}
	}
}

// recover implements the error policy: non-fatal errors are reported
// and processing continues.  Fatal errors in a file opened by \input
// abort this file.  Fatal errors in the outermost source are returned.
func (e *Engine) recover(err error) error {
	if !diag.KindOf(err).Fatal() {
		e.sink.Error(err)
		return nil
	}
	if e.tok.Depth() <= e.base+1 {
		return err
	}
	e.sink.Error(err)
	e.primary.buf.Take()
	e.endFile()
	return nil
}

// emit passes n on to the host.
func (e *Engine) emit(n token.Node) {
	e.out.Append(n)
	if e.output != nil {
		e.output.Emit(n)
	}
}

// fill reads more tokens from the input sources into the primary
// stack.  At the end of the current Parse call's source, io.EOF is
// returned.
func (e *Engine) fill() error {
	for {
		if e.tok.Depth() <= e.base {
			return io.EOF
		}
		list := token.NewList()
		more, err := e.tok.Fetch(list)
		if list.Len() > 0 {
			e.primary.buf.PushNodes(list.Nodes)
		}
		if err != nil {
			return err
		}
		if more {
			if list.Len() > 0 {
				return nil
			}
			continue
		}

		if e.tok.Depth() <= e.base+1 {
			return io.EOF
		}
		e.endFile()
		if e.primary.buf.Len() > 0 {
			return nil
		}
	}
}

// input opens a file, which is read before all tokens which are
// currently waiting on the primary stack.
func (e *Engine) input(name string) error {
	pending := e.primary.buf.Take()
	parent := e.tok.Top()
	err := e.tok.Include(name)
	if err != nil {
		e.primary.buf.PushNodes(pending)
		return e.errorf(diag.Resource, diag.ErrFileNotFound, name)
	}
	if parent != nil {
		parent.Pending = append(pending, parent.Pending...)
	}
	e.inputs = append(e.inputs, e.scope.Depth())
	if e.trace.Enabled(diag.TraceInput) {
		e.trace.Printf(diag.TraceInput, "(%s", name)
	}
	return nil
}

// endFile closes the innermost file and restores the tokens which were
// waiting when it was opened.
func (e *Engine) endFile() {
	src := e.tok.Top()
	if n := len(e.inputs); n > 0 {
		if e.scope.Depth() > e.inputs[n-1] {
			e.sink.Warning(src.Name + " ended inside a group")
		}
		e.inputs = e.inputs[:n-1]
	}
	e.tok.Pop()
	if e.trace.Enabled(diag.TraceInput) {
		e.trace.Printf(diag.TraceInput, ")")
	}
	parent := e.tok.Top()
	if parent != nil && parent.Pending != nil {
		e.primary.buf.PushNodes(parent.Pending)
		parent.Pending = nil
	}
}

// errorf allocates an error which records the current input position.
func (e *Engine) errorf(kind diag.Kind, tag string, params ...interface{}) *diag.Error {
	return e.tok.MakeError(kind, tag, params...)
}

// step counts one expansion step and enforces the step limit.
func (e *Engine) step() error {
	e.steps++
	if e.stepLimit > 0 && e.steps > e.stepLimit {
		return e.errorf(diag.Resource, diag.ErrStepLimit, e.stepLimit)
	}
	return nil
}
