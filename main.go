// main.go - command line driver for the macro expansion engine
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

package main

import (
	"bufio"
	"bytes"
	"flag"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/seehuhn/texparser/tex/diag"
	"github.com/seehuhn/texparser/tex/engine"
	"github.com/seehuhn/texparser/tex/format"
	"github.com/seehuhn/texparser/tex/scanner"
	"github.com/seehuhn/texparser/tex/token"
)

var (
	output    = flag.String("output", "", "the output file name (default stdout)")
	debug     = flag.String("debug", "", "comma separated list of debug categories, or \"all\"")
	watch     = flag.Bool("watch", false, "process the input again whenever it changes")
	preamble  = flag.String("format", "", "preamble file, loaded through the format cache")
	tokenFile = flag.String("tokens", "", "write the output tokens to this file, gob encoded")
	stepLimit = flag.Int("step-limit", 10000000, "maximum number of expansion steps, 0 for no limit")
	keepBytes = flag.Int64("format-keep", 64<<20, "bytes of old format files to keep in the cache")
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatal("usage: texparser [options] <input.tex>")
	}
	inputName := flag.Arg(0)

	var trace *diag.Tracer
	if *debug != "" {
		mask, err := diag.ParseTrace(*debug)
		if err != nil {
			log.Fatal(err)
		}
		trace = &diag.Tracer{Mask: mask}
	}

	err := process(inputName, trace)
	if err != nil && !*watch {
		log.Fatal(err)
	} else if err != nil {
		log.Println(err)
	}

	if *watch {
		err = watchFile(inputName, func() {
			log.Println("processing", inputName)
			if err := process(inputName, trace); err != nil {
				log.Println(err)
			}
		})
		if err != nil {
			log.Fatal(err)
		}
	}
}

func newEngine(baseDir string, trace *diag.Tracer, out engine.Output) *engine.Engine {
	return engine.New(&engine.Config{
		Opener:    &scanner.DirOpener{BaseDir: baseDir},
		Trace:     trace,
		StepLimit: *stepLimit,
		Output:    out,
	})
}

// process runs the engine once over the input file and writes the
// results.
func process(inputName string, trace *diag.Tracer) error {
	baseDir := filepath.Dir(inputName)

	var tw *tokenWriter
	var out engine.Output
	if *tokenFile != "" {
		var err error
		tw, err = newTokenWriter(*tokenFile)
		if err != nil {
			return err
		}
		out = tw
	}

	e := newEngine(baseDir, trace, out)
	if *preamble != "" {
		err := loadFormat(e, *preamble, trace)
		if err != nil {
			if tw != nil {
				tw.Close()
			}
			return err
		}
	}

	res, err := e.ParseFile(inputName)
	if tw != nil {
		e2 := tw.Close()
		if err == nil {
			err = e2
		}
	}
	e2 := writeText(res)
	if err == nil {
		err = e2
	}
	return err
}

// loadFormat installs the state left behind by the preamble file.
// The snapshot is taken from the format cache, if possible.
func loadFormat(e *engine.Engine, name string, trace *diag.Tracer) error {
	src, err := os.ReadFile(name)
	if err != nil {
		return err
	}
	cache, err := format.NewCache("formats")
	if err != nil {
		return err
	}
	defer cache.Close(*keepBytes)

	key := format.Version + "\x00" + name + "\x00" + string(src)
	snap, err := cache.Load(key, func() (*format.Snapshot, error) {
		log.Println("building format from", name)
		pre := newEngine(filepath.Dir(name), trace, nil)
		_, err := pre.Parse(name, bytes.NewReader(src))
		if err != nil {
			return nil, err
		}
		return pre.Snapshot(name), nil
	})
	if err != nil {
		return err
	}
	return e.Restore(snap)
}

func writeText(res *token.List) error {
	if res == nil {
		return nil
	}
	var w io.Writer = os.Stdout
	if *output != "" {
		fd, err := os.Create(*output)
		if err != nil {
			return err
		}
		defer fd.Close()
		w = fd
	}
	buf := bufio.NewWriter(w)
	_, err := buf.WriteString(token.Detokenize(res.Tokens()))
	if err != nil {
		return err
	}
	return buf.Flush()
}
