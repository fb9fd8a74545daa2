// tokens.go - write the engine output to a token file
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
	"encoding/gob"
	"os"

	"github.com/seehuhn/texparser/tex/token"
)

// tokenWriter implements engine.Output.  The tokens are gob encoded
// by a separate goroutine, while the engine keeps running.
type tokenWriter struct {
	fd      *os.File
	c       chan token.Token
	errChan chan error
}

func newTokenWriter(fileName string) (*tokenWriter, error) {
	fd, err := os.Create(fileName)
	if err != nil {
		return nil, err
	}
	tw := &tokenWriter{
		fd:      fd,
		c:       make(chan token.Token, 64),
		errChan: make(chan error, 1),
	}
	go func() {
		enc := gob.NewEncoder(fd)
		var err error
		for tok := range tw.c {
			e2 := enc.Encode(tok)
			if err == nil {
				err = e2
			}
		}
		tw.errChan <- err
	}()
	return tw, nil
}

// Emit implements the engine.Output interface.
func (tw *tokenWriter) Emit(n token.Node) {
	switch n := n.(type) {
	case token.Token:
		tw.c <- n
	case interface{ Tokens() []token.Token }:
		for _, tok := range n.Tokens() {
			tw.c <- tok
		}
	}
}

// Close waits until all tokens are written and closes the file.
func (tw *tokenWriter) Close() error {
	close(tw.c)
	err := <-tw.errChan
	e2 := tw.fd.Close()
	if err == nil {
		err = e2
	}
	return err
}
