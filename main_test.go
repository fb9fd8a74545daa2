// main_test.go - unit tests for the command line driver
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
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seehuhn/texparser/tex/token"
)

func TestTokenWriter(t *testing.T) {
	dir := t.TempDir()
	fileName := filepath.Join(dir, "tokens.dat")

	tw, err := newTokenWriter(fileName)
	require.NoError(t, err)
	e := newEngine(dir, nil, tw)
	res, err := e.ParseString("test.tex", `\def\x#1{<#1>}\x{a}\verb|{|`)
	require.NoError(t, err)
	require.NoError(t, tw.Close())

	toks, err := readTokens(fileName)
	require.NoError(t, err)
	assert.Equal(t, token.Detokenize(res.Tokens()), token.Detokenize(toks))
	assert.Equal(t, `<a>\verb|{|`, token.Detokenize(toks))
}

func TestProcess(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pre.tex"),
		[]byte(`\def\hello#1{Hello, #1!}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "part.tex"),
		[]byte(`\hello{part}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc.tex"),
		[]byte(`\hello{world} \input part`), 0644))

	oldOutput, oldPreamble := *output, *preamble
	defer func() { *output, *preamble = oldOutput, oldPreamble }()
	t.Setenv("TEXPARSER_FORMATS", cacheDir)
	*output = filepath.Join(dir, "doc.out")
	*preamble = filepath.Join(dir, "pre.tex")

	for i := 0; i < 2; i++ {
		require.NoError(t, process(filepath.Join(dir, "doc.tex"), nil))
		text, err := os.ReadFile(*output)
		require.NoError(t, err)
		assert.Equal(t, "Hello, world! Hello, part!", string(text))
	}
}

// readTokens reads a token file written by a tokenWriter.
func readTokens(fileName string) ([]token.Token, error) {
	fd, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	dec := gob.NewDecoder(fd)
	var res []token.Token
	for {
		var tok token.Token
		err := dec.Decode(&tok)
		if err != nil {
			if err == io.EOF {
				return res, nil
			}
			return res, err
		}
		res = append(res, tok)
	}
}
