// comment.go -
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

package tokenizer

import (
	"io"

	"github.com/seehuhn/texparser/tex/catcode"
	"github.com/seehuhn/texparser/tex/diag"
	"github.com/seehuhn/texparser/tex/token"
)

// readComment reads a comment up to the end of the line.  The end of
// line is absorbed, but a following blank line still gives a Par
// token.
func (p *Tokenizer) readComment(first rune, dst *token.List) error {
	var text []rune
	for {
		r, err := p.ReadRune()
		if err == io.EOF {
			dst.Append(p.Factory.Text(token.Comment, first, string(text)))
			return nil
		} else if err != nil {
			return err
		}
		if p.cat(r) == catcode.EndOfLine {
			dst.Append(p.Factory.Text(token.Comment, first, string(text)))
			return p.readEOL(p.eolText(r), false, dst)
		}
		text = append(text, r)
	}
}

// readVerbatim reads the argument of a verbatim command like \verb.
// An optional star is followed by a delimiter character, and all
// input up to the next occurrence of the delimiter is returned as
// a nested list of Other tokens.
func (p *Tokenizer) readVerbatim(name string, dst *token.List) error {
	res := token.NewList()
	r, err := p.ReadRune()
	if err == nil && r == '*' {
		res.Append(p.Factory.Char(catcode.Other, r))
		r, err = p.ReadRune()
	}
	if err == io.EOF {
		return p.MakeError(diag.Lexical, diag.ErrUnterminatedVerbatim, "\\"+name)
	} else if err != nil {
		return err
	}

	delim := r
	res.Append(p.Factory.Char(catcode.Other, delim))
	for {
		r, err := p.ReadRune()
		if err == io.EOF {
			return p.MakeError(diag.Lexical, diag.ErrUnterminatedVerbatim, "\\"+name)
		} else if err != nil {
			return err
		}
		res.Append(p.Factory.Char(catcode.Other, r))
		if r == delim {
			break
		}
	}
	dst.Append(res)
	return nil
}
