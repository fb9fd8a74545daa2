// tokenizer.go -
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
	"github.com/seehuhn/texparser/tex/scanner"
	"github.com/seehuhn/texparser/tex/token"
)

// A Tokenizer can be used to split TeX input into tokens.  The
// category codes are looked up for every character at the time it is
// read, so that changes made while processing earlier tokens affect
// the remaining input.
type Tokenizer struct {
	scanner.Scanner

	// Catcodes gives the category of every input character.
	Catcodes catcode.Lookup

	// Factory is used to construct all tokens.
	Factory token.Factory

	// Verbatim lists the control words after which the input is
	// read verbatim, up to a repeated delimiter character.
	Verbatim map[string]bool

	Trace *diag.Tracer

	// unitLine is the line where the last lexical unit started.
	unitLine int
}

// NewTokenizer creates and initialises a new Tokenizer.  If cat is
// nil, the default category codes are used.
func NewTokenizer(cat catcode.Lookup) *Tokenizer {
	if cat == nil {
		cat = catcode.Default()
	}
	return &Tokenizer{
		Catcodes: cat,
		Factory:  token.DefaultFactory{},
		Verbatim: map[string]bool{
			"verb": true,
		},
	}
}

// Fetch reads the next lexical unit from the innermost input source
// and appends the resulting tokens to dst.  Some units, for example a
// blank line, give more than one token, some give none.  At the end
// of the innermost source, Fetch returns false.
func (p *Tokenizer) Fetch(dst *token.List) (bool, error) {
	start := dst.Len()
	if src := p.Top(); src != nil {
		p.unitLine = src.Line
	}
	r, err := p.readChar()
	if err == io.EOF {
		return false, nil
	} else if err != nil {
		return false, err
	}

	cat := p.cat(r)
	switch cat {
	case catcode.Escape:
		err = p.readControlSequence(dst)
	case catcode.EndOfLine:
		err = p.readEOL(p.eolText(r), true, dst)
	case catcode.Space:
		err = p.readSpaces(r, dst)
	case catcode.Comment:
		err = p.readComment(r, dst)
	case catcode.Param:
		err = p.readParam(r, dst)
	case catcode.Ignored:
		// pass
	case catcode.Invalid:
		err = p.MakeError(diag.Semantic, diag.ErrInvalidChar, r)
	default:
		dst.Append(p.Factory.Char(cat, r))
	}

	if p.Trace.Enabled(diag.TraceTokens) {
		p.Trace.Printf(diag.TraceTokens, "%s", token.Strings(dst.Nodes[start:]))
	}
	return true, err
}

// EndInput ends the innermost source after the line where the last
// lexical unit started.  If the end of this line has already been
// read, for example after a control word, the source ends
// immediately.
func (p *Tokenizer) EndInput() {
	src := p.Top()
	if src == nil {
		return
	}
	if src.Line > p.unitLine {
		p.Stop()
	} else {
		p.Scanner.EndInput()
	}
}

// ReadAll reads the innermost source until its end.
func (p *Tokenizer) ReadAll(dst *token.List) error {
	for {
		more, err := p.Fetch(dst)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

func (p *Tokenizer) cat(r rune) catcode.Category {
	return p.Catcodes.Catcode(r)
}

// readChar reads the next input character, replacing TeX's ^^
// notation by the character it denotes.
func (p *Tokenizer) readChar() (rune, error) {
	r, err := p.ReadRune()
	if err != nil {
		return 0, err
	}
	if p.cat(r) != catcode.Superscript {
		return r, nil
	}

	r2, err := p.ReadRune()
	if err != nil {
		return r, nil
	}
	if r2 != r {
		p.UnreadRune(r2)
		return r, nil
	}
	r3, err := p.ReadRune()
	if err != nil {
		p.UnreadRune(r2)
		return r, nil
	}
	if isHex(r3) {
		r4, err := p.ReadRune()
		if err == nil && isHex(r4) {
			return hexValue(r3)<<4 | hexValue(r4), nil
		} else if err == nil {
			p.UnreadRune(r4)
		}
	}
	if r3 >= 128 {
		p.UnreadRune(r3)
		p.UnreadRune(r2)
		return r, nil
	}
	if r3 < 64 {
		return r3 + 64, nil
	}
	return r3 - 64, nil
}

func isHex(r rune) bool {
	return r >= '0' && r <= '9' || r >= 'a' && r <= 'f'
}

func hexValue(r rune) rune {
	if r <= '9' {
		return r - '0'
	}
	return r - 'a' + 10
}

func (p *Tokenizer) readControlSequence(dst *token.List) error {
	r, err := p.readChar()
	if err == io.EOF {
		dst.Append(p.Factory.ControlSequence(" "))
		return nil
	} else if err != nil {
		return err
	}

	switch p.cat(r) {
	case catcode.Letter:
		name := []rune{r}
		for {
			r, err = p.readChar()
			if err == io.EOF {
				// a control word cut off by the end of input
				dst.Append(p.Factory.ControlSequence(" "))
				return nil
			} else if err != nil {
				return err
			}
			if p.cat(r) != catcode.Letter {
				p.UnreadRune(r)
				break
			}
			name = append(name, r)
		}
		dst.Append(p.Factory.ControlSequence(string(name)))
		if p.Verbatim[string(name)] {
			return p.readVerbatim(string(name), dst)
		}
		return p.skipBlanks(dst)

	case catcode.EndOfLine:
		dst.Append(p.Factory.ControlSequence(" "))
		return p.readEOL(p.eolText(r), false, dst)

	default:
		dst.Append(p.Factory.ControlSequence(string(r)))
		return nil
	}
}

// skipBlanks absorbs the spaces and the end of line after a control
// word.
func (p *Tokenizer) skipBlanks(dst *token.List) error {
	spaces := p.readRun(catcode.Space)
	r, err := p.readChar()
	if err == nil && p.cat(r) == catcode.EndOfLine {
		if spaces != "" {
			dst.Append(p.Factory.Text(token.SkippedSpaces, ' ', spaces))
		}
		return p.readEOL(p.eolText(r), false, dst)
	} else if err == nil {
		p.UnreadRune(r)
	} else if err != io.EOF {
		return err
	}
	if spaces != "" {
		dst.Append(p.Factory.Text(token.SkippedSpaces, ' ', spaces))
	}
	return nil
}

// eolText returns the source text of an end of line which starts with
// r.  A CR LF pair counts as a single end of line.
func (p *Tokenizer) eolText(r rune) string {
	if r != '\r' {
		return string(r)
	}
	r2, err := p.ReadRune()
	if err != nil {
		return "\r"
	}
	if r2 == '\n' {
		return "\r\n"
	}
	p.UnreadRune(r2)
	return "\r"
}

// readEOL is called after an end of line has been read.  If the next
// line is blank, a Par token is generated.  Otherwise, the end of line
// is turned into an EndOfLine token (if emit is set) and the leading
// spaces of the next line are skipped.
func (p *Tokenizer) readEOL(eol string, emit bool, dst *token.List) error {
	spaces := p.readRun(catcode.Space)
	r, err := p.readChar()
	if err == nil && p.cat(r) == catcode.EndOfLine {
		par := eol + spaces + p.eolText(r)
		dst.Append(p.Factory.Text(token.Par, 0, par))
		if rest := p.readBlankLines(); rest != "" {
			dst.Append(p.Factory.Text(token.SkippedEols, 0, rest))
		}
		return nil
	} else if err == nil {
		p.UnreadRune(r)
	} else if err != io.EOF {
		return err
	}

	if emit {
		tok := p.Factory.Char(catcode.EndOfLine, []rune(eol)[0])
		if len(eol) > 1 {
			tok.Name = eol
		}
		dst.Append(tok)
	} else {
		dst.Append(p.Factory.Text(token.SkippedEols, 0, eol))
	}
	if spaces != "" {
		dst.Append(p.Factory.Text(token.SkippedSpaces, ' ', spaces))
	}
	return nil
}

// readBlankLines absorbs all blank lines and the leading spaces of the
// first non-blank line.
func (p *Tokenizer) readBlankLines() string {
	var res string
	for {
		res += p.readRun(catcode.Space)
		r, err := p.readChar()
		if err != nil {
			return res
		}
		if p.cat(r) != catcode.EndOfLine {
			p.UnreadRune(r)
			return res
		}
		res += p.eolText(r)
	}
}

// readRun reads a run of characters from the given category.
func (p *Tokenizer) readRun(cat catcode.Category) string {
	var res []rune
	for {
		r, err := p.readChar()
		if err != nil {
			break
		}
		if p.cat(r) != cat {
			p.UnreadRune(r)
			break
		}
		res = append(res, r)
	}
	return string(res)
}

// readSpaces turns a run of spaces into a single space token.  Spaces
// at the end of a line are skipped.
func (p *Tokenizer) readSpaces(first rune, dst *token.List) error {
	rest := p.readRun(catcode.Space)
	r, err := p.readChar()
	atEOL := err == io.EOF
	if err == nil {
		atEOL = p.cat(r) == catcode.EndOfLine
		p.UnreadRune(r)
	} else if err != io.EOF {
		return err
	}

	if atEOL {
		dst.Append(p.Factory.Text(token.SkippedSpaces, ' ', string(first)+rest))
		return nil
	}
	dst.Append(p.Factory.Char(catcode.Space, first))
	if rest != "" {
		dst.Append(p.Factory.Text(token.SkippedSpaces, ' ', rest))
	}
	return nil
}

func (p *Tokenizer) readParam(first rune, dst *token.List) error {
	depth := 0
	for {
		r, err := p.readChar()
		if err == io.EOF {
			dst.Append(p.Factory.Param(first, token.RawDigit, depth))
			return nil
		} else if err != nil {
			return err
		}

		cat := p.cat(r)
		switch {
		case cat == catcode.Param:
			depth++
			continue
		case r >= '1' && r <= '9':
			dst.Append(p.Factory.Param(first, int(r-'0'), depth))
		case cat == catcode.BeginGroup:
			p.UnreadRune(r)
			dst.Append(p.Factory.Param(first, token.BraceDigit, depth))
		default:
			p.UnreadRune(r)
			dst.Append(p.Factory.Param(first, token.RawDigit, depth))
		}
		return nil
	}
}
