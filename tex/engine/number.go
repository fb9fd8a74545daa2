// number.go - reading numbers, dimensions and glue
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
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/seehuhn/texparser/tex/diag"
	"github.com/seehuhn/texparser/tex/dimen"
	"github.com/seehuhn/texparser/tex/token"
)

var unitNames = []string{"pt", "pc", "in", "bp", "cm", "mm", "dd", "cc", "sp"}

func isOther(tok token.Token, r rune) bool {
	return tok.Kind == token.Other && tok.Char == r
}

func digitValue(tok token.Token, base int) (int, bool) {
	var d int
	switch {
	case tok.Kind == token.Other && tok.Char >= '0' && tok.Char <= '9':
		d = int(tok.Char - '0')
	case base == 16 && (tok.Kind == token.Other || tok.Kind == token.Letter) &&
		tok.Char >= 'A' && tok.Char <= 'F':
		d = int(tok.Char-'A') + 10
	default:
		return 0, false
	}
	return d, d < base
}

// soft reports errors which have a sensible fallback value, like a
// missing number, and returns all other errors.
func (e *Engine) soft(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case diag.HasTag(err, diag.ErrNumberExpected),
		diag.HasTag(err, diag.ErrNumberTooBig),
		diag.HasTag(err, diag.ErrMissingUnit),
		diag.HasTag(err, diag.ErrMissingRelation):
		e.sink.Error(err)
		return nil
	}
	return err
}

// skipSpace removes one optional blank token.
func (e *Engine) skipSpace(s *Stack) error {
	tok, err := e.nextExpanded(s)
	if err == io.EOF {
		return nil
	} else if err != nil {
		return err
	}
	if !tok.IsBlank() {
		s.Push(tok)
	}
	return nil
}

// skipEquals removes blanks and an optional equals sign.
func (e *Engine) skipEquals(s *Stack) error {
	tok, err := e.nextNonBlank(s)
	if err == io.EOF {
		return nil
	} else if err != nil {
		return err
	}
	if isOther(tok, '=') {
		return e.skipSpace(s)
	}
	s.Push(tok)
	return nil
}

// scanSigns reads optional plus and minus signs and blanks.
func (e *Engine) scanSigns(s *Stack) (bool, error) {
	neg := false
	for {
		tok, err := e.nextExpanded(s)
		if err == io.EOF {
			return neg, nil
		} else if err != nil {
			return neg, err
		}
		switch {
		case tok.IsBlank() || isOther(tok, '+'):
			// pass
		case isOther(tok, '-'):
			neg = !neg
		default:
			s.Push(tok)
			return neg, nil
		}
	}
}

// scanKeyword checks whether the next tokens spell kw, ignoring case
// and leading blanks.  If not, all tokens are returned to s.
func (e *Engine) scanKeyword(s *Stack, kw string) (bool, error) {
	var seen []token.Token
	for {
		tok, err := e.nextExpanded(s)
		if err == io.EOF {
			s.PushTokens(seen)
			return false, nil
		} else if err != nil {
			return false, err
		}
		if !tok.IsBlank() {
			s.Push(tok)
			break
		}
		seen = append(seen, tok)
	}
	for _, want := range kw {
		tok, err := e.nextExpanded(s)
		if err == io.EOF {
			s.PushTokens(seen)
			return false, nil
		} else if err != nil {
			return false, err
		}
		if (tok.Kind == token.Letter || tok.Kind == token.Other) &&
			unicode.ToLower(tok.Char) == want {
			seen = append(seen, tok)
			continue
		}
		s.Push(tok)
		s.PushTokens(seen)
		return false, nil
	}
	return true, nil
}

// internalQuantity returns the value of tok, if tok is a register or
// another internal quantity.
func (e *Engine) internalQuantity(tok token.Token, s *Stack) (Quantity, bool, error) {
	if !tok.CanExpand() || tok.NoExpand {
		return Quantity{}, false, nil
	}
	switch c := resolve(e.scope.meaning(tok)).(type) {
	case *RegisterRef:
		return registerQuantity(e.scope.Register(c.Key)), true, nil
	case *CharDef:
		return Quantity{Kind: IntQuantity, Int: int32(c.Char)}, true, nil
	case *PageDimen:
		d := dimen.Dimension{Value: 100, Unit: dimen.Percent(c.Dim)}
		return Quantity{Kind: DimenQuantity, Glue: dimen.FromDimension(d)}, true, nil
	case *Primitive:
		if c.Value != nil {
			q, err := c.Value(e, s, tok)
			return q, true, err
		}
	}
	return Quantity{}, false, nil
}

// toInt coerces q to an integer.  Dimensions give their value in
// scaled points.
func (e *Engine) toInt(q Quantity) (int64, error) {
	switch q.Kind {
	case IntQuantity:
		return int64(q.Int), nil
	case DimenQuantity, GlueQuantity:
		pt, err := q.Glue.Natural.ToPt(e.page)
		if err != nil {
			return 0, err
		}
		return int64(math.Round(pt * 65536)), nil
	}
	return 0, e.errorf(diag.Semantic, diag.ErrNumberExpected)
}

// PopNumber reads an integer: optional signs followed by a decimal,
// octal (') or hexadecimal (") constant, an alphabetic constant (`)
// or an internal quantity.  If no number is found, 0 is returned
// together with an error.
func (e *Engine) PopNumber(s *Stack) (int32, error) {
	neg, err := e.scanSigns(s)
	if err != nil {
		return 0, err
	}
	tok, err := e.nextExpanded(s)
	if err == io.EOF {
		return 0, e.errorf(diag.Semantic, diag.ErrNumberExpected)
	} else if err != nil {
		return 0, err
	}

	var v int64
	switch {
	case isOther(tok, '"'):
		v, err = e.scanDigits(s, 16)
	case isOther(tok, '\''):
		v, err = e.scanDigits(s, 8)
	case isOther(tok, '`'):
		v, err = e.scanAlphabetic(s)
	default:
		if _, ok := digitValue(tok, 10); ok {
			s.Push(tok)
			v, err = e.scanDigits(s, 10)
			break
		}
		q, ok, err2 := e.internalQuantity(tok, s)
		if err2 != nil {
			return 0, err2
		}
		if !ok {
			s.Push(tok)
			return 0, e.errorf(diag.Semantic, diag.ErrNumberExpected)
		}
		v, err = e.toInt(q)
		if v > math.MaxInt32 || v < -math.MaxInt32 {
			v, err = math.MaxInt32, e.errorf(diag.Semantic, diag.ErrNumberTooBig)
		}
	}
	if neg {
		v = -v
	}
	if e.trace.Enabled(diag.TraceNumber) {
		e.trace.Printf(diag.TraceNumber, "%d", v)
	}
	return int32(v), err
}

// scanDigits reads the digits of a number in the given base, followed
// by an optional blank.
func (e *Engine) scanDigits(s *Stack, base int) (int64, error) {
	var v int64
	n := 0
	tooBig := false
	for {
		tok, err := e.nextExpanded(s)
		if err == io.EOF {
			break
		} else if err != nil {
			return v, err
		}
		d, ok := digitValue(tok, base)
		if !ok {
			if !tok.IsBlank() {
				s.Push(tok)
			}
			break
		}
		n++
		v = v*int64(base) + int64(d)
		if v > math.MaxInt32 {
			tooBig = true
			v = math.MaxInt32
		}
	}
	switch {
	case n == 0:
		return 0, e.errorf(diag.Semantic, diag.ErrNumberExpected)
	case tooBig:
		return v, e.errorf(diag.Semantic, diag.ErrNumberTooBig)
	}
	return v, nil
}

// scanAlphabetic reads the character after a backquote.
func (e *Engine) scanAlphabetic(s *Stack) (int64, error) {
	tok, err := e.PopToken(s, 0)
	if err == io.EOF {
		return 0, e.errorf(diag.Semantic, diag.ErrImproperAlphabetic)
	} else if err != nil {
		return 0, err
	}
	var v int64
	switch {
	case tok.Kind == token.ControlSequence:
		r, size := utf8.DecodeRuneInString(tok.Name)
		if size == 0 || size != len(tok.Name) {
			return 0, e.errorf(diag.Semantic, diag.ErrImproperAlphabetic)
		}
		v = int64(r)
	case tok.CharCode() == 256:
		return 0, e.errorf(diag.Semantic, diag.ErrImproperAlphabetic)
	default:
		v = int64(tok.CharCode())
	}
	return v, e.skipSpace(s)
}

// PopFloat reads a decimal constant with optional signs.  Both the
// period and the comma can be used as the decimal point.
func (e *Engine) PopFloat(s *Stack) (float64, error) {
	neg, err := e.scanSigns(s)
	if err != nil {
		return 0, err
	}
	x, err := e.scanDecimal(s)
	if neg {
		x = -x
	}
	return x, err
}

func (e *Engine) scanDecimal(s *Stack) (float64, error) {
	var b strings.Builder
	digits := 0
	point := false
	for {
		tok, err := e.nextExpanded(s)
		if err == io.EOF {
			break
		} else if err != nil {
			return 0, err
		}
		if tok.Kind == token.Other {
			if tok.Char >= '0' && tok.Char <= '9' {
				b.WriteRune(tok.Char)
				digits++
				continue
			}
			if (tok.Char == '.' || tok.Char == ',') && !point {
				b.WriteByte('.')
				point = true
				continue
			}
		}
		if !tok.IsBlank() {
			s.Push(tok)
		}
		break
	}
	if digits == 0 {
		if point {
			return 0, nil
		}
		return 0, e.errorf(diag.Semantic, diag.ErrNumberExpected)
	}
	text := b.String()
	if strings.HasPrefix(text, ".") {
		text = "0" + text
	}
	if strings.HasSuffix(text, ".") {
		text += "0"
	}
	x, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, e.errorf(diag.Semantic, diag.ErrNumberTooBig)
	}
	return x, nil
}

// PopUnit reads a unit of measure, including the infinite units fil,
// fill and filll.  The keyword "true" is accepted and ignored.  If no
// unit is found, pt is returned together with an error.
func (e *Engine) PopUnit(s *Stack) (dimen.Unit, error) {
	if _, err := e.scanKeyword(s, "true"); err != nil {
		return dimen.Points, err
	}
	for _, name := range unitNames {
		ok, err := e.scanKeyword(s, name)
		if err != nil {
			return dimen.Points, err
		}
		if ok {
			u, _ := dimen.ParseUnit(name)
			return u, e.skipSpace(s)
		}
	}

	ok, err := e.scanKeyword(s, "fil")
	if err != nil {
		return dimen.Points, err
	}
	if ok {
		order := 1
		for order < 3 {
			ok, err = e.scanKeyword(s, "l")
			if err != nil {
				return dimen.Points, err
			}
			if !ok {
				break
			}
			order++
		}
		return dimen.Fil(order), e.skipSpace(s)
	}
	return dimen.Points, e.errorf(diag.Semantic, diag.ErrMissingUnit)
}

// scanUnit reads a unit and returns the dimension of one unit.
// Internal dimensions like \dimen0 or \linewidth can serve as units.
func (e *Engine) scanUnit(s *Stack, allowFil bool) (dimen.Dimension, error) {
	tok, err := e.nextNonBlank(s)
	if err != nil && err != io.EOF {
		return dimen.Pt(1), err
	}
	if err == nil {
		q, ok, err := e.internalQuantity(tok, s)
		if err != nil {
			return dimen.Pt(1), err
		}
		if ok {
			if q.Kind == DimenQuantity || q.Kind == GlueQuantity {
				return q.Glue.Natural, nil
			}
			return dimen.Pt(1), e.errorf(diag.Semantic, diag.ErrMissingUnit)
		}
		s.Push(tok)
	}

	u, err := e.PopUnit(s)
	if err == nil && u.IsFil() && !allowFil {
		return dimen.Pt(1), e.errorf(diag.Semantic, diag.ErrMissingUnit)
	}
	return dimen.Dimension{Value: 1, Unit: u}, err
}

// dimenStart reads the signs and the first token of a dimension.  If
// this token is an internal quantity, its value is returned in q.
func (e *Engine) dimenStart(s *Stack) (bool, token.Token, *Quantity, error) {
	neg, err := e.scanSigns(s)
	if err != nil {
		return false, token.Token{}, nil, err
	}
	tok, err := e.nextExpanded(s)
	if err == io.EOF {
		return neg, tok, nil, e.errorf(diag.Semantic, diag.ErrNumberExpected)
	} else if err != nil {
		return neg, tok, nil, err
	}
	q, ok, err := e.internalQuantity(tok, s)
	if err != nil {
		return neg, tok, nil, err
	}
	if ok {
		return neg, tok, &q, nil
	}
	return neg, tok, nil, nil
}

// dimenRest completes a dimension started by dimenStart.
func (e *Engine) dimenRest(s *Stack, neg bool, tok token.Token, q *Quantity, allowFil bool) (dimen.Dimension, error) {
	var factor float64
	var err error
	switch {
	case q != nil:
		switch q.Kind {
		case DimenQuantity, GlueQuantity:
			d := q.Glue.Natural
			if neg {
				d = d.Scale(-1)
			}
			return d, nil
		case IntQuantity:
			factor = float64(q.Int)
		default:
			return dimen.Pt(0), e.errorf(diag.Semantic, diag.ErrNumberExpected)
		}
	case tok.Kind == token.Other && (tok.Char >= '0' && tok.Char <= '9' || tok.Char == '.' || tok.Char == ','):
		s.Push(tok)
		factor, err = e.scanDecimal(s)
	case isOther(tok, '"') || isOther(tok, '\'') || isOther(tok, '`'):
		s.Push(tok)
		var n int32
		n, err = e.PopNumber(s)
		factor = float64(n)
	default:
		s.Push(tok)
		return dimen.Pt(0), e.errorf(diag.Semantic, diag.ErrNumberExpected)
	}
	if err != nil {
		return dimen.Pt(0), err
	}

	unit, err := e.scanUnit(s, allowFil)
	d := unit.Scale(factor)
	if neg {
		d = d.Scale(-1)
	}
	if e.trace.Enabled(diag.TraceDimension) {
		e.trace.Printf(diag.TraceDimension, "%s", d)
	}
	return d, err
}

func (e *Engine) scanDimen(s *Stack, allowFil bool) (dimen.Dimension, error) {
	neg, tok, q, err := e.dimenStart(s)
	if err != nil {
		return dimen.Pt(0), err
	}
	return e.dimenRest(s, neg, tok, q, allowFil)
}

// PopDimension reads a dimension: a factor followed by a unit, or an
// internal dimension.
func (e *Engine) PopDimension(s *Stack) (dimen.Dimension, error) {
	return e.scanDimen(s, false)
}

// PopGlue reads glue: a dimension with optional stretch and shrink
// components, or an internal glue value.
func (e *Engine) PopGlue(s *Stack) (dimen.Glue, error) {
	neg, tok, q, err := e.dimenStart(s)
	if err != nil {
		return dimen.Glue{}, err
	}
	if q != nil && q.Kind == GlueQuantity {
		g := q.Glue
		if neg {
			g = g.Negate()
		}
		return g, nil
	}
	nat, err := e.dimenRest(s, neg, tok, q, false)
	g := dimen.FromDimension(nat)
	if err != nil {
		return g, err
	}

	ok, err := e.scanKeyword(s, "plus")
	if err != nil {
		return g, err
	}
	if ok {
		g.Stretch, err = e.scanDimen(s, true)
		if err != nil {
			return g, err
		}
	}
	ok, err = e.scanKeyword(s, "minus")
	if err != nil {
		return g, err
	}
	if ok {
		g.Shrink, err = e.scanDimen(s, true)
	}
	return g, err
}
