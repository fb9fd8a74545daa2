// messages.go - message tags and the English message table
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
	"strings"
)

// Message tags.
const (
	ErrUndefined              = "tex.error.undefined"
	ErrNumberExpected         = "tex.error.number_expected"
	ErrNumberTooBig           = "tex.error.number_too_big"
	ErrMissingUnit            = "tex.error.missing_unit"
	ErrParBeforeEndGroup      = "tex.error.par_before_eg"
	ErrNoEndGroup             = "tex.error.no_eg"
	ErrUnexpectedEndGroup     = "tex.error.unexpected_eg"
	ErrExtraOrForgotten       = "tex.error.extra_or_forgotten"
	ErrMissingEndMath         = "tex.error.missing_endmath"
	ErrDollar2EndedWithDollar = "tex.error.dollar2_ended_with_dollar"
	ErrUnterminatedVerbatim   = "tex.error.unterminated_verbatim"
	ErrUnterminatedGroup      = "tex.error.unterminated_group"
	ErrSyntax                 = "tex.error.syntax"
	ErrExtraEndGroupInArg     = "tex.error.arg_extra_eg"
	ErrFileEndedInArg         = "tex.error.file_ended_in_arg"
	ErrIllegalParam           = "tex.error.illegal_param"
	ErrParamsNotConsecutive   = "tex.error.params_not_consecutive"
	ErrMisplacedParam         = "tex.error.misplaced_param"
	ErrExtra                  = "tex.error.extra"
	ErrDivideByZero           = "tex.error.divide_by_zero"
	ErrOverflow               = "tex.error.overflow"
	ErrInvalidCode            = "tex.error.invalid_code"
	ErrAssignConstant         = "tex.error.assign_constant"
	ErrCantUsePrefix          = "tex.error.cant_use_prefix"
	ErrMissingCs              = "tex.error.missing_cs"
	ErrMissingEndCsname       = "tex.error.missing_endcsname"
	ErrImproperAlphabetic     = "tex.error.improper_alphabetic"
	ErrInvalidChar            = "tex.error.invalid_char"
	ErrFileNotFound           = "tex.error.file_not_found"
	ErrNoRoom                 = "tex.error.no_room"
	ErrStepLimit              = "tex.error.step_limit"
	ErrEnvMismatch            = "tex.error.env_mismatch"
	ErrUser                   = "tex.error.user"
	ErrUnitMismatch           = "tex.error.unit_mismatch"
	ErrFormatVersion          = "tex.error.format_version"
	ErrCantUse                = "tex.error.cant_use"
	ErrIncompleteIf           = "tex.error.incomplete_if"
	ErrMissingRelation        = "tex.error.missing_relation"
	ErrMissingBeginGroup      = "tex.error.missing_bg"
	ErrMissingParen           = "tex.error.missing_paren"
)

// English is the default message table.
var English = Messages{
	ErrUndefined:              "Undefined control sequence %s",
	ErrNumberExpected:         "Missing number, treated as zero",
	ErrNumberTooBig:           "Number too big",
	ErrMissingUnit:            "Illegal unit of measure",
	ErrParBeforeEndGroup:      "Paragraph ended before %s was complete",
	ErrNoEndGroup:             "Missing } inserted",
	ErrUnexpectedEndGroup:     "Too many }'s",
	ErrExtraOrForgotten:       "Extra %s, or forgotten %s",
	ErrMissingEndMath:         "Missing $ inserted",
	ErrDollar2EndedWithDollar: "Display math should end with $$",
	ErrUnterminatedVerbatim:   "%s ended by end of input",
	ErrUnterminatedGroup:      "Input ended inside a group (level %d)",
	ErrSyntax:                 "Use of %s doesn't match its definition",
	ErrExtraEndGroupInArg:     "Argument of %s has an extra }",
	ErrFileEndedInArg:         "File ended while scanning use of %s",
	ErrIllegalParam:           "Illegal parameter number in definition of %s",
	ErrParamsNotConsecutive:   "Parameters must be numbered consecutively",
	ErrMisplacedParam:         "You can't use macro parameter character # in this mode",
	ErrExtra:                  "Extra %s",
	ErrDivideByZero:           "Arithmetic overflow (division by zero)",
	ErrOverflow:               "Arithmetic overflow",
	ErrInvalidCode:            "Invalid code (%d), should be at most %d",
	ErrAssignConstant:         "You can't assign to %s",
	ErrCantUsePrefix:          "You can't use a prefix with %s",
	ErrMissingCs:              "Missing control sequence inserted",
	ErrMissingEndCsname:       "Missing \\endcsname inserted",
	ErrImproperAlphabetic:     "Improper alphabetic constant",
	ErrInvalidChar:            "Text line contains an invalid character (%q)",
	ErrFileNotFound:           "File %q not found",
	ErrNoRoom:                 "No room for a new %s",
	ErrStepLimit:              "Expansion step limit (%d) exceeded",
	ErrEnvMismatch:            "\\begin{%s} ended by \\end{%s}",
	ErrUser:                   "%s",
	ErrUnitMismatch:           "Incompatible glue units",
	ErrFormatVersion:          "Format version %s is not compatible with %s",
	ErrCantUse:                "You can't use %s in this context",
	ErrIncompleteIf:           "Incomplete %s; all text was ignored after it",
	ErrMissingRelation:        "Missing = inserted for %s",
	ErrMissingBeginGroup:      "Missing { inserted",
	ErrMissingParen:           "Missing ) inserted for expression",
}

// A Localizer turns message tags and parameters into text.
type Localizer interface {
	Format(tag string, params ...interface{}) string
}

// CurrentLocalizer is used to format all error messages.
var CurrentLocalizer Localizer = English

// Messages is a Localizer backed by a table of format strings.
type Messages map[string]string

// Format implements the Localizer interface.  Unknown tags are
// rendered together with their parameters.
func (m Messages) Format(tag string, params ...interface{}) string {
	format, ok := m[tag]
	if !ok {
		res := []string{tag}
		for _, p := range params {
			res = append(res, fmt.Sprint(p))
		}
		return strings.Join(res, " ")
	}
	return fmt.Sprintf(format, params...)
}
