package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

// NumberRule constrains a single numeric value. A zero NumberRule accepts any
// finite number.
type NumberRule struct {
	Min, Max       float64
	HasMin, HasMax bool
	ExclusiveMin   bool
	Integer        bool
}

// Bounded accepts values in the closed interval [min, max].
func Bounded(min, max float64) NumberRule {
	return NumberRule{Min: min, Max: max, HasMin: true, HasMax: true}
}

// AtLeast accepts values greater than or equal to min.
func AtLeast(min float64) NumberRule {
	return NumberRule{Min: min, HasMin: true}
}

// Positive accepts values strictly greater than zero.
func Positive() NumberRule {
	return NumberRule{HasMin: true, ExclusiveMin: true}
}

// Integral returns a copy of r that also requires a whole number.
func (r NumberRule) Integral() NumberRule {
	r.Integer = true
	return r
}

// Check returns a range violation for v at path, or nil.
func (r NumberRule) Check(path string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return newError(ErrRangeViolation, path, v, "must be a finite number")
	}
	if r.Integer && v != math.Trunc(v) {
		return newError(ErrTypeMismatch, path, v, "must be an integer")
	}
	if r.HasMin && r.ExclusiveMin && v <= r.Min {
		return newError(ErrRangeViolation, path, v, "%s", r)
	}
	if r.HasMin && !r.ExclusiveMin && v < r.Min {
		return newError(ErrRangeViolation, path, v, "%s", r)
	}
	if r.HasMax && v > r.Max {
		return newError(ErrRangeViolation, path, v, "%s", r)
	}
	return nil
}

func (r NumberRule) String() string {
	lo := ""
	switch {
	case r.HasMin && r.ExclusiveMin:
		lo = fmt.Sprintf("> %g", r.Min)
	case r.HasMin:
		lo = fmt.Sprintf(">= %g", r.Min)
	}
	switch {
	case lo != "" && r.HasMax:
		return fmt.Sprintf("must be %s and <= %g", lo, r.Max)
	case r.HasMax:
		return fmt.Sprintf("must be <= %g", r.Max)
	case lo != "":
		return "must be " + lo
	default:
		return "must be a finite number"
	}
}

// TextRule constrains a string by length (in characters) and an optional
// pattern. MaxLen 0 means unbounded.
type TextRule struct {
	MinLen, MaxLen int
	Pattern        *regexp.Regexp
}

// Text accepts strings with a character count in [min, max].
func Text(min, max int) TextRule {
	return TextRule{MinLen: min, MaxLen: max}
}

// Pattern accepts non-empty strings matching expr.
func Pattern(expr string) TextRule {
	return TextRule{MinLen: 1, Pattern: regexp.MustCompile(expr)}
}

func (r TextRule) Check(path, v string) error {
	n := utf8.RuneCountInString(v)
	if n < r.MinLen {
		if r.MinLen == 1 {
			return newError(ErrRangeViolation, path, v, "must not be empty")
		}
		return newError(ErrRangeViolation, path, v, "must be at least %d characters", r.MinLen)
	}
	if r.MaxLen > 0 && n > r.MaxLen {
		return newError(ErrRangeViolation, path, v, "must be at most %d characters", r.MaxLen)
	}
	if r.Pattern != nil && !r.Pattern.MatchString(v) {
		return newError(ErrPatternMismatch, path, v, "must match %s", r.Pattern)
	}
	return nil
}

// EnumRule restricts a string to a closed set. With FoldCase, input is
// matched case-insensitively and returned in its canonical spelling.
type EnumRule struct {
	Members  []string
	FoldCase bool
}

// EnumMember builds an EnumRule over members, which are the canonical forms.
func EnumMember(foldCase bool, members ...string) EnumRule {
	return EnumRule{Members: members, FoldCase: foldCase}
}

// Canonical returns the canonical member equal to v.
func (r EnumRule) Canonical(path, v string) (string, error) {
	for _, m := range r.Members {
		if m == v || (r.FoldCase && strings.EqualFold(m, v)) {
			return m, nil
		}
	}
	return "", newError(ErrUnrecognizedEnumValue, path, v, "must be one of %s", strings.Join(r.Members, ", "))
}

func (r EnumRule) Contains(v string) bool {
	_, err := r.Canonical("", v)
	return err == nil
}

// MatrixRule fixes the shape of a numeric matrix.
type MatrixRule struct {
	Rows, Cols int
}

// FixedShapeMatrix requires exactly rows x cols numeric cells.
func FixedShapeMatrix(rows, cols int) MatrixRule {
	return MatrixRule{Rows: rows, Cols: cols}
}

// Decode parses raw as a rows x cols matrix of JSON numbers. Any deviation
// is reported as a schedule shape error locating the offending row or cell.
func (r MatrixRule) Decode(path string, raw json.RawMessage) ([][]float64, error) {
	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil || rows == nil {
		return nil, newError(ErrScheduleShape, path, nil, "must be a %dx%d matrix", r.Rows, r.Cols)
	}
	if len(rows) != r.Rows {
		return nil, newError(ErrScheduleShape, path, len(rows), "must have %d rows", r.Rows)
	}
	out := make([][]float64, r.Rows)
	for i, rawRow := range rows {
		rowPath := index(path, i)
		var cells []json.RawMessage
		if err := json.Unmarshal(rawRow, &cells); err != nil || cells == nil {
			return nil, newError(ErrScheduleShape, rowPath, nil, "must be a row of %d numbers", r.Cols)
		}
		if len(cells) != r.Cols {
			return nil, newError(ErrScheduleShape, rowPath, len(cells), "must have %d columns", r.Cols)
		}
		out[i] = make([]float64, r.Cols)
		for j, cell := range cells {
			v, ok := decodeNumber(cell)
			if !ok {
				return nil, newError(ErrScheduleShape, index(rowPath, j), string(cell), "must be a number")
			}
			out[i][j] = v
		}
	}
	return out, nil
}

// CheckCells reports the first non-finite cell of m.
func (r MatrixRule) CheckCells(path string, m [][]float64) error {
	for i, row := range m {
		if j := slices.IndexFunc(row, func(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) }); j >= 0 {
			return newError(ErrScheduleShape, index(index(path, i), j), row[j], "must be a finite number")
		}
	}
	return nil
}

// decodeNumber accepts only JSON number literals; quoted numbers, booleans
// and null are rejected.
func decodeNumber(raw json.RawMessage) (float64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || (raw[0] != '-' && (raw[0] < '0' || raw[0] > '9')) {
		return 0, false
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	return v, true
}
