package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every validation failure returned by this package is a
// *ValidationError whose Kind is one of these sentinels, so callers can
// branch with errors.Is and inspect details with errors.As.
var (
	ErrRangeViolation        = errors.New("uwg: value out of range")
	ErrUnrecognizedEnumValue = errors.New("uwg: unrecognized enum value")
	ErrScheduleShape         = errors.New("uwg: malformed week schedule")
	ErrStructuralMismatch    = errors.New("uwg: structural mismatch")
	ErrStockFraction         = errors.New("uwg: stock fractions do not sum to 1")
	ErrUnresolvedArchetype   = errors.New("uwg: unresolved building archetype")
	ErrClosedSchemaViolation = errors.New("uwg: unknown field")
	ErrMissingField          = errors.New("uwg: missing required field")
	ErrTypeMismatch          = errors.New("uwg: wrong value type")
	ErrPatternMismatch       = errors.New("uwg: value does not match pattern")
)

// ValidationError describes the first constraint a value failed.
//
// Path locates the offending field from the root of the value being
// validated, e.g. "reference_building_models[0].wall.materials[1].thermal_conductivity".
type ValidationError struct {
	Kind       error
	Path       string
	Value      any
	Constraint string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}
	if e.Constraint != "" {
		b.WriteString(": ")
		b.WriteString(e.Constraint)
	}
	if e.Value != nil {
		fmt.Fprintf(&b, " (got %v)", e.Value)
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error { return e.Kind }

func newError(kind error, path string, value any, format string, args ...any) *ValidationError {
	return &ValidationError{
		Kind:       kind,
		Path:       path,
		Value:      value,
		Constraint: fmt.Sprintf(format, args...),
	}
}

// nest re-roots err under the given parent segment. Non-validation errors
// are wrapped with the segment as context.
func nest(err error, segment string) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("%s: %w", segment, err)
	}
	cp := *ve
	cp.Path = joinPath(segment, ve.Path)
	return &cp
}

func joinPath(parent, child string) string {
	switch {
	case parent == "":
		return child
	case child == "":
		return parent
	case strings.HasPrefix(child, "["):
		return parent + child
	default:
		return parent + "." + child
	}
}

func index(name string, i int) string {
	return fmt.Sprintf("%s[%d]", name, i)
}
