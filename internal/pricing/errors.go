package pricing

import (
	"fmt"
	"strings"
)

// FieldError records one input field that violates the model's domain.
type FieldError struct {
	Field  string  `json:"field"`
	Value  float64 `json:"value"`
	Reason string  `json:"reason"`
}

// ParameterError collects every invalid field found during validation so the
// caller can report all of them at once instead of fixing inputs one by one.
type ParameterError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ParameterError) add(field string, value float64, reason string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Value: value, Reason: reason})
}

// HasErrors returns true if any field violations were recorded.
func (e *ParameterError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ParameterError) Error() string {
	var sb strings.Builder
	sb.WriteString("invalid pricing parameters:")
	for _, f := range e.Fields {
		sb.WriteString(fmt.Sprintf(" %s=%g (%s);", f.Field, f.Value, f.Reason))
	}
	return strings.TrimSuffix(sb.String(), ";")
}

// UnsupportedKindError reports an option kind outside {call, put}. Seeing one
// from Price indicates a bug in the caller, not bad user input.
type UnsupportedKindError struct {
	Kind OptionKind
	Raw  string
}

func (e *UnsupportedKindError) Error() string {
	if e.Raw != "" {
		return fmt.Sprintf("unsupported option kind %q (must be \"call\" or \"put\")", e.Raw)
	}
	return fmt.Sprintf("unsupported option kind %s", e.Kind)
}
