package recommend

import "fmt"

// ValidationErrorKind identifies which rule a raw recommendation violated.
type ValidationErrorKind string

const (
	ErrKindNotObject         ValidationErrorKind = "not_object"
	ErrKindMissingField      ValidationErrorKind = "missing_field"
	ErrKindInvalidAction     ValidationErrorKind = "invalid_action"
	ErrKindInvalidConfidence ValidationErrorKind = "invalid_confidence"
	ErrKindInvalidRiskLevel  ValidationErrorKind = "invalid_risk_level"
)

// ValidationError reports a malformed recommendation. The whole object is
// rejected; partial validity is not permitted.
type ValidationError struct {
	Kind  ValidationErrorKind
	Field string
	Value any
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case ErrKindNotObject:
		return "recommendation is not an object"
	case ErrKindMissingField:
		return fmt.Sprintf("missing required field %q", e.Field)
	default:
		return fmt.Sprintf("%s: %v", e.Kind, e.Value)
	}
}
