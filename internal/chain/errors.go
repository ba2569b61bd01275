package chain

import (
	"errors"
	"fmt"
)

// Kind classifies a rejected chain payload
type Kind string

const (
	MissingField            Kind = "MissingField"
	MissingParticipantField Kind = "MissingParticipantField"
	InvalidParticipants     Kind = "InvalidParticipants"
	MalformedDate           Kind = "MalformedDate"
	MalformedTitle          Kind = "MalformedTitle"
	InvalidField            Kind = "InvalidField"
)

// ErrFinalizeFailed is returned when the slug could not be stamped on a freshly
// inserted chain. The inserted record has been removed by then.
var ErrFinalizeFailed = errors.New("failed to finalize chain slug")

// ValidationError reports a payload problem found before any store write
type ValidationError struct {
	Kind  Kind
	Field string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case MissingField:
		return fmt.Sprintf("key '%s' is required.", e.Field)
	case MissingParticipantField:
		return fmt.Sprintf("key '%s' is required in '%s'", e.Field, fieldParticipants)
	case InvalidParticipants:
		return fmt.Sprintf("'%s' is a JSON list of objects with at least 1 item.", fieldParticipants)
	case MalformedDate:
		return fmt.Sprintf("'%s' malformed, supported formats are DD-MM-YYYY or DD/MM/YYYY.", e.Field)
	case MalformedTitle:
		return fmt.Sprintf("'%s' malformed, parameter can only contain alphanumeric characters, spaces, '-' and '_'.", fieldTitle)
	default:
		return fmt.Sprintf("'%s' has an invalid value.", e.Field)
	}
}

func newValidationError(kind Kind, field string) *ValidationError {
	return &ValidationError{Kind: kind, Field: field}
}
