package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSpecRequired = errors.New("vm spec is required")
	ErrVMIDRequired = errors.New("id for vm is required")
	ErrIDCollision  = errors.New("unable to generate a unique vm id")
)

// Kinds of validation failure. The values double as the "type" reported to
// HTTP clients.
const (
	KindMissing     = "missing"
	KindIntType     = "int_type"
	KindStringType  = "string_type"
	KindGreaterThan = "greater_than"
	KindLessThan    = "less_than"
	KindLiteral     = "literal_error"
	KindJSONInvalid = "json_invalid"

	KindDatetimeParsing = "datetime_parsing"
)

// ValidationError describes a single field that failed validation.
type ValidationError struct {
	// Field is the name of the offending field, as it appears on the wire.
	Field string
	// Kind classifies the failure, one of the Kind* constants.
	Kind string
	// Constraint is a human readable description of the violated rule.
	Constraint string
	// Value is the rejected input, if there was one.
	Value any
}

// Error returns the error message.
func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Constraint
	}

	return fmt.Sprintf("invalid %s: %s", e.Field, e.Constraint)
}

// ValidationErrors collects every field that failed validation.
type ValidationErrors []ValidationError

// Error returns the error message.
func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, ve := range e {
		msgs = append(msgs, ve.Error())
	}

	return strings.Join(msgs, "; ")
}

// Fields returns the names of the failing fields in order.
func (e ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(e))
	for _, ve := range e {
		fields = append(fields, ve.Field)
	}

	return fields
}

// Has reports whether field is among the failures.
func (e ValidationErrors) Has(field string) bool {
	for _, ve := range e {
		if ve.Field == field {
			return true
		}
	}

	return false
}

// NotFoundError is returned when no vm exists with the given id.
type NotFoundError struct {
	ID string
}

// Error returns the error message.
func (e NotFoundError) Error() string {
	return fmt.Sprintf("vm %s not found", e.ID)
}

func NewNotFound(id string) error {
	return NotFoundError{ID: id}
}

// IsNotFound reports whether err, or any error it wraps, is a NotFoundError.
func IsNotFound(err error) bool {
	var nf NotFoundError

	return errors.As(err, &nf)
}

// AsValidation unwraps err into ValidationErrors. A lone ValidationError is
// returned as a single element list.
func AsValidation(err error) (ValidationErrors, bool) {
	var list ValidationErrors
	if errors.As(err, &list) {
		return list, true
	}

	var single ValidationError
	if errors.As(err, &single) {
		return ValidationErrors{single}, true
	}

	return nil, false
}
