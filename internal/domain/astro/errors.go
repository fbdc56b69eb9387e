package astro

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the kind of every birth input validation failure.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError names the offending field of a rejected BirthInput.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

func invalid(field, format string, args ...any) error {
	return &InvalidInputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
