package chart

import (
	"errors"
	"fmt"

	"github.com/okian/natal/internal/domain/astro"
)

// ErrEphemeris is the kind of every hard ephemeris failure.
var ErrEphemeris = errors.New("ephemeris failure")

// EphemerisError reports which ephemeris call failed.
type EphemerisError struct {
	Op   string
	Body astro.Body
	Err  error
}

func (e *EphemerisError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("ephemeris %s %s: %v", e.Op, e.Body, e.Err)
	}
	return fmt.Sprintf("ephemeris %s: %v", e.Op, e.Err)
}

// Unwrap exposes both ErrEphemeris and the backend cause to errors.Is.
func (e *EphemerisError) Unwrap() []error { return []error{ErrEphemeris, e.Err} }
