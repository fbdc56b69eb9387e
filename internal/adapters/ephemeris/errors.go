package ephemeris

import "errors"

var (
	// ErrAlreadyConfigured is returned by Configure when the adapter was
	// already configured with a different series path.
	ErrAlreadyConfigured = errors.New("ephemeris already configured")
	// ErrLoadSeries wraps a failure to read a VSOP87 series file.
	ErrLoadSeries = errors.New("load planetary series")
	// ErrOutOfRange is returned when a theory is asked for a date it does
	// not cover.
	ErrOutOfRange = errors.New("date outside supported range")
	// ErrUnsupportedBody is returned for bodies the adapter does not compute.
	ErrUnsupportedBody = errors.New("unsupported body")
	// ErrUnsupportedSystem is returned for unknown house systems.
	ErrUnsupportedSystem = errors.New("unsupported house system")
)
