package geocode

import "errors"

// Sentinel kinds for geocoder errors.
var (
	ErrEmptyQuery  = errors.New("geocode query is empty")
	ErrNotFound    = errors.New("no geocode result")
	ErrUpstream    = errors.New("geocoder upstream failure")
	ErrUnavailable = errors.New("geocoder temporarily unavailable")
)
