package service

import "errors"

// Sentinel kinds returned by Service.
var (
	ErrNotStarted       = errors.New("service not started")
	ErrStoreClosed      = errors.New("snapshot store closed by a previous Stop")
	ErrEmptyBatch       = errors.New("batch is empty")
	ErrBatchTooLarge    = errors.New("batch too large")
	ErrRequestInFlight  = errors.New("request with this idempotency key is still in flight")
	ErrKeyReused        = errors.New("idempotency key reused with a different request")
	ErrGeocoderDisabled = errors.New("geocoder not configured")
)
