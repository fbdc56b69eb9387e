package repository

import "errors"

// Sentinel kinds for snapshot store errors.
var (
	ErrNotFound      = errors.New("snapshot not found")
	ErrAlreadyExists = errors.New("snapshot already exists")
	ErrInvalidID     = errors.New("invalid snapshot id")
	ErrBackend       = errors.New("snapshot backend failure")
)
