package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrAlreadyExists is returned when a unique constraint rejects an insert.
	ErrAlreadyExists = errors.New("persistence: already exists")
	// ErrConstraintViolation is returned when a record is missing required values.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
)
