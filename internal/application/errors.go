package application

import "errors"

var (
	// ErrUnauthorized is returned when no valid session backs an operation.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrAlreadyExists is returned when a store rejects an insert because an
	// equivalent row is already present.
	ErrAlreadyExists = errors.New("application: already exists")
	// ErrInvalidCredentials is returned when a credential submission is rejected.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrSessionExpired is returned when a presented session token has expired.
	ErrSessionExpired = errors.New("application: session expired")
	// ErrSessionRevoked is returned when a presented session has been signed out.
	ErrSessionRevoked = errors.New("application: session revoked")
	// ErrConfirmationFailed is returned when the RSVP row was stored but the
	// confirmation email could not be sent. The submission is persisted; the
	// overall operation is still reported as a failure.
	ErrConfirmationFailed = errors.New("application: confirmation email failed")
)

// ValidationError captures field level validation issues that callers can
// surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}
