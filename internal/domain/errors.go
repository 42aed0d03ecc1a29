package domain

import "errors"

// Stable error kinds surfaced to the HTTP layer. Handlers map these to
// status codes; anything else is treated as a storage failure.
var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidInterval    = errors.New("end time must be after start time")
	ErrMissingFields      = errors.New("missing required fields")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidRoleSubtype = errors.New("sub-type does not match role")
	ErrAlreadyDecided     = errors.New("reservation already decided")
	ErrInvalidEmailDomain = errors.New("email domain not allowed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is deactivated")
)
