package domain

import "errors"

// Auth taxonomy. Handlers never build HTTP statuses themselves; the API
// error handler maps these with errors.Is.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrDuplicateAccount      = errors.New("email already registered")
	ErrInvalidCredentials    = errors.New("incorrect email or password")
	ErrUnauthenticated       = errors.New("could not validate credentials")
	ErrForbidden             = errors.New("access forbidden")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrInvalidToken          = errors.New("invalid token")
	ErrTooManyAttempts       = errors.New("too many failed login attempts")
)

// Marketplace errors.
var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateProposal = errors.New("proposal already submitted for this project")
	ErrInvalidTransition = errors.New("invalid status transition")
)
