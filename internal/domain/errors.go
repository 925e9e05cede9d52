package domain

import "errors"

// Sentinel errors shared across services. Callers match with errors.Is and
// translate into user-facing responses at the delivery boundary.
var (
	// ErrNotFound is returned when the requested event, inscription, or user does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when a mutation is attempted by someone other than the event creator.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput is returned when a request fails domain validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrAlreadyRegistered is returned when the (user, event) pair already has an inscription.
	ErrAlreadyRegistered = errors.New("already registered for this event")
	// ErrNotRegistered is returned when unregistering a (user, event) pair with no inscription.
	ErrNotRegistered = errors.New("not registered for this event")
	// ErrDuplicateEmail is returned when signing up with an email that is already taken.
	ErrDuplicateEmail = errors.New("email already in use")
	// ErrStorage is returned when a blob write or delete fails.
	ErrStorage = errors.New("blob storage failure")
	// ErrStoreUnavailable is returned when the persistence layer is unreachable
	// or fails in a way not classified by another sentinel.
	ErrStoreUnavailable = errors.New("store unavailable")
)
