package services

import (
	"errors"

	"marketplace-api/internal/auth"
)

// Define common service errors
var (
	ErrNotFound             = errors.New("resource not found")
	ErrForbidden            = errors.New("forbidden")
	ErrConflict             = errors.New("conflict") // e.g., duplicate email or profile
	ErrValidation           = errors.New("validation failed")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidTransition    = errors.New("invalid state transition")
	ErrDuplicateApplication = errors.New("already applied to this job")
	ErrStoreUnavailable     = errors.New("store unavailable")
)

// Kind names the error taxonomy entry carried by a service error.
type Kind string

const (
	KindValidation           Kind = "validation"
	KindAuthorization        Kind = "authorization"
	KindInvalidTransition    Kind = "invalid_transition"
	KindDuplicateApplication Kind = "duplicate_application"
	KindNotFound             Kind = "not_found"
	KindStoreUnavailable     Kind = "store_unavailable"
	KindConflict             Kind = "conflict"
	KindUnauthenticated      Kind = "unauthenticated"
	KindInternal             Kind = "internal"
)

// KindOf classifies err. Errors outside the taxonomy are KindInternal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrForbidden):
		return KindAuthorization
	case errors.Is(err, ErrInvalidTransition):
		return KindInvalidTransition
	case errors.Is(err, ErrDuplicateApplication):
		return KindDuplicateApplication
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrStoreUnavailable):
		return KindStoreUnavailable
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		return KindUnauthenticated
	default:
		return KindInternal
	}
}
