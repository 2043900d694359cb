// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service/client layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates failed authentication.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the entity belongs to another user.
	ErrForbidden = errors.New("forbidden")

	// ErrRateLimited indicates temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., email taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrValidation marks input rejected before it reaches storage or the network.
	ErrValidation = errors.New("validation")

	// ErrNetwork indicates that no response was received from the server.
	ErrNetwork = errors.New("network unreachable")
)

// ValidationError carries a user-facing reason and matches ErrValidation.
type ValidationError struct{ Reason string }

func (e *ValidationError) Error() string { return e.Reason }

// Is makes errors.Is(err, ErrValidation) hold.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalid returns a validation error with the given reason.
func Invalid(reason string) error { return &ValidationError{Reason: reason} }

// KindError attaches a user-facing reason to one of the sentinels above.
type KindError struct {
	Kind   error
	Reason string
}

func (e *KindError) Error() string { return e.Reason }

func (e *KindError) Unwrap() error { return e.Kind }

// With returns an error that matches kind and reads as reason.
func With(kind error, reason string) error { return &KindError{Kind: kind, Reason: reason} }

// Reason extracts the user-facing reason carried by err, if any.
func Reason(err error) (string, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reason, true
	}
	var ke *KindError
	if errors.As(err, &ke) {
		return ke.Reason, true
	}
	return "", false
}
