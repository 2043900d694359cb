package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/and161185/grocerylist/internal/errs"
)

// NetworkMessage is shown when no response was received.
const NetworkMessage = "Unable to reach the server. Check your connection and try again."

// Error is a non-2xx response.
type Error struct {
	Status    int
	Message   string // server-supplied, may be empty
	RequestID string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

// Is maps well-known statuses onto the shared sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case errs.ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case errs.ErrForbidden:
		return e.Status == http.StatusForbidden
	case errs.ErrNotFound:
		return e.Status == http.StatusNotFound
	case errs.ErrAlreadyExists:
		return e.Status == http.StatusConflict
	case errs.ErrRateLimited:
		return e.Status == http.StatusTooManyRequests
	case errs.ErrValidation:
		return e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity
	}
	return false
}

// NetworkError means the request never got a response.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("api: %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, errs.ErrNetwork) hold.
func (e *NetworkError) Is(target error) bool { return target == errs.ErrNetwork }

// Describe turns an error into the message a component shows inline:
// local validation reason, generic network message, the server's message,
// or fallback when the server gave none.
func Describe(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var ve *errs.ValidationError
	if errors.As(err, &ve) {
		return ve.Reason
	}
	if errors.Is(err, errs.ErrNetwork) {
		return NetworkMessage
	}
	var ae *Error
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return fallback
}
