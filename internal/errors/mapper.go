// internal/errors/mapper.go
package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

// Domain error kinds. Services return these (possibly wrapped); the HTTP
// edge maps them to status codes in one place.
var (
	// ErrNotAuthenticated — no valid requester identity; caller must re-authenticate.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrInvalidTarget — self-targeting decision or malformed target id.
	ErrInvalidTarget = errors.New("invalid target")
	// ErrInvalidArgument — malformed request input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound — the referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — unique constraint violated (e.g. duplicate email).
	ErrAlreadyExists = errors.New("already exists")
	// ErrStoreUnavailable — transient store failure; retryable by the caller.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// InvalidArgument wraps ErrInvalidArgument with a caller-facing message.
func InvalidArgument(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, msg)
}

// AlreadyExists wraps ErrAlreadyExists with a caller-facing message.
func AlreadyExists(msg string) error {
	return fmt.Errorf("%w: %s", ErrAlreadyExists, msg)
}

// Map converts repo/infra errors into domain errors.
// Keeps service layer clean by centralizing error classification.
func Map(err error) error {
	switch {
	case err == nil:
		return nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound

	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return err

	default:
		// anything else reaching the store is treated as transient
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}

// HTTPStatus resolves a domain error to the status code reported to clients.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInvalidTarget), errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// WriteHTTP reports an error as a JSON body with the mapped status code.
func WriteHTTP(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(HTTPStatus(err))
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
