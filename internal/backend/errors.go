package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by single-row lookups with no match.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized covers rejected credentials and expired sessions.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnavailable means the backend could not be reached at all.
	ErrUnavailable = errors.New("backend unavailable")
)

// APIError carries the backend-provided message for a failed call, so the
// UI can show it verbatim when present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend error (status %d)", e.Status)
	}
	return e.Message
}

// Unwrap maps well-known statuses onto the sentinel errors so call sites
// can use errors.Is without inspecting status codes.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case 401, 403:
		return ErrUnauthorized
	case 404, 406:
		return ErrNotFound
	}
	return nil
}

// UserMessage returns the backend-provided message from err when one is
// available, or fallback otherwise.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
