package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrUnknownCategory indicates a category string outside the known set
	ErrUnknownCategory = errors.New("unknown content category")

	// ErrNoUserBound indicates a favourites write with no user namespace bound.
	// It is a warning: in-memory state was still updated.
	ErrNoUserBound = errors.New("no user bound to favourites")

	// ErrSessionExpired indicates the bearer token has passed its expiry
	ErrSessionExpired = errors.New("session token has expired")

	// ErrStoreClosed indicates a write after the key-value store was closed
	ErrStoreClosed = errors.New("key-value store is closed")
)

// FetchError reports a failure fetching catalog data
type FetchError struct {
	Status  int // HTTP status, 0 for network/parse failures
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	return e.Message
}

func (e *FetchError) Unwrap() error { return e.Err }

// NewFetchError creates a FetchError for a network or parse failure
func NewFetchError(message string, cause error) *FetchError {
	if cause != nil {
		message = fmt.Sprintf("%s: %v", message, cause)
	}
	return &FetchError{Message: message, Err: cause}
}

// NewStatusError creates a FetchError for a non-2xx response
func NewStatusError(status int) *FetchError {
	return &FetchError{Status: status, Message: fmt.Sprintf("HTTP error! status: %d", status)}
}

// AuthError reports bad credentials or a remote auth failure.
// Message carries the remote response body when one was returned.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error { return e.Err }

// ProfileFetchError reports a failed remote profile fetch
type ProfileFetchError struct {
	Message string
	Err     error
}

func (e *ProfileFetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ProfileFetchError) Unwrap() error { return e.Err }

// ProfileSaveError reports a failed profile write
type ProfileSaveError struct {
	Err error
}

func (e *ProfileSaveError) Error() string {
	return fmt.Sprintf("failed to update profile: %v", e.Err)
}

func (e *ProfileSaveError) Unwrap() error { return e.Err }
