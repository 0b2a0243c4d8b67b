package auth

import (
	"errors"
	"fmt"
)

// ErrAuthRequired is returned when no usable credential exists and none can
// be obtained without user interaction. Callers are expected to run the
// interactive authorization flow and retry the whole operation.
var ErrAuthRequired = errors.New("authentication required")

// AuthorizationExpiredError indicates that a previously valid credential was
// rejected by the Spotify API. The token has already been invalidated; the
// caller should prompt the user to re-authenticate.
type AuthorizationExpiredError struct {
	// Reason is the underlying rejection, if available.
	Reason error
}

// Error implements the error interface.
func (e *AuthorizationExpiredError) Error() string {
	if e.Reason != nil {
		return fmt.Sprintf("authorization expired: %v", e.Reason)
	}
	return "authorization expired: please re-authenticate"
}

// Unwrap returns the underlying rejection for error chain inspection.
func (e *AuthorizationExpiredError) Unwrap() error {
	return e.Reason
}

// ServerAlreadyRunningError indicates that the well-known callback port is
// bound by another process that did not respond to a login probe. This is a
// recoverable condition, not a fatal error: the user can close the
// conflicting process or let it finish its own flow.
type ServerAlreadyRunningError struct {
	// Port is the contended callback port.
	Port int
}

// Error implements the error interface.
func (e *ServerAlreadyRunningError) Error() string {
	return fmt.Sprintf("authorization server already running on port %d", e.Port)
}

// RefreshError indicates that a token refresh exchange failed. The token
// record has been cleared; a subsequent token request goes through the
// interactive path.
type RefreshError struct {
	// Reason is the transport or protocol failure.
	Reason error
}

// Error implements the error interface.
func (e *RefreshError) Error() string {
	return fmt.Sprintf("token refresh failed: %v", e.Reason)
}

// Unwrap returns the underlying failure.
func (e *RefreshError) Unwrap() error {
	return e.Reason
}
