package xerrors

import (
	"errors"
	"fmt"
)

// Common reusable application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized access")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal server error")
	ErrRateLimited  = errors.New("too many requests")

	// Identity and privilege resolution
	ErrIdentityUnresolved = errors.New("cannot determine current user, please re-authenticate")
	ErrMissingIdentifier  = errors.New("missing user identifier")

	// Privilege mutations
	ErrNoValidPrivilegesSelected = errors.New("no valid privileges selected")
	ErrMutationFailed            = errors.New("privilege mutation failed")

	// Upstream calls
	ErrDetailFetchFailed = errors.New("failed to fetch user detail")
	ErrOperationTimedOut = errors.New("operation timed out")
	ErrUpstreamStatus    = errors.New("upstream returned error status")
)

// Wrap adds context to an error (similar to fmt.Errorf("%w")).
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is allows checking whether an error is a specific sentinel error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Unwrap extracts the underlying wrapped error.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// MessageOrDefault returns err.Error() or a fallback message if err is nil.
func MessageOrDefault(err error, fallback string) string {
	if err != nil {
		return err.Error()
	}
	return fallback
}
