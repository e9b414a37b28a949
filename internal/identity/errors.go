package identity

import "errors"

// Errors surfaced by the consolidation core.
var (
	// ErrNotFound means the target attribute or account does not exist.
	ErrNotFound = errors.New("identity: not found")
	// ErrUnauthorized means the caller does not own the target resource.
	ErrUnauthorized = errors.New("identity: caller does not own resource")
	// ErrConflict means a uniqueness constraint would be violated.
	ErrConflict = errors.New("identity: conflicting row exists")
)
