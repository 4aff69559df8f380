package assets

import "errors"

var (
	// ErrUnauthorized means the bearer token was missing, unknown or expired.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means the requested name resolves outside the protected directory.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means the resolved path is missing or not a regular file.
	ErrNotFound = errors.New("not found")
)
