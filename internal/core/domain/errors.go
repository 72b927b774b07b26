package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown archive mode, filter or protocol.
	ErrUnsupportedType = errors.New("unsupported type")

	// Authentication Errors.

	// ErrAuthRequired indicates no access token is configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthInvalid indicates the access token was rejected.
	ErrAuthInvalid = errors.New("authentication invalid")

	// Remote Errors.

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
