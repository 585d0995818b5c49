package errors

import "errors"

var (
	ErrNotFound = errors.New("privileged user not found")

	ErrInvalidID = errors.New("invalid privileged user ID format")

	ErrDuplicateEmail = errors.New("privileged user email already registered")
)
