package errors

import (
	"errors"
	"fmt"
	"roombook/internal/accesscode"
)

var (
	ErrNotFound = errors.New("meeting not found")

	ErrInvalidID = errors.New("invalid meeting ID format")

	ErrDuplicateCode = fmt.Errorf("meeting access code already in use: %w", accesscode.ErrDuplicate)

	// ErrStateChanged is returned when a write conditioned on status=scheduled matched nothing.
	ErrStateChanged = errors.New("meeting is no longer scheduled")

	ErrLockHeld = errors.New("room is being booked by another request")
)
