package errors

import (
	"errors"
	"fmt"
	"roombook/internal/accesscode"
)

var (
	ErrNotFound = errors.New("room not found")

	ErrInvalidID = errors.New("invalid room ID format")

	ErrDuplicateCode = fmt.Errorf("room access code already in use: %w", accesscode.ErrDuplicate)

	// ErrStateChanged is returned by a conditional write whose precondition no longer holds.
	ErrStateChanged = errors.New("room state changed concurrently")
)
