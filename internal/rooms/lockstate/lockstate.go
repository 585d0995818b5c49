// Package lockstate holds the pure lock/unlock transitions of a room.
package lockstate

import (
	"errors"
	"roombook/pkg/model"
	"time"
)

var (
	ErrAlreadyLocked   = errors.New("room is already locked")
	ErrAlreadyUnlocked = errors.New("room is already unlocked")
)

// Lock returns a locked copy of room. The input is not modified.
func Lock(room model.Room, now time.Time) (model.Room, error) {
	if room.Locked {
		return room, ErrAlreadyLocked
	}
	room.Locked = true
	room.UpdatedAt = now
	return room, nil
}

// Unlock returns an unlocked copy of room. The input is not modified.
func Unlock(room model.Room, now time.Time) (model.Room, error) {
	if !room.Locked {
		return room, ErrAlreadyUnlocked
	}
	room.Locked = false
	room.UpdatedAt = now
	return room, nil
}
