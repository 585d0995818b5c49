package model

import "time"

type Room struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name        string    `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Description string    `json:"description,omitempty" bson:"description,omitempty" validate:"max=500"`
	Company     string    `json:"company" bson:"company" validate:"required,min=1,max=100"`
	Available   bool      `json:"available" bson:"available"`
	Locked      bool      `json:"locked" bson:"locked"`
	AccessCode  string    `json:"access_code" bson:"access_code" validate:"required,room_access_code"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

type RoomCreate struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description,omitempty" validate:"max=500"`
	Company     string `json:"company" validate:"required,min=1,max=100"`
	Available   *bool  `json:"available,omitempty"`
}

type RoomUpdate struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	Company     *string `json:"company,omitempty" validate:"omitempty,min=1,max=100"`
	Available   *bool   `json:"available,omitempty"`
}

type RoomFilter struct {
	Company   string
	Available *bool
}

// RoomAccessRequest is the body sent by a physical console for lock/unlock.
type RoomAccessRequest struct {
	AccessCode string `json:"access_code" validate:"required,room_access_code"`
}

type RoomLockStatus struct {
	Locked bool  `json:"locked"`
	Room   *Room `json:"room"`
}
