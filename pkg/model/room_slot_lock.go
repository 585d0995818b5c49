package model

import "time"

// RoomSlotLock is an advisory lock serialising meeting writes for one room.
// Its _id is derived from the room id, so a second holder fails with a duplicate key.
type RoomSlotLock struct {
	ID        string    `bson:"_id" json:"id"`
	Owner     string    `bson:"owner" json:"owner"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
