package repository

import (
	"context"
	"fmt"
	meetingserrors "roombook/internal/meetings/errors"
	"roombook/pkg/config"
	mongotx "roombook/pkg/db/mongo"
	"roombook/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	LockCollectionName = "Meeting_locks"
	lockPrefix         = "meeting_lock_"
)

// RoomLockRepository manages the per-room advisory locks that serialise meeting writes.
type RoomLockRepository interface {
	Acquire(ctx context.Context, roomID, owner string, ttl time.Duration) error
	Release(ctx context.Context, roomID, owner string) error
}

type mongoRoomLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	now        func() time.Time
}

func NewRoomLockRepository(cfg *config.Config) RoomLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRoomLockRepository{
		cfg:        cfg,
		collection: db.Collection(LockCollectionName),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func LockID(roomID string) string {
	return lockPrefix + roomID
}

// Acquire inserts the lock document. A live lock held by someone else yields
// ErrLockHeld; an expired one the TTL monitor has not swept yet is taken over.
func (r *mongoRoomLockRepository) Acquire(ctx context.Context, roomID, owner string, ttl time.Duration) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := r.now()
	lock := &model.RoomSlotLock{
		ID:        LockID(roomID),
		Owner:     owner,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	_, err := r.collection.InsertOne(ctx, lock)
	if err == nil {
		return nil
	}
	if !mongotx.IsDuplicateKey(err) {
		return fmt.Errorf("failed to acquire room lock: %w", err)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": lock.ID, "expires_at": bson.M{"$lt": now}})
	if err != nil {
		return fmt.Errorf("failed to clear expired room lock: %w", err)
	}
	if result.DeletedCount == 0 {
		return meetingserrors.ErrLockHeld
	}

	if _, err := r.collection.InsertOne(ctx, lock); err != nil {
		if mongotx.IsDuplicateKey(err) {
			return meetingserrors.ErrLockHeld
		}
		return fmt.Errorf("failed to acquire room lock: %w", err)
	}
	return nil
}

// Release removes the lock only if owner still holds it.
func (r *mongoRoomLockRepository) Release(ctx context.Context, roomID, owner string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": LockID(roomID), "owner": owner})
	if err != nil {
		return fmt.Errorf("failed to release room lock: %w", err)
	}
	return nil
}
