package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"roombook/internal/migrations/mongo/validators"
	"roombook/pkg/logger"
)

const (
	RoomsCollection           = "Rooms"
	MeetingsCollection        = "Meetings"
	PrivilegedUsersCollection = "Privileged_users"
	MeetingLocksCollection    = "Meeting_locks"
)

var (
	RoomsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "access_code", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_access_code"),
		},
		{Keys: bson.D{{Key: "company", Value: 1}, {Key: "available", Value: 1}}},
		{Keys: bson.D{{Key: "name", Value: 1}}},
	}

	MeetingsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "access_code", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_access_code"),
		},
		// Serves the overlap query: room_id + status equality, then a start_date range.
		{
			Keys: bson.D{
				{Key: "room_id", Value: 1},
				{Key: "status", Value: 1},
				{Key: "start_date", Value: 1},
				{Key: "end_date", Value: 1},
			},
			Options: options.Index().SetName("room_status_range"),
		},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "start_date", Value: 1}}},
		{Keys: bson.D{{Key: "organizer_email", Value: 1}, {Key: "start_date", Value: 1}}},
	}

	PrivilegedUsersIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_email"),
		},
		{Keys: bson.D{{Key: "company", Value: 1}, {Key: "is_active", Value: 1}}},
	}

	MeetingLocksIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("ttl_expires_at"),
		},
	}
)

type collectionDef struct {
	Indexes   []mongo.IndexModel
	Validator bson.M
}

func Collections() map[string]collectionDef {
	return map[string]collectionDef{
		RoomsCollection: {
			Indexes:   RoomsIndexes,
			Validator: validators.RoomValidator,
		},
		MeetingsCollection: {
			Indexes:   MeetingsIndexes,
			Validator: validators.MeetingValidator,
		},
		PrivilegedUsersCollection: {
			Indexes:   PrivilegedUsersIndexes,
			Validator: validators.PrivilegedUserValidator,
		},
		MeetingLocksCollection: {
			Indexes:   MeetingLocksIndexes,
			Validator: validators.MeetingLockValidator,
		},
	}
}

// RunMigration creates every collection with its JSON schema validator and indexes.
// It is idempotent: existing collections get their validator refreshed.
func RunMigration(ctx context.Context, client *mongo.Client, dbName string, log *logger.Logger) error {
	db := client.Database(dbName)
	log.Info("Running Mongo migrations", "database", dbName)

	for name, def := range Collections() {
		if err := ensureCollection(ctx, db, name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	log.Info("All migrations applied successfully", "database", dbName)
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	log.Info("Collection already exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	coll := db.Collection(name)
	created, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "indexes", created)
	return nil
}
