package repository

import (
	"context"
	"errors"
	"fmt"
	"roombook/internal/interval"
	meetingserrors "roombook/internal/meetings/errors"
	"roombook/pkg/config"
	mongotx "roombook/pkg/db/mongo"
	"roombook/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Meetings"
)

type mongoMeetingRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type MeetingRepository interface {
	Create(ctx context.Context, meeting *model.Meeting) error
	FindByID(ctx context.Context, id string) (*model.Meeting, error)
	FindByAccessCode(ctx context.Context, code string) (*model.Meeting, error)
	AccessCodeExists(ctx context.Context, code string) (bool, error)
	FindConflicts(ctx context.Context, roomID string, r interval.Range, excludeID string) ([]*model.Meeting, error)
	FindAll(ctx context.Context, filter model.MeetingFilter, limit int, offset int64) ([]*model.Meeting, error)
	Count(ctx context.Context, filter model.MeetingFilter) (int64, error)
	FindUpcoming(ctx context.Context, from time.Time, limit int) ([]*model.Meeting, error)
	FindRoomSchedule(ctx context.Context, roomID string, day interval.Range) ([]*model.Meeting, error)
	CountScheduledByRoom(ctx context.Context, roomID string) (int64, error)
	ReplaceScheduled(ctx context.Context, meeting *model.Meeting) error
	Delete(ctx context.Context, id string) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoMeetingRepository(cfg *config.Config) MeetingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoMeetingRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoMeetingRepository) Create(ctx context.Context, meeting *model.Meeting) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, meeting)
	if err != nil {
		if mongotx.IsDuplicateKey(err) {
			return meetingserrors.ErrDuplicateCode
		}
		return fmt.Errorf("failed to create meeting: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		meeting.ID = oid.Hex()
	}
	return nil
}

func (r *mongoMeetingRepository) FindByID(ctx context.Context, id string) (*model.Meeting, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", meetingserrors.ErrInvalidID, id)
	}

	return r.findOne(ctx, bson.M{"_id": objectID})
}

func (r *mongoMeetingRepository) FindByAccessCode(ctx context.Context, code string) (*model.Meeting, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.findOne(ctx, bson.M{"access_code": code})
}

func (r *mongoMeetingRepository) findOne(ctx context.Context, filter bson.M) (*model.Meeting, error) {
	var meeting model.Meeting
	if err := r.collection.FindOne(ctx, filter).Decode(&meeting); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, meetingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find meeting: %w", err)
	}
	return &meeting, nil
}

func (r *mongoMeetingRepository) AccessCodeExists(ctx context.Context, code string) (bool, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	n, err := r.collection.CountDocuments(ctx, bson.M{"access_code": code}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check meeting access code: %w", err)
	}
	return n > 0, nil
}

// FindConflicts returns Scheduled meetings in the room overlapping [r.Start, r.End).
func (r *mongoMeetingRepository) FindConflicts(ctx context.Context, roomID string, rng interval.Range, excludeID string) ([]*model.Meeting, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter, err := conflictFilter(roomID, rng, excludeID)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}})
	return r.find(ctx, filter, opts)
}

func conflictFilter(roomID string, rng interval.Range, excludeID string) (bson.M, error) {
	filter := bson.M{
		"room_id":    roomID,
		"status":     model.MeetingStatusScheduled,
		"start_date": bson.M{"$lt": rng.End},
		"end_date":   bson.M{"$gt": rng.Start},
	}
	if excludeID != "" {
		oid, err := primitive.ObjectIDFromHex(excludeID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", meetingserrors.ErrInvalidID, excludeID)
		}
		filter["_id"] = bson.M{"$ne": oid}
	}
	return filter, nil
}

func (r *mongoMeetingRepository) FindAll(ctx context.Context, filter model.MeetingFilter, limit int, offset int64) ([]*model.Meeting, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "start_date", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	return r.find(ctx, buildFilter(filter), opts)
}

func (r *mongoMeetingRepository) Count(ctx context.Context, filter model.MeetingFilter) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count meetings: %w", err)
	}
	return count, nil
}

func (r *mongoMeetingRepository) FindUpcoming(ctx context.Context, from time.Time, limit int) ([]*model.Meeting, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"status":     model.MeetingStatusScheduled,
		"start_date": bson.M{"$gte": from},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "start_date", Value: 1}}).
		SetLimit(int64(limit))

	return r.find(ctx, filter, opts)
}

// FindRoomSchedule returns the Scheduled meetings of a room starting within day.
func (r *mongoMeetingRepository) FindRoomSchedule(ctx context.Context, roomID string, day interval.Range) ([]*model.Meeting, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"room_id":    roomID,
		"status":     model.MeetingStatusScheduled,
		"start_date": bson.M{"$gte": day.Start, "$lt": day.End},
	}
	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}})

	return r.find(ctx, filter, opts)
}

func (r *mongoMeetingRepository) CountScheduledByRoom(ctx context.Context, roomID string) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{
		"room_id": roomID,
		"status":  model.MeetingStatusScheduled,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count scheduled meetings: %w", err)
	}
	return count, nil
}

// ReplaceScheduled stores meeting over its previous version only if that version is
// still Scheduled. Every transition out of Scheduled goes through here.
func (r *mongoMeetingRepository) ReplaceScheduled(ctx context.Context, meeting *model.Meeting) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(meeting.ID)
	if err != nil {
		return fmt.Errorf("%w: %s", meetingserrors.ErrInvalidID, meeting.ID)
	}

	doc := *meeting
	doc.ID = ""

	filter := bson.M{"_id": objectID, "status": model.MeetingStatusScheduled}
	result, err := r.collection.ReplaceOne(ctx, filter, doc)
	if err != nil {
		if mongotx.IsDuplicateKey(err) {
			return meetingserrors.ErrDuplicateCode
		}
		return fmt.Errorf("failed to update meeting: %w", err)
	}
	if result.MatchedCount == 0 {
		return meetingserrors.ErrStateChanged
	}
	return nil
}

func (r *mongoMeetingRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", meetingserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete meeting: %w", err)
	}
	if result.DeletedCount == 0 {
		return meetingserrors.ErrNotFound
	}
	return nil
}

func (r *mongoMeetingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

func (r *mongoMeetingRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Meeting, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find meetings: %w", err)
	}
	defer cursor.Close(ctx)

	meetings := []*model.Meeting{}
	if err = cursor.All(ctx, &meetings); err != nil {
		return nil, fmt.Errorf("failed to decode meetings: %w", err)
	}
	return meetings, nil
}

func buildFilter(f model.MeetingFilter) bson.M {
	filter := bson.M{}
	if f.RoomID != "" {
		filter["room_id"] = f.RoomID
	}
	if f.OrganizerEmail != "" {
		filter["organizer_email"] = f.OrganizerEmail
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.From != nil || f.To != nil {
		dateFilter := bson.M{}
		if f.From != nil {
			dateFilter["$gte"] = *f.From
		}
		if f.To != nil {
			dateFilter["$lte"] = *f.To
		}
		filter["start_date"] = dateFilter
	}
	return filter
}
