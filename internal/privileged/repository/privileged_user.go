package repository

import (
	"context"
	"errors"
	"fmt"
	privilegederrors "roombook/internal/privileged/errors"
	"roombook/pkg/config"
	mongotx "roombook/pkg/db/mongo"
	"roombook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Privileged_users"
)

type mongoPrivilegedUserRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type PrivilegedUserRepository interface {
	Create(ctx context.Context, user *model.PrivilegedUser) error
	FindByID(ctx context.Context, id string) (*model.PrivilegedUser, error)
	FindActiveByEmail(ctx context.Context, email string) (*model.PrivilegedUser, error)
	FindAll(ctx context.Context, filter model.PrivilegedUserFilter, limit int, offset int64) ([]*model.PrivilegedUser, error)
	Count(ctx context.Context, filter model.PrivilegedUserFilter) (int64, error)
	Update(ctx context.Context, id string, user *model.PrivilegedUser) error
	Delete(ctx context.Context, id string) error
}

func NewMongoPrivilegedUserRepository(cfg *config.Config) PrivilegedUserRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoPrivilegedUserRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoPrivilegedUserRepository) Create(ctx context.Context, user *model.PrivilegedUser) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongotx.IsDuplicateKey(err) {
			return privilegederrors.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create privileged user: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid.Hex()
	}
	return nil
}

func (r *mongoPrivilegedUserRepository) FindByID(ctx context.Context, id string) (*model.PrivilegedUser, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", privilegederrors.ErrInvalidID, id)
	}

	return r.findOne(ctx, bson.M{"_id": objectID})
}

func (r *mongoPrivilegedUserRepository) FindActiveByEmail(ctx context.Context, email string) (*model.PrivilegedUser, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.findOne(ctx, bson.M{"email": email, "is_active": true})
}

func (r *mongoPrivilegedUserRepository) findOne(ctx context.Context, filter bson.M) (*model.PrivilegedUser, error) {
	var user model.PrivilegedUser
	if err := r.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, privilegederrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find privileged user: %w", err)
	}
	return &user, nil
}

func (r *mongoPrivilegedUserRepository) FindAll(ctx context.Context, filter model.PrivilegedUserFilter, limit int, offset int64) ([]*model.PrivilegedUser, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "full_name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, buildFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find privileged users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*model.PrivilegedUser
	if err = cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode privileged users: %w", err)
	}
	return users, nil
}

func (r *mongoPrivilegedUserRepository) Count(ctx context.Context, filter model.PrivilegedUserFilter) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count privileged users: %w", err)
	}
	return count, nil
}

func (r *mongoPrivilegedUserRepository) Update(ctx context.Context, id string, user *model.PrivilegedUser) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", privilegederrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"full_name":  user.FullName,
			"email":      user.Email,
			"company":    user.Company,
			"is_active":  user.IsActive,
			"updated_at": user.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		if mongotx.IsDuplicateKey(err) {
			return privilegederrors.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to update privileged user: %w", err)
	}
	if result.MatchedCount == 0 {
		return privilegederrors.ErrNotFound
	}
	return nil
}

func (r *mongoPrivilegedUserRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", privilegederrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete privileged user: %w", err)
	}
	if result.DeletedCount == 0 {
		return privilegederrors.ErrNotFound
	}
	return nil
}

func buildFilter(f model.PrivilegedUserFilter) bson.M {
	filter := bson.M{}
	if f.Company != "" {
		filter["company"] = f.Company
	}
	if f.Active != nil {
		filter["is_active"] = *f.Active
	}
	return filter
}
