package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"elevateu-backend/internal/models"
)

type UserRepo struct {
	db *mongo.Database
}

func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) collection() *mongo.Collection {
	return r.db.Collection("users")
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()

	if _, err := r.collection().InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// FindByExternalID returns nil without error when no user matches.
func (r *UserRepo) FindByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	if externalID == "" {
		return nil, nil
	}

	user := &models.User{}
	err := r.collection().FindOne(ctx, bson.M{"externalId": externalID}).Decode(user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by external id: %w", err)
	}
	return user, nil
}

// FindByID looks a user up by internal id. A ref that is not a valid object
// id simply cannot match, so it returns nil rather than an error.
func (r *UserRepo) FindByID(ctx context.Context, hexID string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, nil
	}

	user := &models.User{}
	err = r.collection().FindOne(ctx, bson.M{"_id": oid}).Decode(user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by id: %w", err)
	}
	return user, nil
}

// FindExisting matches the create-on-first-sign-in dedupe rule: a user
// already exists when either the external id or the email is taken.
func (r *UserRepo) FindExisting(ctx context.Context, externalID, email string) (*models.User, error) {
	user := &models.User{}
	filter := bson.M{"$or": []bson.M{
		{"externalId": externalID},
		{"email": email},
	}}
	err := r.collection().FindOne(ctx, filter).Decode(user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find existing user: %w", err)
	}
	return user, nil
}

func (r *UserRepo) UpdateByExternalID(ctx context.Context, externalID string, set bson.M) (*models.User, error) {
	res, err := r.collection().UpdateOne(ctx, bson.M{"externalId": externalID}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, nil
	}
	return r.FindByExternalID(ctx, externalID)
}

func (r *UserRepo) UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.User, error) {
	res, err := r.collection().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, nil
	}
	return r.FindByID(ctx, id.Hex())
}

func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	n, err := r.collection().CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func (r *UserRepo) FindStudents(ctx context.Context) ([]models.User, error) {
	cursor, err := r.collection().Find(ctx, bson.M{"role": "student"})
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer cursor.Close(ctx)

	var students []models.User
	if err := cursor.All(ctx, &students); err != nil {
		return nil, fmt.Errorf("failed to decode students: %w", err)
	}
	return students, nil
}
