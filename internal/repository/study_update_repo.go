package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"elevateu-backend/internal/models"
)

type StudyUpdateRepo struct {
	db *mongo.Database
}

func NewStudyUpdateRepo(db *mongo.Database) *StudyUpdateRepo {
	return &StudyUpdateRepo{db: db}
}

func (r *StudyUpdateRepo) collection() *mongo.Collection {
	return r.db.Collection("study_updates")
}

func (r *StudyUpdateRepo) Create(ctx context.Context, update *models.StudyUpdate) error {
	update.ID = primitive.NewObjectID()
	if update.Date.IsZero() {
		update.Date = time.Now().UTC()
	}
	update.Verified = false

	if _, err := r.collection().InsertOne(ctx, update); err != nil {
		return fmt.Errorf("failed to insert study update: %w", err)
	}
	return nil
}

// FindByUserRefs returns updates newest first.
func (r *StudyUpdateRepo) FindByUserRefs(ctx context.Context, refs []string, limit int64) ([]models.StudyUpdate, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	opts := options.Find().SetSort(bson.M{"date": -1})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.collection().Find(ctx, bson.M{"userId": bson.M{"$in": refs}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find study updates: %w", err)
	}
	defer cursor.Close(ctx)

	var updates []models.StudyUpdate
	if err := cursor.All(ctx, &updates); err != nil {
		return nil, fmt.Errorf("failed to decode study updates: %w", err)
	}
	return updates, nil
}

func (r *StudyUpdateRepo) Verify(ctx context.Context, hexID string, adminComment *string) (*models.StudyUpdate, error) {
	oid, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, nil
	}

	set := bson.M{"verified": true, "adminComment": adminComment}
	res, err := r.collection().UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("failed to verify study update: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, nil
	}

	update := &models.StudyUpdate{}
	err = r.collection().FindOne(ctx, bson.M{"_id": oid}).Decode(update)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to reload study update: %w", err)
	}
	return update, nil
}
