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

type ProgressRepo struct {
	db *mongo.Database
}

func NewProgressRepo(db *mongo.Database) *ProgressRepo {
	return &ProgressRepo{db: db}
}

func (r *ProgressRepo) collection() *mongo.Collection {
	return r.db.Collection("progress")
}

func (r *ProgressRepo) Create(ctx context.Context, progress *models.Progress) error {
	progress.ID = primitive.NewObjectID()
	progress.LastUpdated = time.Now().UTC()

	if _, err := r.collection().InsertOne(ctx, progress); err != nil {
		return fmt.Errorf("failed to insert progress: %w", err)
	}
	return nil
}

// FindByUserRefsAndCourse returns the first progress row keyed by any of the
// user's id forms for the given course. Storage does not enforce uniqueness
// on (userId, courseId), so first match wins.
func (r *ProgressRepo) FindByUserRefsAndCourse(ctx context.Context, refs []string, courseID string) (*models.Progress, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	progress := &models.Progress{}
	filter := bson.M{"userId": bson.M{"$in": refs}, "courseId": courseID}
	err := r.collection().FindOne(ctx, filter).Decode(progress)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find progress: %w", err)
	}
	return progress, nil
}

func (r *ProgressRepo) FindByUserRefs(ctx context.Context, refs []string) ([]models.Progress, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	cursor, err := r.collection().Find(ctx, bson.M{"userId": bson.M{"$in": refs}})
	if err != nil {
		return nil, fmt.Errorf("failed to find progress records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.Progress
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode progress records: %w", err)
	}
	return records, nil
}

// SetCompleted overwrites the completion state of one progress row.
func (r *ProgressRepo) SetCompleted(ctx context.Context, id primitive.ObjectID, completedTopics []int, percent float64) (*models.Progress, error) {
	set := bson.M{
		"completedTopics": completedTopics,
		"progress":        percent,
		"lastUpdated":     time.Now().UTC(),
	}
	if _, err := r.collection().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}

	progress := &models.Progress{}
	if err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(progress); err != nil {
		return nil, fmt.Errorf("failed to reload progress: %w", err)
	}
	return progress, nil
}

// Upsert writes completion state keyed by (userId, courseId), creating the
// row when absent. Used by the chat update_progress action.
func (r *ProgressRepo) Upsert(ctx context.Context, userID, courseID string, completedTopics []int, percent float64) error {
	set := bson.M{
		"userId":          userID,
		"courseId":        courseID,
		"completedTopics": completedTopics,
		"progress":        percent,
		"lastUpdated":     time.Now().UTC(),
	}
	_, err := r.collection().UpdateOne(ctx,
		bson.M{"userId": userID, "courseId": courseID},
		bson.M{"$set": set},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert progress: %w", err)
	}
	return nil
}

func (r *ProgressRepo) FindAll(ctx context.Context) ([]models.Progress, error) {
	cursor, err := r.collection().Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list progress records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.Progress
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode progress records: %w", err)
	}
	return records, nil
}

func (r *ProgressRepo) DeleteByCourseID(ctx context.Context, courseID string) error {
	if _, err := r.collection().DeleteMany(ctx, bson.M{"courseId": courseID}); err != nil {
		return fmt.Errorf("failed to delete progress records: %w", err)
	}
	return nil
}
