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

type CourseRepo struct {
	db *mongo.Database
}

func NewCourseRepo(db *mongo.Database) *CourseRepo {
	return &CourseRepo{db: db}
}

func (r *CourseRepo) collection() *mongo.Collection {
	return r.db.Collection("courses")
}

func (r *CourseRepo) Create(ctx context.Context, course *models.Course) error {
	course.ID = primitive.NewObjectID()
	course.CreatedAt = time.Now().UTC()

	if _, err := r.collection().InsertOne(ctx, course); err != nil {
		return fmt.Errorf("failed to insert course: %w", err)
	}
	return nil
}

// FindByID returns nil without error when the id is malformed or unknown.
// Enrollments routinely reference deleted courses; callers skip those.
func (r *CourseRepo) FindByID(ctx context.Context, hexID string) (*models.Course, error) {
	oid, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, nil
	}

	course := &models.Course{}
	err = r.collection().FindOne(ctx, bson.M{"_id": oid}).Decode(course)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find course: %w", err)
	}
	return course, nil
}

// FindAll returns the catalog in storage order. Catalog order is the
// tie-break order for recommendations.
func (r *CourseRepo) FindAll(ctx context.Context) ([]models.Course, error) {
	cursor, err := r.collection().Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer cursor.Close(ctx)

	var courses []models.Course
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, fmt.Errorf("failed to decode courses: %w", err)
	}
	return courses, nil
}

func (r *CourseRepo) Update(ctx context.Context, hexID string, req *models.CourseRequest) (*models.Course, error) {
	oid, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, nil
	}

	set := bson.M{
		"title":       req.Title,
		"description": req.Description,
		"instructor":  req.Instructor,
		"duration":    req.Duration,
		"topics":      req.Topics,
	}
	res, err := r.collection().UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, nil
	}
	return r.FindByID(ctx, hexID)
}

// Delete removes the course and returns whether it existed.
func (r *CourseRepo) Delete(ctx context.Context, hexID string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return false, nil
	}

	res, err := r.collection().DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("failed to delete course: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *CourseRepo) Count(ctx context.Context) (int64, error) {
	n, err := r.collection().CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count courses: %w", err)
	}
	return n, nil
}
