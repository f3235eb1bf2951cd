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

type EnrollmentRepo struct {
	db *mongo.Database
}

func NewEnrollmentRepo(db *mongo.Database) *EnrollmentRepo {
	return &EnrollmentRepo{db: db}
}

func (r *EnrollmentRepo) collection() *mongo.Collection {
	return r.db.Collection("enrollments")
}

func (r *EnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	enrollment.ID = primitive.NewObjectID()
	enrollment.EnrolledAt = time.Now().UTC()
	enrollment.Status = "in_progress"

	if _, err := r.collection().InsertOne(ctx, enrollment); err != nil {
		return fmt.Errorf("failed to insert enrollment: %w", err)
	}
	return nil
}

// FindByUserRefs matches enrollments whose userId equals ANY of the given id
// forms. Historical rows were keyed by whichever form the client sent.
func (r *EnrollmentRepo) FindByUserRefs(ctx context.Context, refs []string) ([]models.Enrollment, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	cursor, err := r.collection().Find(ctx, bson.M{"userId": bson.M{"$in": refs}})
	if err != nil {
		return nil, fmt.Errorf("failed to find enrollments: %w", err)
	}
	defer cursor.Close(ctx)

	var enrollments []models.Enrollment
	if err := cursor.All(ctx, &enrollments); err != nil {
		return nil, fmt.Errorf("failed to decode enrollments: %w", err)
	}
	return enrollments, nil
}

func (r *EnrollmentRepo) FindByUserAndCourse(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	enrollment := &models.Enrollment{}
	err := r.collection().FindOne(ctx, bson.M{"userId": userID, "courseId": courseID}).Decode(enrollment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find enrollment: %w", err)
	}
	return enrollment, nil
}

func (r *EnrollmentRepo) CountByCourseID(ctx context.Context, courseID string) (int64, error) {
	n, err := r.collection().CountDocuments(ctx, bson.M{"courseId": courseID})
	if err != nil {
		return 0, fmt.Errorf("failed to count enrollments: %w", err)
	}
	return n, nil
}

func (r *EnrollmentRepo) Count(ctx context.Context) (int64, error) {
	n, err := r.collection().CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count enrollments: %w", err)
	}
	return n, nil
}

// DistinctUserCount counts userId values, not semantically-resolved users.
// A student enrolled under two id forms counts twice; accepted for the
// admin dashboard.
func (r *EnrollmentRepo) DistinctUserCount(ctx context.Context) (int, error) {
	vals, err := r.collection().Distinct(ctx, "userId", bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count distinct users: %w", err)
	}
	return len(vals), nil
}

func (r *EnrollmentRepo) DeleteByCourseID(ctx context.Context, courseID string) error {
	if _, err := r.collection().DeleteMany(ctx, bson.M{"courseId": courseID}); err != nil {
		return fmt.Errorf("failed to delete enrollments: %w", err)
	}
	return nil
}
