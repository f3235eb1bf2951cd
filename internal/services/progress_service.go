package services

import (
	"context"
	"time"

	"elevateu-backend/internal/models"
	"elevateu-backend/internal/repository"
)

type ProgressService struct {
	progress *repository.ProgressRepo
	courses  *repository.CourseRepo
	resolver *IdentityResolver
}

func NewProgressService(progress *repository.ProgressRepo, courses *repository.CourseRepo, resolver *IdentityResolver) *ProgressService {
	return &ProgressService{progress: progress, courses: courses, resolver: resolver}
}

// Update overwrites a user's completion state for one course. The percentage
// is recomputed from the course's current topic list; the client-sent markers
// are sanitized the same way aggregation sanitizes stored ones.
func (s *ProgressService) Update(ctx context.Context, req *models.UpdateProgressRequest) (*models.Progress, error) {
	fieldErrors := make(map[string]string)
	if req.UserID == "" {
		fieldErrors["userId"] = "User ID is required"
	}
	if req.CourseID == "" {
		fieldErrors["courseId"] = "Course ID is required"
	}
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	resolved, err := s.resolver.Resolve(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, &NotFoundError{Message: "Course not found"}
	}

	topics := sanitizeTopics(course.Topics)
	completed := sanitizeCompletedTopics(req.CompletedTopics, len(topics))
	percent := 0.0
	if len(topics) > 0 {
		percent = float64(len(completed)) / float64(len(topics)) * 100
	}

	existing, err := s.progress.FindByUserRefsAndCourse(ctx, resolved.IDForms, req.CourseID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return s.progress.SetCompleted(ctx, existing.ID, completed, round2(percent))
	}

	if err := s.progress.Upsert(ctx, req.UserID, req.CourseID, completed, round2(percent)); err != nil {
		return nil, err
	}
	return s.progress.FindByUserRefsAndCourse(ctx, resolved.IDForms, req.CourseID)
}

// Get returns the user's progress for one course, synthesizing a zero record
// when none is stored yet. The synthetic record is not persisted.
func (s *ProgressService) Get(ctx context.Context, userRef, courseID string) (*models.Progress, error) {
	resolved, err := s.resolver.Resolve(ctx, userRef)
	if err != nil {
		return nil, err
	}

	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, &NotFoundError{Message: "Course not found"}
	}

	progress, err := s.progress.FindByUserRefsAndCourse(ctx, resolved.IDForms, courseID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		return &models.Progress{
			UserID:          userRef,
			CourseID:        courseID,
			CompletedTopics: []interface{}{},
			Progress:        0,
			LastUpdated:     time.Now().UTC(),
		}, nil
	}
	return progress, nil
}
