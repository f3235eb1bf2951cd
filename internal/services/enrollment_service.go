package services

import (
	"context"

	"elevateu-backend/internal/models"
	"elevateu-backend/internal/repository"
)

type EnrollmentService struct {
	enrollments *repository.EnrollmentRepo
	courses     *repository.CourseRepo
	progress    *repository.ProgressRepo
	resolver    *IdentityResolver
	aggregator  *ProgressAggregator
}

func NewEnrollmentService(
	enrollments *repository.EnrollmentRepo,
	courses *repository.CourseRepo,
	progress *repository.ProgressRepo,
	resolver *IdentityResolver,
	aggregator *ProgressAggregator,
) *EnrollmentService {
	return &EnrollmentService{
		enrollments: enrollments,
		courses:     courses,
		progress:    progress,
		resolver:    resolver,
		aggregator:  aggregator,
	}
}

// Enroll is idempotent per (userId, courseId) as given by the client: a
// repeat request returns the existing enrollment. A zero progress row is
// initialized alongside a new enrollment unless one already exists under any
// of the user's id forms.
func (s *EnrollmentService) Enroll(ctx context.Context, req *models.EnrollRequest) (*models.Enrollment, bool, error) {
	fieldErrors := make(map[string]string)
	if req.UserID == "" {
		fieldErrors["userId"] = "User ID is required"
	}
	if req.CourseID == "" {
		fieldErrors["courseId"] = "Course ID is required"
	}
	if len(fieldErrors) > 0 {
		return nil, false, &ValidationError{Fields: fieldErrors}
	}

	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		return nil, false, err
	}
	if course == nil {
		return nil, false, &NotFoundError{Message: "Course not found"}
	}

	existing, err := s.enrollments.FindByUserAndCourse(ctx, req.UserID, req.CourseID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	enrollment := &models.Enrollment{
		UserID:   req.UserID,
		CourseID: req.CourseID,
	}
	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		return nil, false, err
	}

	refs := []string{req.UserID}
	if resolved, rerr := s.resolver.Resolve(ctx, req.UserID); rerr == nil {
		refs = resolved.IDForms
	}
	progressRow, err := s.progress.FindByUserRefsAndCourse(ctx, refs, req.CourseID)
	if err != nil {
		return nil, false, err
	}
	if progressRow == nil {
		if err := s.progress.Upsert(ctx, req.UserID, req.CourseID, []int{}, 0); err != nil {
			return nil, false, err
		}
	}
	return enrollment, true, nil
}

// ListByUser returns the user's enrollments as normalized progress views.
func (s *EnrollmentService) ListByUser(ctx context.Context, ref string) ([]models.CourseProgressView, error) {
	resolved, err := s.resolver.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	views, _, err := s.aggregator.Aggregate(ctx, resolved)
	return views, err
}
