package services

import (
	"context"
	"fmt"

	"elevateu-backend/internal/models"
	"elevateu-backend/internal/repository"
)

type catalogInvalidator interface {
	Invalidate(ctx context.Context)
}

type CourseService struct {
	courses     *repository.CourseRepo
	enrollments *repository.EnrollmentRepo
	progress    *repository.ProgressRepo
	catalog     catalogProvider
	invalidator catalogInvalidator
}

func NewCourseService(
	courses *repository.CourseRepo,
	enrollments *repository.EnrollmentRepo,
	progress *repository.ProgressRepo,
	catalog catalogProvider,
	invalidator catalogInvalidator,
) *CourseService {
	return &CourseService{
		courses:     courses,
		enrollments: enrollments,
		progress:    progress,
		catalog:     catalog,
		invalidator: invalidator,
	}
}

// List returns the catalog with live per-course enrollment counts. Course
// documents come from the catalog cache; counts are always fresh.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	courses, err := s.catalog.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	for i := range courses {
		n, err := s.enrollments.CountByCourseID(ctx, courses[i].ID.Hex())
		if err != nil {
			return nil, err
		}
		courses[i].EnrollmentCount = int(n)
	}
	return courses, nil
}

func (s *CourseService) Get(ctx context.Context, hexID string) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, hexID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, &NotFoundError{Message: "Course not found"}
	}
	return course, nil
}

func (s *CourseService) Create(ctx context.Context, req *models.CourseRequest) (*models.Course, error) {
	if err := validateCourseRequest(req); err != nil {
		return nil, err
	}

	course := &models.Course{
		Title:       req.Title,
		Description: req.Description,
		Instructor:  req.Instructor,
		Duration:    req.Duration,
		Topics:      req.Topics,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}
	s.invalidator.Invalidate(ctx)
	return course, nil
}

func (s *CourseService) Update(ctx context.Context, hexID string, req *models.CourseRequest) (*models.Course, error) {
	if err := validateCourseRequest(req); err != nil {
		return nil, err
	}

	course, err := s.courses.Update(ctx, hexID, req)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, &NotFoundError{Message: "Course not found"}
	}
	s.invalidator.Invalidate(ctx)
	return course, nil
}

// Delete removes the course and cascades to its enrollments and progress
// rows. The cascade is best-effort sequential; a partial failure leaves
// orphaned rows, which readers already tolerate.
func (s *CourseService) Delete(ctx context.Context, hexID string) error {
	existed, err := s.courses.Delete(ctx, hexID)
	if err != nil {
		return err
	}
	if !existed {
		return &NotFoundError{Message: "Course not found"}
	}

	if err := s.enrollments.DeleteByCourseID(ctx, hexID); err != nil {
		return fmt.Errorf("course deleted but enrollment cascade failed: %w", err)
	}
	if err := s.progress.DeleteByCourseID(ctx, hexID); err != nil {
		return fmt.Errorf("course deleted but progress cascade failed: %w", err)
	}
	s.invalidator.Invalidate(ctx)
	return nil
}

func validateCourseRequest(req *models.CourseRequest) error {
	fieldErrors := make(map[string]string)
	if req.Title == "" {
		fieldErrors["title"] = "Title is required"
	}
	if req.Description == "" {
		fieldErrors["description"] = "Description is required"
	}
	if len(fieldErrors) > 0 {
		return &ValidationError{Fields: fieldErrors}
	}
	return nil
}
