package services

import (
	"context"
	"log"

	"elevateu-backend/internal/models"
	"elevateu-backend/internal/repository"
)

type StudyUpdateService struct {
	updates  *repository.StudyUpdateRepo
	courses  *repository.CourseRepo
	resolver *IdentityResolver
}

func NewStudyUpdateService(updates *repository.StudyUpdateRepo, courses *repository.CourseRepo, resolver *IdentityResolver) *StudyUpdateService {
	return &StudyUpdateService{updates: updates, courses: courses, resolver: resolver}
}

func (s *StudyUpdateService) Create(ctx context.Context, req *models.StudyUpdateRequest) (*models.StudyUpdate, error) {
	fieldErrors := make(map[string]string)
	if req.UserID == "" {
		fieldErrors["userId"] = "User ID is required"
	}
	if req.Content == "" {
		fieldErrors["content"] = "Content is required"
	}
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	update := &models.StudyUpdate{
		UserID:   req.UserID,
		CourseID: req.CourseID,
		Content:  req.Content,
	}
	if err := s.updates.Create(ctx, update); err != nil {
		return nil, err
	}
	return update, nil
}

// ListByUser returns a user's study updates newest first, with course detail
// attached where the referenced course still exists.
func (s *StudyUpdateService) ListByUser(ctx context.Context, ref string) ([]models.StudyUpdate, error) {
	refs := []string{ref}
	if resolved, err := s.resolver.Resolve(ctx, ref); err == nil {
		refs = resolved.IDForms
	}

	updates, err := s.updates.FindByUserRefs(ctx, refs, 0)
	if err != nil {
		return nil, err
	}

	for i := range updates {
		if updates[i].CourseID == "" {
			continue
		}
		course, err := s.courses.FindByID(ctx, updates[i].CourseID)
		if err != nil {
			log.Printf("failed to attach course to study update: %v", err)
			continue
		}
		updates[i].Course = course
	}
	return updates, nil
}

func (s *StudyUpdateService) Verify(ctx context.Context, hexID string, req *models.VerifyStudyUpdateRequest) (*models.StudyUpdate, error) {
	update, err := s.updates.Verify(ctx, hexID, req.AdminComment)
	if err != nil {
		return nil, err
	}
	if update == nil {
		return nil, &NotFoundError{Message: "Study update not found"}
	}
	return update, nil
}
