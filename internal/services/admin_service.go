package services

import (
	"context"
	"log"

	"elevateu-backend/internal/models"
	"elevateu-backend/internal/repository"
)

type AdminService struct {
	users       *repository.UserRepo
	courses     *repository.CourseRepo
	enrollments *repository.EnrollmentRepo
	progress    *repository.ProgressRepo
	updates     *repository.StudyUpdateRepo
	resolver    *IdentityResolver
	aggregator  *ProgressAggregator
}

func NewAdminService(
	users *repository.UserRepo,
	courses *repository.CourseRepo,
	enrollments *repository.EnrollmentRepo,
	progress *repository.ProgressRepo,
	updates *repository.StudyUpdateRepo,
	resolver *IdentityResolver,
	aggregator *ProgressAggregator,
) *AdminService {
	return &AdminService{
		users:       users,
		courses:     courses,
		enrollments: enrollments,
		progress:    progress,
		updates:     updates,
		resolver:    resolver,
		aggregator:  aggregator,
	}
}

// Stats returns platform-wide totals. Average completion is computed over
// stored progress rows as-is; per-student views recompute from sanitized
// data, but a dashboard aggregate tolerates the drift.
func (s *AdminService) Stats(ctx context.Context) (*models.PlatformStats, error) {
	userCount, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	courseCount, err := s.courses.Count(ctx)
	if err != nil {
		return nil, err
	}
	enrollmentCount, err := s.enrollments.Count(ctx)
	if err != nil {
		return nil, err
	}

	records, err := s.progress.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	avg := 0.0
	if len(records) > 0 {
		total := 0.0
		for _, record := range records {
			total += record.Progress
		}
		avg = total / float64(len(records))
	}

	return &models.PlatformStats{
		TotalUsers:        userCount,
		TotalCourses:      courseCount,
		TotalEnrollments:  enrollmentCount,
		AverageCompletion: round2(avg),
	}, nil
}

// Roster returns every student with enrollment count and average progress.
// Students whose aggregation fails are listed with zeroed aggregates rather
// than failing the whole roster.
func (s *AdminService) Roster(ctx context.Context) ([]models.StudentOverview, error) {
	students, err := s.users.FindStudents(ctx)
	if err != nil {
		return nil, err
	}

	roster := make([]models.StudentOverview, 0, len(students))
	for _, student := range students {
		row := models.StudentOverview{User: student}

		views, _, err := s.aggregator.Aggregate(ctx, resolvedFromUser(&student))
		if err != nil {
			log.Printf("roster aggregation failed for user %s: %v", student.ID.Hex(), err)
			roster = append(roster, row)
			continue
		}

		row.EnrollmentCount = len(views)
		if len(views) > 0 {
			total := 0.0
			for _, view := range views {
				total += view.Progress
			}
			row.AverageProgress = round2(total / float64(len(views)))
		}
		roster = append(roster, row)
	}
	return roster, nil
}

// StudentDetail returns the full admin view of one student.
func (s *AdminService) StudentDetail(ctx context.Context, ref string) (*models.StudentDetail, error) {
	resolved, err := s.resolver.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	views, _, err := s.aggregator.Aggregate(ctx, resolved)
	if err != nil {
		return nil, err
	}

	updates, err := s.updates.FindByUserRefs(ctx, resolved.IDForms, 0)
	if err != nil {
		return nil, err
	}

	return &models.StudentDetail{
		User:         *resolved.User,
		Enrollments:  views,
		StudyUpdates: updates,
	}, nil
}

// resolvedFromUser builds the id-form set for a user record already in hand,
// skipping the lookup the resolver would do.
func resolvedFromUser(user *models.User) *ResolvedUser {
	forms := []string{user.ID.Hex()}
	if user.ExternalID != "" && user.ExternalID != forms[0] {
		forms = append(forms, user.ExternalID)
	}
	return &ResolvedUser{User: user, RawRef: user.ID.Hex(), IDForms: forms}
}
