package services

import (
	"context"

	"elevateu-backend/internal/models"
)

type enrollmentFinder interface {
	FindByUserRefs(ctx context.Context, refs []string) ([]models.Enrollment, error)
}

type courseFinder interface {
	FindByID(ctx context.Context, hexID string) (*models.Course, error)
}

type progressFinder interface {
	FindByUserRefsAndCourse(ctx context.Context, refs []string, courseID string) (*models.Progress, error)
	FindByUserRefs(ctx context.Context, refs []string) ([]models.Progress, error)
}

// ProgressAggregator joins a resolved user's enrollments with course and
// progress records into normalized CourseProgressViews. Stored data is
// treated as hostile: orphaned course references, missing progress rows,
// malformed completion markers, and duplicate enrollments under different id
// forms all degrade gracefully instead of failing the join.
type ProgressAggregator struct {
	enrollments enrollmentFinder
	courses     courseFinder
	progress    progressFinder
}

func NewProgressAggregator(enrollments enrollmentFinder, courses courseFinder, progress progressFinder) *ProgressAggregator {
	return &ProgressAggregator{
		enrollments: enrollments,
		courses:     courses,
		progress:    progress,
	}
}

// Aggregate returns one view per enrollment, in enrollment order, plus the
// raw enrollment list for callers that need the enrolled-course id set.
// The percentage is recomputed from the sanitized data; the stored progress
// field is not trusted because the store invariant has drifted historically.
func (a *ProgressAggregator) Aggregate(ctx context.Context, resolved *ResolvedUser) ([]models.CourseProgressView, []models.Enrollment, error) {
	enrollments, err := a.enrollments.FindByUserRefs(ctx, resolved.IDForms)
	if err != nil {
		return nil, nil, err
	}

	views := make([]models.CourseProgressView, 0, len(enrollments))
	seen := make(map[string]bool, len(enrollments))
	for _, enrollment := range enrollments {
		// Duplicate enrollments exist where the same user enrolled under
		// two id forms. First one wins.
		if seen[enrollment.CourseID] {
			continue
		}

		course, err := a.courses.FindByID(ctx, enrollment.CourseID)
		if err != nil {
			return nil, nil, err
		}
		if course == nil {
			// Orphaned reference, not an error.
			continue
		}
		seen[enrollment.CourseID] = true

		topics := sanitizeTopics(course.Topics)

		progress, err := a.progress.FindByUserRefsAndCourse(ctx, resolved.IDForms, enrollment.CourseID)
		if err != nil {
			return nil, nil, err
		}
		var rawCompleted []interface{}
		if progress != nil {
			rawCompleted = progress.CompletedTopics
		}
		completed := sanitizeCompletedTopics(rawCompleted, len(topics))

		percent := 0.0
		if len(topics) > 0 {
			percent = float64(len(completed)) / float64(len(topics)) * 100
		}

		views = append(views, models.CourseProgressView{
			CourseTitle:     course.Title,
			CourseID:        course.ID.Hex(),
			Progress:        round2(percent),
			CompletedTopics: completed,
			TotalTopics:     len(topics),
			Topics:          topics,
			EnrolledAt:      enrollment.EnrolledAt,
		})
	}

	return views, enrollments, nil
}

// ProgressDetails is the fresh per-course summary used by the get_progress
// chat action. Built from the same join as Aggregate so the two can never
// disagree on shape.
func (a *ProgressAggregator) ProgressDetails(ctx context.Context, resolved *ResolvedUser) ([]models.ProgressDetail, error) {
	views, _, err := a.Aggregate(ctx, resolved)
	if err != nil {
		return nil, err
	}

	details := make([]models.ProgressDetail, 0, len(views))
	for _, view := range views {
		details = append(details, models.ProgressDetail{
			CourseTitle:     view.CourseTitle,
			Progress:        view.Progress,
			CompletedTopics: len(view.CompletedTopics),
			TotalTopics:     view.TotalTopics,
		})
	}
	return details, nil
}
