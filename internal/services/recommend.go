package services

import (
	"context"

	"elevateu-backend/internal/models"
)

// Recommendation limits: 5 when feeding the chat context, 3 for a direct
// recommendation reply.
const (
	ContextRecommendationLimit = 5
	ReplyRecommendationLimit   = 3
)

type catalogProvider interface {
	FindAll(ctx context.Context) ([]models.Course, error)
}

// RecommendationSelector picks catalog courses the user is not enrolled in.
// No ranking: catalog iteration order breaks ties.
type RecommendationSelector struct {
	catalog     catalogProvider
	enrollments enrollmentFinder
}

func NewRecommendationSelector(catalog catalogProvider, enrollments enrollmentFinder) *RecommendationSelector {
	return &RecommendationSelector{catalog: catalog, enrollments: enrollments}
}

// Recommend computes catalog minus enrolled course ids, compared as strings
// to sidestep id-type mismatches, truncated to limit.
func (s *RecommendationSelector) Recommend(ctx context.Context, enrollments []models.Enrollment, limit int) ([]models.CourseSummary, error) {
	courses, err := s.catalog.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	enrolled := make(map[string]bool, len(enrollments))
	for _, e := range enrollments {
		enrolled[e.CourseID] = true
	}

	recommendations := make([]models.CourseSummary, 0, limit)
	for _, course := range courses {
		if enrolled[course.ID.Hex()] {
			continue
		}
		recommendations = append(recommendations, summarizeCourse(course))
		if len(recommendations) == limit {
			break
		}
	}
	return recommendations, nil
}

// RecommendForUser fetches the user's enrollments first. A nil resolved user
// gets the plain catalog head: recommendations stay useful without identity.
func (s *RecommendationSelector) RecommendForUser(ctx context.Context, resolved *ResolvedUser, limit int) ([]models.CourseSummary, error) {
	var enrollments []models.Enrollment
	if resolved != nil {
		var err error
		enrollments, err = s.enrollments.FindByUserRefs(ctx, resolved.IDForms)
		if err != nil {
			return nil, err
		}
	}
	return s.Recommend(ctx, enrollments, limit)
}

func summarizeCourse(course models.Course) models.CourseSummary {
	instructor := course.Instructor
	if instructor == "" {
		instructor = "TBA"
	}
	duration := course.Duration
	if duration == "" {
		duration = "Self-paced"
	}
	return models.CourseSummary{
		CourseID:    course.ID.Hex(),
		Title:       course.Title,
		Description: course.Description,
		Instructor:  instructor,
		Duration:    duration,
		TopicCount:  len(sanitizeTopics(course.Topics)),
	}
}
