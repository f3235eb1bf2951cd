package services

import (
	"context"

	"elevateu-backend/internal/models"
)

// ContextAssembler composes the aggregator and recommendation selector into
// one LearningContext snapshot per chat turn. The snapshot is ephemeral:
// owned by a single turn, never persisted.
type ContextAssembler struct {
	aggregator  *ProgressAggregator
	recommender *RecommendationSelector
}

func NewContextAssembler(aggregator *ProgressAggregator, recommender *RecommendationSelector) *ContextAssembler {
	return &ContextAssembler{aggregator: aggregator, recommender: recommender}
}

func (a *ContextAssembler) Assemble(ctx context.Context, resolved *ResolvedUser) (*models.LearningContext, error) {
	views, enrollments, err := a.aggregator.Aggregate(ctx, resolved)
	if err != nil {
		return nil, err
	}

	recommendations, err := a.recommender.Recommend(ctx, enrollments, ContextRecommendationLimit)
	if err != nil {
		return nil, err
	}

	totalProgress := 0.0
	completedCourses := 0
	activeCourses := 0
	for _, view := range views {
		totalProgress += view.Progress
		switch {
		case view.Progress >= 100:
			completedCourses++
		case view.Progress > 0:
			activeCourses++
		}
	}

	averageProgress := 0.0
	if len(views) > 0 {
		averageProgress = totalProgress / float64(len(views))
	}
	completionRate := 0.0
	if len(enrollments) > 0 {
		completionRate = float64(completedCourses) / float64(len(enrollments)) * 100
	}

	return &models.LearningContext{
		User: models.ContextUser{
			UserID:    resolved.RawRef,
			Name:      resolved.User.Name,
			Email:     resolved.User.Email,
			Role:      resolved.User.Role,
			CreatedAt: resolved.User.CreatedAt,
		},
		Learning: models.LearningStats{
			TotalEnrollments: len(enrollments),
			AverageProgress:  round2(averageProgress),
			CompletedCourses: completedCourses,
			ActiveCourses:    activeCourses,
			CompletionRate:   round2(completionRate),
			CourseProgress:   views,
		},
		Recommendations: recommendations,
	}, nil
}
