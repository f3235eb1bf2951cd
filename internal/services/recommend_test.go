package services

import (
	"context"
	"testing"

	"elevateu-backend/internal/models"
)

func catalogOf(n int) *fakeCourseStore {
	store := &fakeCourseStore{}
	for i := 0; i < n; i++ {
		store.courses = append(store.courses, models.Course{
			ID:     testOID(byte(50 + i)),
			Title:  "Course",
			Topics: topicDocs(3),
		})
	}
	return store
}

func TestRecommend_ExcludesEnrolledCourses(t *testing.T) {
	catalog := catalogOf(4)
	enrolled := []models.Enrollment{
		{UserID: "u", CourseID: catalog.courses[0].ID.Hex()},
		{UserID: "u", CourseID: catalog.courses[2].ID.Hex()},
	}

	selector := NewRecommendationSelector(catalog, &fakeEnrollmentStore{})
	recs, err := selector.Recommend(context.Background(), enrolled, ContextRecommendationLimit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(recs) != 2 {
		t.Fatalf("Expected 2 recommendations, got %d", len(recs))
	}
	want := []string{catalog.courses[1].ID.Hex(), catalog.courses[3].ID.Hex()}
	for i, rec := range recs {
		if rec.CourseID != want[i] {
			t.Errorf("Recommendation %d: expected %s, got %s", i, want[i], rec.CourseID)
		}
	}
}

func TestRecommend_RespectsLimit(t *testing.T) {
	selector := NewRecommendationSelector(catalogOf(6), &fakeEnrollmentStore{})

	recs, err := selector.Recommend(context.Background(), nil, ReplyRecommendationLimit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != ReplyRecommendationLimit {
		t.Errorf("Expected %d recommendations, got %d", ReplyRecommendationLimit, len(recs))
	}
}

func TestRecommend_EmptyCatalog(t *testing.T) {
	selector := NewRecommendationSelector(&fakeCourseStore{}, &fakeEnrollmentStore{})

	recs, err := selector.Recommend(context.Background(), nil, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("Expected no recommendations, got %d", len(recs))
	}
}

func TestRecommendForUser_NilResolvedGetsCatalogHead(t *testing.T) {
	catalog := catalogOf(4)
	enrollments := &fakeEnrollmentStore{enrollments: []models.Enrollment{
		{UserID: "someone", CourseID: catalog.courses[0].ID.Hex()},
	}}
	selector := NewRecommendationSelector(catalog, enrollments)

	recs, err := selector.RecommendForUser(context.Background(), nil, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Without identity there is no enrollment filter.
	if len(recs) != 2 || recs[0].CourseID != catalog.courses[0].ID.Hex() {
		t.Errorf("Expected plain catalog head, got %+v", recs)
	}
}

func TestSummarizeCourse_Defaults(t *testing.T) {
	course := models.Course{ID: testOID(9), Title: "Bare", Topics: topicDocs(2)}

	summary := summarizeCourse(course)
	if summary.Instructor != "TBA" {
		t.Errorf("Expected TBA instructor, got %q", summary.Instructor)
	}
	if summary.Duration != "Self-paced" {
		t.Errorf("Expected Self-paced duration, got %q", summary.Duration)
	}
	if summary.TopicCount != 2 {
		t.Errorf("Expected 2 topics, got %d", summary.TopicCount)
	}
}
