package services

import (
	"context"
	"testing"

	"elevateu-backend/internal/models"
)

func newAssemblerForTest(courses *fakeCourseStore, enrollments *fakeEnrollmentStore, progress *fakeProgressStore) *ContextAssembler {
	aggregator := NewProgressAggregator(enrollments, courses, progress)
	recommender := NewRecommendationSelector(courses, enrollments)
	return NewContextAssembler(aggregator, recommender)
}

func TestAssemble_ZeroEnrollments(t *testing.T) {
	resolved := resolvedForTest(1, "ext_a")
	assembler := newAssemblerForTest(catalogOf(2), &fakeEnrollmentStore{}, &fakeProgressStore{})

	lctx, err := assembler.Assemble(context.Background(), resolved)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stats := lctx.Learning
	if stats.TotalEnrollments != 0 || stats.AverageProgress != 0 || stats.CompletionRate != 0 {
		t.Errorf("Expected zeroed stats, got %+v", stats)
	}
	if len(lctx.Recommendations) != 2 {
		t.Errorf("Expected full catalog recommended, got %d", len(lctx.Recommendations))
	}
}

func TestAssemble_ComputesStats(t *testing.T) {
	resolved := resolvedForTest(1, "ext_a")
	done := testOID(20)
	active := testOID(21)
	untouched := testOID(22)

	courses := &fakeCourseStore{courses: []models.Course{
		{ID: done, Title: "Done", Topics: topicDocs(2)},
		{ID: active, Title: "Active", Topics: topicDocs(4)},
		{ID: untouched, Title: "Untouched", Topics: topicDocs(3)},
	}}
	enrollments := &fakeEnrollmentStore{enrollments: []models.Enrollment{
		{UserID: "ext_a", CourseID: done.Hex()},
		{UserID: "ext_a", CourseID: active.Hex()},
		{UserID: "ext_a", CourseID: untouched.Hex()},
	}}
	progress := &fakeProgressStore{records: []models.Progress{
		{UserID: "ext_a", CourseID: done.Hex(), CompletedTopics: []interface{}{0, 1}},
		{UserID: "ext_a", CourseID: active.Hex(), CompletedTopics: []interface{}{0}},
	}}

	lctx, err := newAssemblerForTest(courses, enrollments, progress).Assemble(context.Background(), resolved)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stats := lctx.Learning
	if stats.CompletedCourses != 1 {
		t.Errorf("Expected 1 completed course, got %d", stats.CompletedCourses)
	}
	if stats.ActiveCourses != 1 {
		t.Errorf("Expected 1 active course, got %d", stats.ActiveCourses)
	}
	// (100 + 25 + 0) / 3 = 41.67 after rounding.
	if stats.AverageProgress != 41.67 {
		t.Errorf("Expected average 41.67, got %v", stats.AverageProgress)
	}
	if stats.CompletionRate != 33.33 {
		t.Errorf("Expected completion rate 33.33, got %v", stats.CompletionRate)
	}
	if lctx.User.UserID != resolved.RawRef {
		t.Errorf("Expected context keyed by raw ref, got %q", lctx.User.UserID)
	}
	// All three enrolled courses excluded from recommendations.
	if len(lctx.Recommendations) != 0 {
		t.Errorf("Expected no recommendations, got %d", len(lctx.Recommendations))
	}
}
