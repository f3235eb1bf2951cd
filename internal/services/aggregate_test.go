package services

import (
	"context"
	"testing"
	"time"

	"elevateu-backend/internal/models"
)

func resolvedForTest(userID byte, extID string) *ResolvedUser {
	user := &models.User{ID: testOID(userID), ExternalID: extID}
	forms := []string{user.ID.Hex()}
	if extID != "" {
		forms = append(forms, extID)
	}
	return &ResolvedUser{User: user, RawRef: forms[0], IDForms: forms}
}

func TestAggregate_RecomputesFromSanitizedData(t *testing.T) {
	resolved := resolvedForTest(1, "ext_a")
	courseID := testOID(10)

	courses := &fakeCourseStore{courses: []models.Course{
		{ID: courseID, Title: "Go Basics", Topics: topicDocs(4)},
	}}
	enrollments := &fakeEnrollmentStore{enrollments: []models.Enrollment{
		{UserID: "ext_a", CourseID: courseID.Hex(), EnrolledAt: time.Now()},
	}}
	// Stored percentage drifted to 90; two valid markers of four topics is 50.
	progress := &fakeProgressStore{records: []models.Progress{
		{UserID: "ext_a", CourseID: courseID.Hex(), Progress: 90, CompletedTopics: []interface{}{0, 2}},
	}}

	views, _, err := NewProgressAggregator(enrollments, courses, progress).Aggregate(context.Background(), resolved)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("Expected 1 view, got %d", len(views))
	}
	if views[0].Progress != 50 {
		t.Errorf("Expected 50%%, got %v", views[0].Progress)
	}
	if views[0].TotalTopics != 4 {
		t.Errorf("Expected 4 topics, got %d", views[0].TotalTopics)
	}
}

func TestAggregate_SanitizesCompletionMarkers(t *testing.T) {
	resolved := resolvedForTest(1, "ext_a")
	courseID := testOID(10)

	courses := &fakeCourseStore{courses: []models.Course{
		{ID: courseID, Title: "Go Basics", Topics: topicDocs(3)},
	}}
	enrollments := &fakeEnrollmentStore{enrollments: []models.Enrollment{
		{UserID: "ext_a", CourseID: courseID.Hex()},
	}}
	// Mixed garbage: a numeric string, a duplicate, an out-of-range index, a
	// negative, a fraction, and a non-numeric string.
	progress := &fakeProgressStore{records: []models.Progress{
		{UserID: "ext_a", CourseID: courseID.Hex(), CompletedTopics: []interface{}{"1", 1, 7, -2, 1.5, "junk", 0}},
	}}

	views, _, err := NewProgressAggregator(enrollments, courses, progress).Aggregate(context.Background(), resolved)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	completed := views[0].CompletedTopics
	if len(completed) != 2 || completed[0] != 0 || completed[1] != 1 {
		t.Errorf("Expected [0 1], got %v", completed)
	}
}

func TestAggregate_SkipsOrphanedCourses(t *testing.T) {
	resolved := resolvedForTest(1, "ext_a")
	liveID := testOID(10)

	courses := &fakeCourseStore{courses: []models.Course{
		{ID: liveID, Title: "Alive", Topics: topicDocs(2)},
	}}
	enrollments := &fakeEnrollmentStore{enrollments: []models.Enrollment{
		{UserID: "ext_a", CourseID: testOID(99).Hex()},
		{UserID: "ext_a", CourseID: liveID.Hex()},
	}}
	progress := &fakeProgressStore{}

	views, _, err := NewProgressAggregator(enrollments, courses, progress).Aggregate(context.Background(), resolved)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 1 || views[0].CourseTitle != "Alive" {
		t.Errorf("Expected only the live course, got %+v", views)
	}
}

func TestAggregate_SynthesizesMissingProgress(t *testing.T) {
	resolved := resolvedForTest(1, "ext_a")
	courseID := testOID(10)

	courses := &fakeCourseStore{courses: []models.Course{
		{ID: courseID, Title: "Fresh", Topics: topicDocs(5)},
	}}
	enrollments := &fakeEnrollmentStore{enrollments: []models.Enrollment{
		{UserID: "ext_a", CourseID: courseID.Hex()},
	}}

	views, _, err := NewProgressAggregator(enrollments, courses, &fakeProgressStore{}).Aggregate(context.Background(), resolved)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if views[0].Progress != 0 || len(views[0].CompletedTopics) != 0 {
		t.Errorf("Expected zero progress view, got %+v", views[0])
	}
}

func TestAggregate_DuplicateEnrollmentFirstWins(t *testing.T) {
	user := models.User{ID: testOID(1), ExternalID: "ext_a"}
	resolved := &ResolvedUser{User: &user, RawRef: "ext_a", IDForms: []string{"ext_a", user.ID.Hex()}}
	courseID := testOID(10)

	courses := &fakeCourseStore{courses: []models.Course{
		{ID: courseID, Title: "Dup", Topics: topicDocs(2)},
	}}
	first := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	enrollments := &fakeEnrollmentStore{enrollments: []models.Enrollment{
		{UserID: "ext_a", CourseID: courseID.Hex(), EnrolledAt: first},
		{UserID: user.ID.Hex(), CourseID: courseID.Hex(), EnrolledAt: first.AddDate(0, 1, 0)},
	}}

	views, _, err := NewProgressAggregator(enrollments, courses, &fakeProgressStore{}).Aggregate(context.Background(), resolved)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("Expected collapsed view, got %d", len(views))
	}
	if !views[0].EnrolledAt.Equal(first) {
		t.Errorf("Expected first enrollment to win, got %v", views[0].EnrolledAt)
	}
}

func TestAggregate_NoTopicsMeansZeroPercent(t *testing.T) {
	resolved := resolvedForTest(1, "ext_a")
	courseID := testOID(10)

	courses := &fakeCourseStore{courses: []models.Course{
		{ID: courseID, Title: "Empty", Topics: []interface{}{"not a topic", 42}},
	}}
	enrollments := &fakeEnrollmentStore{enrollments: []models.Enrollment{
		{UserID: "ext_a", CourseID: courseID.Hex()},
	}}
	progress := &fakeProgressStore{records: []models.Progress{
		{UserID: "ext_a", CourseID: courseID.Hex(), CompletedTopics: []interface{}{0, 1}},
	}}

	views, _, err := NewProgressAggregator(enrollments, courses, progress).Aggregate(context.Background(), resolved)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if views[0].Progress != 0 || views[0].TotalTopics != 0 {
		t.Errorf("Expected zeroed view for topicless course, got %+v", views[0])
	}
}

func TestProgressDetails_ShapeMatchesAggregate(t *testing.T) {
	resolved := resolvedForTest(1, "ext_a")
	courseID := testOID(10)

	courses := &fakeCourseStore{courses: []models.Course{
		{ID: courseID, Title: "Go Basics", Topics: topicDocs(4)},
	}}
	enrollments := &fakeEnrollmentStore{enrollments: []models.Enrollment{
		{UserID: "ext_a", CourseID: courseID.Hex()},
	}}
	progress := &fakeProgressStore{records: []models.Progress{
		{UserID: "ext_a", CourseID: courseID.Hex(), CompletedTopics: []interface{}{0}},
	}}

	details, err := NewProgressAggregator(enrollments, courses, progress).ProgressDetails(context.Background(), resolved)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("Expected 1 detail, got %d", len(details))
	}
	d := details[0]
	if d.CourseTitle != "Go Basics" || d.Progress != 25 || d.CompletedTopics != 1 || d.TotalTopics != 4 {
		t.Errorf("Unexpected detail: %+v", d)
	}
}
