package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"elevateu-backend/internal/models"
)

// In-memory fakes for the store interfaces the pipeline services consume.

func testOID(seed byte) primitive.ObjectID {
	var b [12]byte
	b[11] = seed
	return primitive.ObjectID(b)
}

type fakeUserStore struct {
	users []models.User
	err   error
}

func (f *fakeUserStore) FindByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if externalID == "" {
		return nil, nil
	}
	for i := range f.users {
		if f.users[i].ExternalID == externalID {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) FindByID(ctx context.Context, hexID string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.users {
		if f.users[i].ID.Hex() == hexID {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

type fakeEnrollmentStore struct {
	enrollments []models.Enrollment
	err         error
}

func (f *fakeEnrollmentStore) FindByUserRefs(ctx context.Context, refs []string) ([]models.Enrollment, error) {
	if f.err != nil {
		return nil, f.err
	}
	refSet := make(map[string]bool, len(refs))
	for _, r := range refs {
		refSet[r] = true
	}
	var out []models.Enrollment
	for _, e := range f.enrollments {
		if refSet[e.UserID] {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeCourseStore struct {
	courses []models.Course
	err     error
}

func (f *fakeCourseStore) FindByID(ctx context.Context, hexID string) (*models.Course, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.courses {
		if f.courses[i].ID.Hex() == hexID {
			c := f.courses[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeCourseStore) FindAll(ctx context.Context) ([]models.Course, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.courses, nil
}

type upsertCall struct {
	userID    string
	courseID  string
	completed []int
	percent   float64
}

type fakeProgressStore struct {
	records []models.Progress
	upserts []upsertCall
	err     error
}

func (f *fakeProgressStore) FindByUserRefsAndCourse(ctx context.Context, refs []string, courseID string) (*models.Progress, error) {
	if f.err != nil {
		return nil, f.err
	}
	refSet := make(map[string]bool, len(refs))
	for _, r := range refs {
		refSet[r] = true
	}
	for i := range f.records {
		if refSet[f.records[i].UserID] && f.records[i].CourseID == courseID {
			p := f.records[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeProgressStore) FindByUserRefs(ctx context.Context, refs []string) ([]models.Progress, error) {
	if f.err != nil {
		return nil, f.err
	}
	refSet := make(map[string]bool, len(refs))
	for _, r := range refs {
		refSet[r] = true
	}
	var out []models.Progress
	for _, p := range f.records {
		if refSet[p.UserID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProgressStore) Upsert(ctx context.Context, userID, courseID string, completedTopics []int, percent float64) error {
	if f.err != nil {
		return f.err
	}
	f.upserts = append(f.upserts, upsertCall{userID: userID, courseID: courseID, completed: completedTopics, percent: percent})
	return nil
}

type fakeSessionStore struct {
	history   []models.SessionMessage
	appended  []models.SessionMessage
	metas     []*models.SessionMeta
	appendErr error
	readErr   error
}

func (f *fakeSessionStore) AppendMessage(ctx context.Context, sessionID string, meta *models.SessionMeta, msg models.SessionMessage) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.metas = append(f.metas, meta)
	f.appended = append(f.appended, msg)
	return nil
}

func (f *fakeSessionStore) RecentMessages(ctx context.Context, sessionID string, n int) ([]models.SessionMessage, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	if len(f.history) > n {
		return f.history[len(f.history)-n:], nil
	}
	return f.history, nil
}

type fakeCompleter struct {
	out string
	err error
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.out, nil
}

var errStoreDown = errors.New("store unavailable")

func topicDocs(n int) []interface{} {
	topics := make([]interface{}, 0, n)
	for i := 0; i < n; i++ {
		topics = append(topics, map[string]interface{}{"title": "Topic"})
	}
	return topics
}
