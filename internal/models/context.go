package models

import "time"

// CourseProgressView is the normalized join of one enrollment with its course
// and progress records. Consumed by both API responses and the chat context.
type CourseProgressView struct {
	CourseTitle     string    `json:"courseTitle"`
	CourseID        string    `json:"courseId"`
	Progress        float64   `json:"progress"`
	CompletedTopics []int     `json:"completedTopics"`
	TotalTopics     int       `json:"totalTopics"`
	Topics          []Topic   `json:"topics"`
	EnrolledAt      time.Time `json:"enrolledAt"`
}

type ContextUser struct {
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type LearningStats struct {
	TotalEnrollments int                  `json:"totalEnrollments"`
	AverageProgress  float64              `json:"averageProgress"`
	CompletedCourses int                  `json:"completedCourses"`
	ActiveCourses    int                  `json:"activeCourses"`
	CompletionRate   float64              `json:"completionRate"`
	CourseProgress   []CourseProgressView `json:"courseProgress"`
}

// LearningContext is the ephemeral per-turn snapshot of a user's learning
// state. It is built fresh for each turn and never persisted.
type LearningContext struct {
	User            ContextUser     `json:"user"`
	Learning        LearningStats   `json:"learning"`
	Recommendations []CourseSummary `json:"recommendations"`
}
