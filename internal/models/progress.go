package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Progress is per-user-per-course completion state. CompletedTopics is kept
// untyped: stored entries may be ints, floats, or numeric strings, and stale
// entries may point past the end of the course's topic list. Sanitization
// happens at aggregation time, not at decode time.
type Progress struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	UserID          string             `bson:"userId" json:"userId"`
	CourseID        string             `bson:"courseId" json:"courseId"`
	CompletedTopics []interface{}      `bson:"completedTopics" json:"completedTopics"`
	Progress        float64            `bson:"progress" json:"progress"`
	LastUpdated     time.Time          `bson:"lastUpdated" json:"lastUpdated"`
}

type UpdateProgressRequest struct {
	UserID          string        `json:"userId"`
	CourseID        string        `json:"courseId"`
	CompletedTopics []interface{} `json:"completedTopics"`
}

// ProgressDetail is the human-facing per-course summary returned as chat
// action data.
type ProgressDetail struct {
	CourseTitle     string  `json:"courseTitle"`
	Progress        float64 `json:"progress"`
	CompletedTopics int     `json:"completedTopics"`
	TotalTopics     int     `json:"totalTopics"`
}
