package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Topic is a single unit of a course. Topic order is significant: progress
// records reference topics by index.
type Topic struct {
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}

// Course as stored. Topics is kept untyped because legacy documents contain
// non-record entries that must be discarded, not decoded into.
type Course struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Instructor  string             `bson:"instructor" json:"instructor"`
	Duration    string             `bson:"duration" json:"duration"`
	Topics      []interface{}      `bson:"topics" json:"topics"`
	CreatedAt   time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`

	// Derived, list endpoint only.
	EnrollmentCount int `bson:"-" json:"enrollmentCount,omitempty"`
}

type CourseRequest struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Instructor  string        `json:"instructor"`
	Duration    string        `json:"duration"`
	Topics      []interface{} `json:"topics"`
}

// CourseSummary is the catalog entry shape used for recommendations.
type CourseSummary struct {
	CourseID    string `json:"courseId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Instructor  string `json:"instructor"`
	Duration    string `json:"duration"`
	TopicCount  int    `json:"topicCount"`
}
