package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Enrollment links a user to a course. UserID is whatever id form the client
// sent at enrollment time (internal id, external id, or raw string), so
// readers must match against every known form of a user.
type Enrollment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	UserID     string             `bson:"userId" json:"userId"`
	CourseID   string             `bson:"courseId" json:"courseId"`
	EnrolledAt time.Time          `bson:"enrolledAt" json:"enrolledAt"`
	Status     string             `bson:"status" json:"status"`
}

type EnrollRequest struct {
	UserID   string `json:"userId"`
	CourseID string `json:"courseId"`
}
