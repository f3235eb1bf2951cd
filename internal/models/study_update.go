package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StudyUpdate is a free-text progress note a student posts for admin review.
type StudyUpdate struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	UserID       string             `bson:"userId" json:"userId"`
	CourseID     string             `bson:"courseId" json:"courseId"`
	Content      string             `bson:"content" json:"content"`
	Date         time.Time          `bson:"date" json:"date"`
	Verified     bool               `bson:"verified" json:"verified"`
	AdminComment *string            `bson:"adminComment" json:"adminComment"`

	Course *Course `bson:"-" json:"course,omitempty"`
}

type StudyUpdateRequest struct {
	UserID   string `json:"userId"`
	CourseID string `json:"courseId"`
	Content  string `json:"content"`
}

type VerifyStudyUpdateRequest struct {
	AdminComment *string `json:"adminComment"`
}
