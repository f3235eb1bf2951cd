package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a platform account. ExternalID is the identity-provider id and may
// be absent on legacy records, so lookups must accept either id form.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	ExternalID string             `bson:"externalId,omitempty" json:"externalId,omitempty"`
	Name       string             `bson:"name" json:"name"`
	Email      string             `bson:"email" json:"email"`
	Role       string             `bson:"role" json:"role"` // "student" or "admin"
	CreatedAt  time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
}

type CreateUserRequest struct {
	ExternalID string `json:"externalId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
}

type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Role  *string `json:"role"`
}
