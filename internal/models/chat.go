package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionMessage is one entry in a chat session's append-only message log.
type SessionMessage struct {
	Type      string      `bson:"type" json:"type"` // "user" or "agent"
	Content   string      `bson:"content" json:"content"`
	Timestamp time.Time   `bson:"timestamp" json:"timestamp"`
	Action    string      `bson:"action,omitempty" json:"action,omitempty"`
	Data      interface{} `bson:"data,omitempty" json:"data,omitempty"`
}

// ChatSession is the persisted conversation log, keyed by SessionID.
// Created on the first message of a session, appended to afterwards.
type ChatSession struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	SessionID string             `bson:"sessionId" json:"sessionId"`
	UserID    string             `bson:"userId" json:"userId"`
	UserName  string             `bson:"userName" json:"userName"`
	UserEmail string             `bson:"userEmail" json:"userEmail"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
	Messages  []SessionMessage   `bson:"messages" json:"messages"`
}

// SessionMeta is the session-level metadata written on every turn
// (last-write-wins; the message log itself is never rewritten).
type SessionMeta struct {
	UserID    string
	UserName  string
	UserEmail string
}

// TurnRequest is one inbound chat message.
type TurnRequest struct {
	Message   string `json:"message"`
	UserRef   string `json:"userId"`
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
	SessionID string `json:"sessionId"`
}

// TurnResult is the normalized reply envelope for one chat turn.
type TurnResult struct {
	Reply       string          `json:"reply"`
	Action      string          `json:"action"`
	Data        interface{}     `json:"data,omitempty"`
	Recommended []CourseSummary `json:"recommended,omitempty"`
	SessionID   string          `json:"sessionId"`
	ContextUsed bool            `json:"context_used"`
}
