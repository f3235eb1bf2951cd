package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"elevateu-backend/internal/models"
)

type ChatSessionRepo struct {
	db *mongo.Database
}

func NewChatSessionRepo(db *mongo.Database) *ChatSessionRepo {
	return &ChatSessionRepo{db: db}
}

func (r *ChatSessionRepo) collection() *mongo.Collection {
	return r.db.Collection("chat_sessions")
}

// AppendMessage atomically appends one message to a session's log, creating
// the session document on first use. Metadata is last-write-wins; the message
// array is only ever pushed to, so concurrent turns on the same session
// cannot drop each other's messages.
func (r *ChatSessionRepo) AppendMessage(ctx context.Context, sessionID string, meta *models.SessionMeta, msg models.SessionMessage) error {
	update := bson.M{
		"$push": bson.M{"messages": msg},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	if meta != nil {
		update["$set"] = bson.M{
			"userId":    meta.UserID,
			"userName":  meta.UserName,
			"userEmail": meta.UserEmail,
			"updatedAt": time.Now().UTC(),
		}
	}

	_, err := r.collection().UpdateOne(ctx,
		bson.M{"sessionId": sessionID},
		update,
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to append chat message: %w", err)
	}
	return nil
}

func (r *ChatSessionRepo) FindBySessionID(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	session := &models.ChatSession{}
	err := r.collection().FindOne(ctx, bson.M{"sessionId": sessionID}).Decode(session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find chat session: %w", err)
	}
	return session, nil
}

// RecentMessages returns the last n messages of a session, oldest first.
// Missing sessions yield an empty history.
func (r *ChatSessionRepo) RecentMessages(ctx context.Context, sessionID string, n int) ([]models.SessionMessage, error) {
	session := &models.ChatSession{}
	opts := options.FindOne().SetProjection(bson.M{"messages": bson.M{"$slice": -n}})
	err := r.collection().FindOne(ctx, bson.M{"sessionId": sessionID}, opts).Decode(session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recent messages: %w", err)
	}
	return session.Messages, nil
}

// FindRecentByUser lists a user's sessions newest first, message logs
// trimmed to the opening message for preview.
func (r *ChatSessionRepo) FindRecentByUser(ctx context.Context, userID string, limit int64) ([]models.ChatSession, error) {
	opts := options.Find().
		SetSort(bson.M{"updatedAt": -1}).
		SetLimit(limit).
		SetProjection(bson.M{
			"sessionId": 1,
			"userName":  1,
			"updatedAt": 1,
			"messages":  bson.M{"$slice": 1},
		})
	cursor, err := r.collection().Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []models.ChatSession
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode chat sessions: %w", err)
	}
	return sessions, nil
}
