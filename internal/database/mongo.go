package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// NewMongoDatabase connects to MongoDB and returns a handle on the named
// database. Connection pool sizing mirrors what the platform runs with in
// production.
func NewMongoDatabase(mongoURI, dbName string) (*mongo.Client, *mongo.Database, error) {
	opts := options.Client().
		ApplyURI(mongoURI).
		SetServerSelectionTimeout(5 * time.Second).
		SetConnectTimeout(5 * time.Second).
		SetMaxPoolSize(50).
		SetMinPoolSize(10)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client, client.Database(dbName), nil
}

// EnsureIndexes creates the indexes the chat subsystem relies on. Sessions
// are keyed uniquely by sessionId; progress is intentionally NOT unique on
// (userId, courseId) because historical data contains duplicates under
// different id forms.
func EnsureIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := db.Collection("chat_sessions").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    map[string]interface{}{"sessionId": 1},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create chat_sessions index: %w", err)
	}

	for _, coll := range []string{"enrollments", "progress"} {
		_, err := db.Collection(coll).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: map[string]interface{}{"userId": 1},
		})
		if err != nil {
			return fmt.Errorf("failed to create %s index: %w", coll, err)
		}
	}

	return nil
}
