package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"elevateu-backend/internal/models"
)

const (
	catalogKey = "catalog:courses"
	catalogTTL = 5 * time.Minute
)

type courseLister interface {
	FindAll(ctx context.Context) ([]models.Course, error)
}

// CatalogCache fronts the course catalog with a short-TTL redis entry.
// Every cache failure falls through to the store; a nil redis client
// disables caching entirely.
type CatalogCache struct {
	redis   *redis.Client
	courses courseLister
}

func NewCatalogCache(redisClient *redis.Client, courses courseLister) *CatalogCache {
	return &CatalogCache{redis: redisClient, courses: courses}
}

func (c *CatalogCache) FindAll(ctx context.Context) ([]models.Course, error) {
	if c.redis != nil {
		raw, err := c.redis.Get(ctx, catalogKey).Result()
		if err == nil {
			var courses []models.Course
			if jsonErr := json.Unmarshal([]byte(raw), &courses); jsonErr == nil {
				return courses, nil
			}
			// Corrupt entry. Drop it and refill from the store.
			c.redis.Del(ctx, catalogKey)
		} else if err != redis.Nil {
			log.Printf("catalog cache read failed: %v", err)
		}
	}

	courses, err := c.courses.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	if c.redis != nil {
		if raw, err := json.Marshal(courses); err == nil {
			if err := c.redis.Set(ctx, catalogKey, raw, catalogTTL).Err(); err != nil {
				log.Printf("catalog cache write failed: %v", err)
			}
		}
	}
	return courses, nil
}

// Invalidate drops the cached catalog. Called after any course write.
func (c *CatalogCache) Invalidate(ctx context.Context) {
	if c.redis == nil {
		return
	}
	if err := c.redis.Del(ctx, catalogKey).Err(); err != nil {
		log.Printf("catalog cache invalidation failed: %v", err)
	}
}
