package services

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"elevateu-backend/internal/models"
)

// sanitizeTopics coerces a stored topics array to an ordered sequence of
// topic records, discarding anything that is not a document. Topic order is
// preserved: completion markers index into this sequence.
func sanitizeTopics(raw []interface{}) []models.Topic {
	topics := make([]models.Topic, 0, len(raw))
	for _, entry := range raw {
		doc, ok := asDocument(entry)
		if !ok {
			continue
		}
		topic := models.Topic{}
		if s, ok := doc["title"].(string); ok {
			topic.Title = s
		}
		if s, ok := doc["description"].(string); ok {
			topic.Description = s
		}
		topics = append(topics, topic)
	}
	return topics
}

// sanitizeCompletedTopics coerces stored completion markers to a sorted set
// of valid topic indices. Non-integers, negatives, duplicates, and stale
// indices past the end of the topic list are dropped silently.
func sanitizeCompletedTopics(raw []interface{}, totalTopics int) []int {
	seen := make(map[int]bool, len(raw))
	completed := make([]int, 0, len(raw))
	for _, entry := range raw {
		idx, ok := asTopicIndex(entry)
		if !ok || idx < 0 || idx >= totalTopics || seen[idx] {
			continue
		}
		seen[idx] = true
		completed = append(completed, idx)
	}
	sort.Ints(completed)
	return completed
}

func asDocument(v interface{}) (map[string]interface{}, bool) {
	switch doc := v.(type) {
	case map[string]interface{}:
		return doc, true
	case primitive.M:
		return doc, true
	case primitive.D:
		return doc.Map(), true
	}
	return nil, false
}

func asTopicIndex(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		if n == math.Trunc(n) {
			return int(n), true
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i, true
		}
	}
	return 0, false
}

// round2 rounds to 2 decimal places at component boundaries; internal
// computation keeps full precision.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
