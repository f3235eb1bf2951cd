package services

import (
	"context"
	"strings"
	"testing"

	"elevateu-backend/internal/models"
)

func TestRuleResponder_Intents(t *testing.T) {
	responder := NewRuleResponder()

	tests := []struct {
		name       string
		message    string
		wantAction string
	}{
		{"greeting", "Hello there!", ActionNone},
		{"progress", "show me my progress", ActionGetProgress},
		{"status", "what's my status?", ActionGetProgress},
		{"recommend", "can you recommend something", ActionRecommendCourses},
		{"suggest", "suggest a course please", ActionRecommendCourses},
		{"courses", "what courses am I enrolled in", ActionNone},
		{"fallback", "tell me a joke", ActionNone},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := responder.Generate(context.Background(), &models.TurnRequest{Message: tc.message}, nil, nil)
			if err != nil {
				t.Fatalf("rule responder must never error, got %v", err)
			}
			if resp.Action != tc.wantAction {
				t.Errorf("Expected action %q, got %q", tc.wantAction, resp.Action)
			}
			if resp.Reply == "" {
				t.Error("Expected non-empty reply")
			}
		})
	}
}

func TestRuleResponder_UsesContextName(t *testing.T) {
	responder := NewRuleResponder()
	lctx := &models.LearningContext{User: models.ContextUser{Name: "Priya"}}

	resp, err := responder.Generate(context.Background(), &models.TurnRequest{Message: "hi"}, lctx, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(resp.Reply, "Priya") {
		t.Errorf("Expected greeting to address the user, got %q", resp.Reply)
	}
}

func TestRuleResponder_ProgressTiers(t *testing.T) {
	responder := NewRuleResponder()

	tests := []struct {
		name     string
		average  float64
		fragment string
	}{
		{"early", 10, "just getting started"},
		{"middle", 50, "steady advancement"},
		{"late", 85, "Excellent work"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lctx := &models.LearningContext{
				Learning: models.LearningStats{AverageProgress: tc.average, TotalEnrollments: 2},
			}
			resp, err := responder.Generate(context.Background(), &models.TurnRequest{Message: "my progress"}, lctx, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(resp.Reply, tc.fragment) {
				t.Errorf("Expected %q in reply, got %q", tc.fragment, resp.Reply)
			}
		})
	}
}
