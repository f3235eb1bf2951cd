package services

import (
	"context"
	"strings"
	"testing"

	"elevateu-backend/internal/models"
)

func TestParseAgentResponse(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantReply  string
		wantAction string
	}{
		{
			name:       "plain JSON",
			raw:        `{"reply": "Hi!", "action": "get_progress", "parameters": {}}`,
			wantReply:  "Hi!",
			wantAction: ActionGetProgress,
		},
		{
			name:       "fenced JSON",
			raw:        "```json\n{\"reply\": \"Sure\", \"action\": \"recommend_courses\", \"parameters\": {}}\n```",
			wantReply:  "Sure",
			wantAction: ActionRecommendCourses,
		},
		{
			name:       "raw text falls back to plain reply",
			raw:        "I could not produce JSON, sorry.",
			wantReply:  "I could not produce JSON, sorry.",
			wantAction: ActionNone,
		},
		{
			name:       "unknown action coerced to none",
			raw:        `{"reply": "ok", "action": "delete_everything", "parameters": {}}`,
			wantReply:  "ok",
			wantAction: ActionNone,
		},
		{
			name:       "empty reply treated as malformed",
			raw:        `{"reply": "", "action": "get_progress"}`,
			wantReply:  `{"reply": "", "action": "get_progress"}`,
			wantAction: ActionNone,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := parseAgentResponse(tc.raw)
			if resp.Reply != tc.wantReply {
				t.Errorf("Reply: expected %q, got %q", tc.wantReply, resp.Reply)
			}
			if resp.Action != tc.wantAction {
				t.Errorf("Action: expected %q, got %q", tc.wantAction, resp.Action)
			}
			if resp.Parameters == nil {
				t.Error("Parameters must never be nil")
			}
		})
	}
}

func TestBuildAgentPrompt(t *testing.T) {
	history := []models.SessionMessage{
		{Type: "user", Content: "hello"},
		{Type: "agent", Content: "hi there"},
	}

	prompt := buildAgentPrompt("show my progress", nil, history)

	if !strings.Contains(prompt, "No user context available") {
		t.Error("Expected placeholder for missing context")
	}
	if !strings.Contains(prompt, "user: hello") || !strings.Contains(prompt, "agent: hi there") {
		t.Error("Expected history lines in prompt")
	}
	if !strings.Contains(prompt, `USER MESSAGE: "show my progress"`) {
		t.Error("Expected user message embedded in prompt")
	}
	if !strings.Contains(prompt, "VALID JSON") {
		t.Error("Expected output contract in prompt")
	}
}

func TestModelResponder_PropagatesCompleterError(t *testing.T) {
	responder := NewModelResponder(&fakeCompleter{err: errStoreDown})

	_, err := responder.Generate(context.Background(), &models.TurnRequest{Message: "hi"}, nil, nil)
	if err == nil {
		t.Fatal("Expected error from completer")
	}
}
