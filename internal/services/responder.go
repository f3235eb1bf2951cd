package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"elevateu-backend/internal/models"
)

// Chat actions the agent may request. Anything else is coerced to none.
const (
	ActionNone             = "none"
	ActionGetProgress      = "get_progress"
	ActionRecommendCourses = "recommend_courses"
	ActionUpdateProgress   = "update_progress"
)

var validActions = map[string]bool{
	ActionNone:             true,
	ActionGetProgress:      true,
	ActionRecommendCourses: true,
	ActionUpdateProgress:   true,
}

type completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// AgentResponse is the output contract the model is instructed to follow.
// Model output is untrusted input: it is validated at the parse boundary and
// any deviation degrades to a plain reply, never a failed turn.
type AgentResponse struct {
	Reply      string                 `json:"reply"`
	Action     string                 `json:"action"`
	Parameters map[string]interface{} `json:"parameters"`
}

// ResponseGenerator produces the agent's base reply and requested action for
// a turn. Two variants exist: model-backed and rule-based. Both consume the
// same LearningContext; the aggregation logic is never duplicated.
type ResponseGenerator interface {
	Generate(ctx context.Context, req *models.TurnRequest, lctx *models.LearningContext, history []models.SessionMessage) (*AgentResponse, error)
}

// ModelResponder asks the completion service for a structured reply.
type ModelResponder struct {
	completer completer
}

func NewModelResponder(completer completer) *ModelResponder {
	return &ModelResponder{completer: completer}
}

func (g *ModelResponder) Generate(ctx context.Context, req *models.TurnRequest, lctx *models.LearningContext, history []models.SessionMessage) (*AgentResponse, error) {
	prompt := buildAgentPrompt(req.Message, lctx, history)
	raw, err := g.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return parseAgentResponse(raw), nil
}

func buildAgentPrompt(message string, lctx *models.LearningContext, history []models.SessionMessage) string {
	contextJSON := "No user context available"
	if lctx != nil {
		if data, err := json.MarshalIndent(lctx, "", "  "); err == nil {
			contextJSON = string(data)
		}
	}

	historyText := "No prior conversation."
	if len(history) > 0 {
		var lines []string
		for _, msg := range history {
			lines = append(lines, fmt.Sprintf("%s: %s", msg.Type, msg.Content))
		}
		historyText = strings.Join(lines, "\n")
	}

	var b strings.Builder

	// Layer 1: role
	b.WriteString("You are ElevateU Agent, a friendly learning assistant for an online learning platform.\n")
	b.WriteString("You track progress, suggest next steps, and keep learners motivated. You do not teach course content yourself.\n\n")

	// Layer 2: grounding data
	b.WriteString("USER CONTEXT:\n")
	b.WriteString(contextJSON)
	b.WriteString("\n\nCONVERSATION HISTORY (oldest first):\n")
	b.WriteString(historyText)
	b.WriteString("\n\nUSER MESSAGE: \"")
	b.WriteString(message)
	b.WriteString("\"\n\n")

	// Layer 3: behavior
	b.WriteString("RESPONSE REQUIREMENTS:\n")
	b.WriteString("- Be conversational and helpful\n")
	b.WriteString("- For progress-related questions, use action: \"get_progress\"\n")
	b.WriteString("- For course recommendations, use action: \"recommend_courses\"\n")
	b.WriteString("- To record topics the user says they finished, use action: \"update_progress\" with parameters courseId and completedTopics\n")
	b.WriteString("- For everything else, answer conversationally with action: \"none\"\n\n")

	// Layer 4: output contract
	b.WriteString("CRITICAL: You MUST respond with VALID JSON only in this exact format:\n")
	b.WriteString("{\n")
	b.WriteString("  \"reply\": \"Your helpful response here\",\n")
	b.WriteString("  \"action\": \"none|get_progress|recommend_courses|update_progress\",\n")
	b.WriteString("  \"parameters\": {}\n")
	b.WriteString("}\n")

	return b.String()
}

var codeFenceRe = regexp.MustCompile("```(?:json)?\\s*")

func stripCodeFences(s string) string {
	return strings.TrimSpace(codeFenceRe.ReplaceAllString(s, ""))
}

// parseAgentResponse validates raw model output against the contract.
// Unparseable output becomes a plain reply with action "none"; an unknown
// action value is coerced to "none". Parsing never fails a turn.
func parseAgentResponse(raw string) *AgentResponse {
	cleaned := stripCodeFences(raw)

	parsed := &AgentResponse{}
	if err := json.Unmarshal([]byte(cleaned), parsed); err != nil || strings.TrimSpace(parsed.Reply) == "" {
		return &AgentResponse{
			Reply:      cleaned,
			Action:     ActionNone,
			Parameters: map[string]interface{}{},
		}
	}

	if !validActions[parsed.Action] {
		parsed.Action = ActionNone
	}
	if parsed.Parameters == nil {
		parsed.Parameters = map[string]interface{}{}
	}
	return parsed
}
