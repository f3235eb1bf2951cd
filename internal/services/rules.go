package services

import (
	"context"
	"fmt"
	"strings"

	"elevateu-backend/internal/models"
)

// RuleResponder is the deterministic fallback used whenever the completion
// service is unconfigured, times out, or errors. It classifies the message
// by keyword and reads the LearningContext directly; it never fails.
type RuleResponder struct{}

func NewRuleResponder() *RuleResponder {
	return &RuleResponder{}
}

func (g *RuleResponder) Generate(ctx context.Context, req *models.TurnRequest, lctx *models.LearningContext, history []models.SessionMessage) (*AgentResponse, error) {
	message := strings.ToLower(req.Message)

	name := "there"
	if lctx != nil && lctx.User.Name != "" {
		name = lctx.User.Name
	} else if req.UserName != "" && req.UserName != "User" {
		name = req.UserName
	}

	var reply string
	action := ActionNone

	switch {
	case isGreeting(message):
		reply = fmt.Sprintf("Hello %s! I'm your ElevateU learning assistant. I can help you track your progress, recommend courses, and keep you motivated. How can I assist you today?", name)

	case containsAny(message, "progress", "status", "how am i doing"):
		action = ActionGetProgress
		if lctx != nil {
			reply = fmt.Sprintf("Your current progress: %.1f%% average across %d course(s).", lctx.Learning.AverageProgress, lctx.Learning.TotalEnrollments)
			switch {
			case lctx.Learning.AverageProgress < 30:
				reply += " You're just getting started! Keep up the effort and consider setting daily learning goals."
			case lctx.Learning.AverageProgress < 70:
				reply += " Great progress! You're making steady advancement. Keep the momentum going!"
			default:
				reply += " Excellent work! You're mastering your courses well. Consider exploring new topics!"
			}
		} else {
			reply = "Let me check your learning progress!"
		}

	case containsAny(message, "recommend", "suggest", "what should i learn", "next course"):
		action = ActionRecommendCourses
		reply = "I'll find some great courses for you!"

	case containsAny(message, "courses", "course", "enrolled", "learning"):
		if lctx != nil && lctx.Learning.TotalEnrollments > 0 {
			reply = fmt.Sprintf("You're enrolled in %d course(s) with an average progress of %.1f%%. Would you like me to show you your detailed progress or recommend some new courses?", lctx.Learning.TotalEnrollments, lctx.Learning.AverageProgress)
		} else {
			reply = "You're not enrolled in any courses yet. I'd be happy to recommend some courses based on your interests!"
		}

	default:
		reply = fmt.Sprintf("Thanks for your message, %s! I'm here to help with your learning journey. I can assist with course information, progress tracking, and personalized recommendations. What would you like to know?", name)
	}

	return &AgentResponse{
		Reply:      reply,
		Action:     action,
		Parameters: map[string]interface{}{},
	}, nil
}

// isGreeting matches whole words only: "hi" must not fire on "something".
func isGreeting(message string) bool {
	for _, word := range strings.Fields(message) {
		word = strings.Trim(word, ".,!?")
		switch word {
		case "hello", "hi", "hey", "greetings":
			return true
		}
	}
	return false
}

func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
