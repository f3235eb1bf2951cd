package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"elevateu-backend/internal/models"
)

const apologyReply = "I apologize, but I encountered an error processing your request. Please try again in a moment."

const noProgressReply = "You haven't started any courses yet. Would you like me to recommend some?"

const allEnrolledReply = "You're already enrolled in all available courses! Great job! 🎉"

// recentSessionCacheSize bounds the in-process conversation recency cache.
// The cache is a best-effort aid; the chat_sessions collection stays
// authoritative.
const recentSessionCacheSize = 512

type sessionStore interface {
	AppendMessage(ctx context.Context, sessionID string, meta *models.SessionMeta, msg models.SessionMessage) error
	RecentMessages(ctx context.Context, sessionID string, n int) ([]models.SessionMessage, error)
}

type progressUpdater interface {
	FindByUserRefsAndCourse(ctx context.Context, refs []string, courseID string) (*models.Progress, error)
	Upsert(ctx context.Context, userID, courseID string, completedTopics []int, percent float64) error
}

// ChatbotService orchestrates one chat turn: build context, generate a
// structured reply (model-backed with rule-based fallback), dispatch the
// requested action, persist the exchange. A turn is never left unanswered:
// every internal failure degrades to a fixed apology reply.
type ChatbotService struct {
	resolver     *IdentityResolver
	assembler    *ContextAssembler
	aggregator   *ProgressAggregator
	recommender  *RecommendationSelector
	courses      courseFinder
	progress     progressUpdater
	sessions     sessionStore
	model        ResponseGenerator
	rules        ResponseGenerator
	historyLimit int
	recent       *lru.Cache[string, []models.SessionMessage]
}

// NewChatbotService wires the turn orchestrator. Pass a nil model to run
// rule-based only.
func NewChatbotService(
	resolver *IdentityResolver,
	assembler *ContextAssembler,
	aggregator *ProgressAggregator,
	recommender *RecommendationSelector,
	courses courseFinder,
	progress progressUpdater,
	sessions sessionStore,
	model ResponseGenerator,
	historyLimit int,
) *ChatbotService {
	// lru.New only errors on a non-positive size.
	recent, _ := lru.New[string, []models.SessionMessage](recentSessionCacheSize)

	if historyLimit <= 0 {
		historyLimit = 5
	}

	return &ChatbotService{
		resolver:     resolver,
		assembler:    assembler,
		aggregator:   aggregator,
		recommender:  recommender,
		courses:      courses,
		progress:     progress,
		sessions:     sessions,
		model:        model,
		rules:        NewRuleResponder(),
		historyLimit: historyLimit,
		recent:       recent,
	}
}

// HandleTurn is the single entry point of the chat core. It returns an error
// only for invalid input; everything downstream is contained.
func (s *ChatbotService) HandleTurn(ctx context.Context, req *models.TurnRequest) (result *models.TurnResult, err error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, &ValidationError{Fields: map[string]string{"message": "Message is required"}}
	}
	if req.SessionID == "" {
		req.SessionID = "session_" + uuid.NewString()
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("chat turn panic recovered: %v", r)
			result = s.apology(req.SessionID)
			err = nil
		}
	}()

	// Prior turns, before this message is appended.
	history := s.recentHistory(ctx, req.SessionID)

	userMsg := models.SessionMessage{
		Type:      "user",
		Content:   req.Message,
		Timestamp: time.Now().UTC(),
	}
	meta := &models.SessionMeta{UserID: req.UserRef, UserName: req.UserName, UserEmail: req.UserEmail}
	if err := s.sessions.AppendMessage(ctx, req.SessionID, meta, userMsg); err != nil {
		log.Printf("failed to persist user message: %v", err)
		return s.apology(req.SessionID), nil
	}

	// Context is best-effort: an unknown user or a failed join downgrades
	// to an unpersonalized turn, it does not fail the turn.
	var resolved *ResolvedUser
	var lctx *models.LearningContext
	if req.UserRef != "" {
		r, rerr := s.resolver.Resolve(ctx, req.UserRef)
		if rerr != nil {
			log.Printf("could not resolve user %q: %v", req.UserRef, rerr)
		} else {
			resolved = r
			c, cerr := s.assembler.Assemble(ctx, resolved)
			if cerr != nil {
				log.Printf("failed to build learning context: %v", cerr)
			} else {
				lctx = c
			}
		}
	}

	resp := s.generate(ctx, req, lctx, history)

	result, derr := s.dispatch(ctx, resolved, req, resp)
	if derr != nil {
		log.Printf("action dispatch failed: %v", derr)
		result = s.apology(req.SessionID)
	}
	result.ContextUsed = lctx != nil

	agentMsg := models.SessionMessage{
		Type:      "agent",
		Content:   result.Reply,
		Timestamp: time.Now().UTC(),
		Action:    result.Action,
		Data:      result.Data,
	}
	if err := s.sessions.AppendMessage(ctx, req.SessionID, nil, agentMsg); err != nil {
		log.Printf("failed to persist agent message: %v", err)
	}
	s.cacheRecent(req.SessionID, history, userMsg, agentMsg)

	return result, nil
}

func (s *ChatbotService) generate(ctx context.Context, req *models.TurnRequest, lctx *models.LearningContext, history []models.SessionMessage) *AgentResponse {
	if s.model != nil {
		resp, err := s.model.Generate(ctx, req, lctx, history)
		if err == nil {
			return resp
		}
		log.Printf("completion service unavailable, falling back to rules: %v", err)
	}

	resp, _ := s.rules.Generate(ctx, req, lctx, history)
	return resp
}

func (s *ChatbotService) dispatch(ctx context.Context, resolved *ResolvedUser, req *models.TurnRequest, resp *AgentResponse) (*models.TurnResult, error) {
	switch resp.Action {
	case ActionGetProgress:
		return s.handleGetProgress(ctx, resolved, req, resp.Reply)
	case ActionRecommendCourses:
		return s.handleRecommend(ctx, resolved, req, resp.Reply)
	case ActionUpdateProgress:
		return s.handleUpdateProgress(ctx, resolved, req, resp)
	default:
		return &models.TurnResult{
			Reply:     resp.Reply,
			Action:    ActionNone,
			SessionID: req.SessionID,
		}, nil
	}
}

// handleGetProgress re-fetches progress rather than reusing the turn's
// LearningContext, so a concurrent update is reflected.
func (s *ChatbotService) handleGetProgress(ctx context.Context, resolved *ResolvedUser, req *models.TurnRequest, baseReply string) (*models.TurnResult, error) {
	if resolved == nil {
		return &models.TurnResult{
			Reply:     noProgressReply,
			Action:    ActionGetProgress,
			SessionID: req.SessionID,
		}, nil
	}

	details, err := s.aggregator.ProgressDetails(ctx, resolved)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return &models.TurnResult{
			Reply:     noProgressReply,
			Action:    ActionGetProgress,
			SessionID: req.SessionID,
		}, nil
	}

	var b strings.Builder
	b.WriteString("Here's your learning progress:\n\n")
	for _, detail := range details {
		marker := "🎯"
		switch {
		case detail.Progress >= 80:
			marker = "✅"
		case detail.Progress >= 50:
			marker = "📚"
		}
		fmt.Fprintf(&b, "%s **%s**: %.1f%% complete (%d/%d topics)\n",
			marker, detail.CourseTitle, detail.Progress, detail.CompletedTopics, detail.TotalTopics)
	}

	return &models.TurnResult{
		Reply:     baseReply + "\n\n" + b.String(),
		Action:    ActionGetProgress,
		Data:      details,
		SessionID: req.SessionID,
	}, nil
}

func (s *ChatbotService) handleRecommend(ctx context.Context, resolved *ResolvedUser, req *models.TurnRequest, baseReply string) (*models.TurnResult, error) {
	recommendations, err := s.recommender.RecommendForUser(ctx, resolved, ReplyRecommendationLimit)
	if err != nil {
		return nil, err
	}

	if len(recommendations) == 0 {
		return &models.TurnResult{
			Reply:     allEnrolledReply,
			Action:    ActionRecommendCourses,
			SessionID: req.SessionID,
		}, nil
	}

	var b strings.Builder
	b.WriteString("Here are some courses you might like:\n\n")
	for _, rec := range recommendations {
		description := rec.Description
		if len(description) > 100 {
			description = description[:100] + "..."
		}
		fmt.Fprintf(&b, "📘 **%s**\n   %s | %s\n   %s\n\n", rec.Title, rec.Instructor, rec.Duration, description)
	}

	return &models.TurnResult{
		Reply:       baseReply + "\n\n" + b.String(),
		Action:      ActionRecommendCourses,
		Recommended: recommendations,
		SessionID:   req.SessionID,
	}, nil
}

func (s *ChatbotService) handleUpdateProgress(ctx context.Context, resolved *ResolvedUser, req *models.TurnRequest, resp *AgentResponse) (*models.TurnResult, error) {
	courseID, _ := resp.Parameters["courseId"].(string)
	rawTopics, _ := resp.Parameters["completedTopics"].([]interface{})

	if resolved == nil || courseID == "" {
		return &models.TurnResult{
			Reply:     resp.Reply + "\n\nI need to know which course and topics to update. Could you tell me the course and the topics you completed?",
			Action:    ActionUpdateProgress,
			SessionID: req.SessionID,
		}, nil
	}

	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return &models.TurnResult{
			Reply:     resp.Reply + "\n\nI couldn't find that course, so nothing was updated.",
			Action:    ActionUpdateProgress,
			SessionID: req.SessionID,
		}, nil
	}

	topics := sanitizeTopics(course.Topics)
	completed := sanitizeCompletedTopics(rawTopics, len(topics))
	percent := 0.0
	if len(topics) > 0 {
		percent = float64(len(completed)) / float64(len(topics)) * 100
	}

	// Update the row an existing id form already keys, so duplicates are
	// not minted under yet another form.
	userKey := resolved.RawRef
	existing, err := s.progress.FindByUserRefsAndCourse(ctx, resolved.IDForms, courseID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		userKey = existing.UserID
	}
	if err := s.progress.Upsert(ctx, userKey, courseID, completed, round2(percent)); err != nil {
		return nil, err
	}

	reply := fmt.Sprintf("%s\n\nYour progress for %s is now %.1f%% (%d/%d topics).",
		resp.Reply, course.Title, percent, len(completed), len(topics))

	return &models.TurnResult{
		Reply:  reply,
		Action: ActionUpdateProgress,
		Data: map[string]interface{}{
			"courseId":        courseID,
			"progress":        round2(percent),
			"completedTopics": len(completed),
			"totalTopics":     len(topics),
		},
		SessionID: req.SessionID,
	}, nil
}

func (s *ChatbotService) recentHistory(ctx context.Context, sessionID string) []models.SessionMessage {
	if msgs, ok := s.recent.Get(sessionID); ok {
		return msgs
	}

	msgs, err := s.sessions.RecentMessages(ctx, sessionID, s.historyLimit)
	if err != nil {
		log.Printf("failed to load conversation history: %v", err)
		return nil
	}
	return msgs
}

func (s *ChatbotService) cacheRecent(sessionID string, history []models.SessionMessage, latest ...models.SessionMessage) {
	combined := make([]models.SessionMessage, 0, len(history)+len(latest))
	combined = append(combined, history...)
	combined = append(combined, latest...)
	if len(combined) > s.historyLimit {
		combined = combined[len(combined)-s.historyLimit:]
	}
	s.recent.Add(sessionID, combined)
}

func (s *ChatbotService) apology(sessionID string) *models.TurnResult {
	return &models.TurnResult{
		Reply:     apologyReply,
		Action:    ActionNone,
		SessionID: sessionID,
	}
}
