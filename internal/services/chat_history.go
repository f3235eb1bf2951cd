package services

import (
	"context"

	"elevateu-backend/internal/models"
	"elevateu-backend/internal/repository"
)

const userSessionLimit = 10

// ChatHistoryService serves the read side of the conversation store.
type ChatHistoryService struct {
	sessions *repository.ChatSessionRepo
	resolver *IdentityResolver
}

func NewChatHistoryService(sessions *repository.ChatSessionRepo, resolver *IdentityResolver) *ChatHistoryService {
	return &ChatHistoryService{sessions: sessions, resolver: resolver}
}

func (s *ChatHistoryService) SessionHistory(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	session, err := s.sessions.FindBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, &NotFoundError{Message: "Chat session not found"}
	}
	return session, nil
}

// UserSessions lists the user's most recent sessions, trimmed to a preview.
// Sessions are keyed by whatever ref the client sent at chat time, so the
// raw ref is tried alongside the resolver's canonical forms.
func (s *ChatHistoryService) UserSessions(ctx context.Context, ref string) ([]models.ChatSession, error) {
	refs := []string{ref}
	if resolved, err := s.resolver.Resolve(ctx, ref); err == nil {
		refs = resolved.IDForms
	}

	var sessions []models.ChatSession
	for _, form := range refs {
		found, err := s.sessions.FindRecentByUser(ctx, form, userSessionLimit)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, found...)
		if len(sessions) >= userSessionLimit {
			break
		}
	}
	if len(sessions) > userSessionLimit {
		sessions = sessions[:userSessionLimit]
	}
	return sessions, nil
}
