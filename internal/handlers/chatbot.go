package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"elevateu-backend/internal/models"
	"elevateu-backend/internal/services"
)

type ChatbotHandler struct {
	chatbot *services.ChatbotService
	history *services.ChatHistoryService
}

func NewChatbotHandler(chatbot *services.ChatbotService, history *services.ChatHistoryService) *ChatbotHandler {
	return &ChatbotHandler{chatbot: chatbot, history: history}
}

func (h *ChatbotHandler) Message(w http.ResponseWriter, r *http.Request) {
	var req models.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	result, err := h.chatbot.HandleTurn(r.Context(), &req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *ChatbotHandler) SessionHistory(w http.ResponseWriter, r *http.Request) {
	session, err := h.history.SessionHistory(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *ChatbotHandler) UserSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.history.UserSessions(r.Context(), chi.URLParam(r, "userRef"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}
