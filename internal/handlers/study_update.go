package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"elevateu-backend/internal/models"
	"elevateu-backend/internal/services"
)

type StudyUpdateHandler struct {
	studyUpdateService *services.StudyUpdateService
}

func NewStudyUpdateHandler(studyUpdateService *services.StudyUpdateService) *StudyUpdateHandler {
	return &StudyUpdateHandler{studyUpdateService: studyUpdateService}
}

func (h *StudyUpdateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.StudyUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	update, err := h.studyUpdateService.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, update)
}

func (h *StudyUpdateHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	updates, err := h.studyUpdateService.ListByUser(r.Context(), chi.URLParam(r, "userRef"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"studyUpdates": updates})
}

func (h *StudyUpdateHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyStudyUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	update, err := h.studyUpdateService.Verify(r.Context(), chi.URLParam(r, "updateID"), &req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, update)
}
