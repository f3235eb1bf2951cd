package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"elevateu-backend/internal/models"
	"elevateu-backend/internal/services"
)

type ProgressHandler struct {
	progressService *services.ProgressService
}

func NewProgressHandler(progressService *services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

func (h *ProgressHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	progress, err := h.progressService.Update(r.Context(), &req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

func (h *ProgressHandler) Get(w http.ResponseWriter, r *http.Request) {
	progress, err := h.progressService.Get(r.Context(), chi.URLParam(r, "userRef"), chi.URLParam(r, "courseID"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}
