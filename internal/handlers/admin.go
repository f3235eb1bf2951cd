package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"elevateu-backend/internal/services"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.Stats(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) Roster(w http.ResponseWriter, r *http.Request) {
	roster, err := h.adminService.Roster(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"students": roster})
}

func (h *AdminHandler) StudentDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.adminService.StudentDetail(r.Context(), chi.URLParam(r, "userRef"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}
