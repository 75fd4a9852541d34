package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/careclear/prescreen-dashboard/backend/internal/api/middleware"
	"github.com/careclear/prescreen-dashboard/backend/internal/application/services"
	"github.com/careclear/prescreen-dashboard/backend/internal/domain/entities"
	"github.com/careclear/prescreen-dashboard/backend/internal/domain/prescreen"
)

// PrescreenHandler serves the pre-screen list, drill-down, and
// write-back endpoints.
type PrescreenHandler struct {
	service *services.PrescreenService
}

// NewPrescreenHandler creates a new prescreen handler.
func NewPrescreenHandler(service *services.PrescreenService) *PrescreenHandler {
	return &PrescreenHandler{service: service}
}

// ListPrescreens handles GET /api/prescreens
func (h *PrescreenHandler) ListPrescreens(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	from, to, err := parseDateRange(r)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	list, err := h.service.List(r.Context(), services.ListParams{
		ClinicID: session.ClinicID,
		From:     from,
		To:       to,
		Tab:      prescreen.ParseTab(r.URL.Query().Get("tab")),
		Search:   strings.TrimSpace(r.URL.Query().Get("q")),
	})
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, list)
}

// GetPrescreen handles GET /api/prescreens/{id}
func (h *PrescreenHandler) GetPrescreen(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "record ID is required")
		return
	}

	detail, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, detail)
}

// UpdatePrescreen handles PATCH /api/prescreens/{id}
func (h *PrescreenHandler) UpdatePrescreen(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "record ID is required")
		return
	}

	var update entities.RecordUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	actor := session.Email
	if actor == "" {
		actor = session.Subject
	}

	err := h.service.Update(r.Context(), services.UpdateParams{
		ID:       id,
		ClinicID: session.ClinicID,
		Actor:    actor,
		Update:   update,
	})
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusAccepted, map[string]string{
		"status": "accepted",
		"id":     id,
	})
}

// GetAuditTrail handles GET /api/prescreens/{id}/audit
func (h *PrescreenHandler) GetAuditTrail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "record ID is required")
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			respondWithError(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = parsed
	}

	entries, err := h.service.AuditTrail(r.Context(), id, limit)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	if entries == nil {
		entries = []*entities.RecordAudit{}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
	})
}
