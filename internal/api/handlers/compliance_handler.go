package handlers

import (
	"net/http"

	"github.com/careclear/prescreen-dashboard/backend/internal/api/middleware"
	"github.com/careclear/prescreen-dashboard/backend/internal/application/services"
	"github.com/careclear/prescreen-dashboard/backend/internal/domain/entities"
)

// ComplianceHandler serves the compliance flags view.
type ComplianceHandler struct {
	service *services.ComplianceService
}

// NewComplianceHandler creates a new compliance handler.
func NewComplianceHandler(service *services.ComplianceService) *ComplianceHandler {
	return &ComplianceHandler{service: service}
}

// GetComplianceFlags handles GET /api/compliance
func (h *ComplianceHandler) GetComplianceFlags(w http.ResponseWriter, r *http.Request) {
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

	flags, err := h.service.Flags(r.Context(), services.ComplianceParams{
		ClinicID: session.ClinicID,
		From:     from,
		To:       to,
	})
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	if flags == nil {
		flags = []entities.ComplianceFlag{}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"flags": flags,
	})
}
