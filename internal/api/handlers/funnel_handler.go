package handlers

import (
	"net/http"

	"github.com/careclear/prescreen-dashboard/backend/internal/api/middleware"
	"github.com/careclear/prescreen-dashboard/backend/internal/application/services"
)

// FunnelHandler serves the drop-off funnel view.
type FunnelHandler struct {
	service *services.FunnelService
}

// NewFunnelHandler creates a new funnel handler.
func NewFunnelHandler(service *services.FunnelService) *FunnelHandler {
	return &FunnelHandler{service: service}
}

// GetFunnel handles GET /api/funnel
func (h *FunnelHandler) GetFunnel(w http.ResponseWriter, r *http.Request) {
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

	funnel, err := h.service.Build(r.Context(), services.FunnelParams{
		ClinicID: session.ClinicID,
		From:     from,
		To:       to,
	})
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, funnel)
}
