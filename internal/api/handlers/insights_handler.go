package handlers

import (
	"net/http"

	"github.com/careclear/prescreen-dashboard/backend/internal/api/middleware"
	"github.com/careclear/prescreen-dashboard/backend/internal/application/services"
)

// InsightsHandler serves the question insights view.
type InsightsHandler struct {
	service *services.InsightsService
}

// NewInsightsHandler creates a new insights handler.
func NewInsightsHandler(service *services.InsightsService) *InsightsHandler {
	return &InsightsHandler{service: service}
}

// GetQuestionInsights handles GET /api/insights/questions
func (h *InsightsHandler) GetQuestionInsights(w http.ResponseWriter, r *http.Request) {
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

	insights, err := h.service.Questions(r.Context(), services.InsightsParams{
		ClinicID: session.ClinicID,
		From:     from,
		To:       to,
	})
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"questions": insights,
	})
}
