package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careclear/prescreen-dashboard/backend/internal/adapters/records"
	"github.com/careclear/prescreen-dashboard/backend/internal/api/handlers"
	"github.com/careclear/prescreen-dashboard/backend/internal/application/services"
)

func TestFunnelHandler_GetFunnel(t *testing.T) {
	handler := handlers.NewFunnelHandler(services.NewFunnelService(records.NewMockAdapter()))

	t.Run("returns stages and aggregates", func(t *testing.T) {
		req := authedRequest(http.MethodGet, "/api/funnel", "")
		w := httptest.NewRecorder()

		handler.GetFunnel(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var payload struct {
			Stages []struct {
				Name  string `json:"name"`
				Count int    `json:"count"`
			} `json:"stages"`
			FailReasons    []interface{} `json:"failReasons"`
			TreatmentStats []interface{} `json:"treatmentStats"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
		assert.NotEmpty(t, payload.Stages)
		assert.NotEmpty(t, payload.FailReasons)
		assert.NotEmpty(t, payload.TreatmentStats)
	})

	t.Run("rejects invalid date range", func(t *testing.T) {
		req := authedRequest(http.MethodGet, "/api/funnel?to=yesterday", "")
		w := httptest.NewRecorder()

		handler.GetFunnel(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects missing session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/funnel", nil)
		w := httptest.NewRecorder()

		handler.GetFunnel(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
