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

func TestComplianceHandler_GetComplianceFlags(t *testing.T) {
	handler := handlers.NewComplianceHandler(services.NewComplianceService(records.NewMockAdapter()))

	t.Run("returns flagged records with signals", func(t *testing.T) {
		req := authedRequest(http.MethodGet, "/api/compliance", "")
		w := httptest.NewRecorder()

		handler.GetComplianceFlags(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var payload struct {
			Flags []struct {
				Record struct {
					Eligibility string `json:"eligibility"`
				} `json:"record"`
				Signals []struct {
					Label string `json:"label"`
					Value string `json:"value"`
				} `json:"signals"`
			} `json:"flags"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
		require.NotEmpty(t, payload.Flags)

		for _, flag := range payload.Flags {
			assert.Contains(t, []string{"REVIEW", "UNSUITABLE"}, flag.Record.Eligibility)
		}
	})

	t.Run("rejects missing session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/compliance", nil)
		w := httptest.NewRecorder()

		handler.GetComplianceFlags(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
