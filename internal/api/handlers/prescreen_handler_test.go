package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careclear/prescreen-dashboard/backend/internal/adapters/records"
	"github.com/careclear/prescreen-dashboard/backend/internal/api/handlers"
	"github.com/careclear/prescreen-dashboard/backend/internal/api/middleware"
	"github.com/careclear/prescreen-dashboard/backend/internal/application/services"
)

func authedRequest(method, target string, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	session := &middleware.Session{Subject: "user-1", Email: "nurse@glowclinic.example", ClinicID: "glow"}
	return req.WithContext(middleware.WithSession(req.Context(), session))
}

func newPrescreenHandler() *handlers.PrescreenHandler {
	service := services.NewPrescreenService(records.NewMockAdapter(), nil, nil)
	return handlers.NewPrescreenHandler(service)
}

func TestPrescreenHandler_ListPrescreens(t *testing.T) {
	handler := newPrescreenHandler()

	t.Run("returns records with counts", func(t *testing.T) {
		req := authedRequest(http.MethodGet, "/api/prescreens", "")
		w := httptest.NewRecorder()

		handler.ListPrescreens(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var payload struct {
			Records []map[string]interface{} `json:"records"`
			Counts  struct {
				Total int `json:"total"`
			} `json:"counts"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
		assert.NotEmpty(t, payload.Records)
		assert.Equal(t, len(payload.Records), payload.Counts.Total)
	})

	t.Run("filters by tab", func(t *testing.T) {
		req := authedRequest(http.MethodGet, "/api/prescreens?tab=unsuitable", "")
		w := httptest.NewRecorder()

		handler.ListPrescreens(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var payload struct {
			Records []struct {
				Eligibility string `json:"eligibility"`
			} `json:"records"`
			Counts struct {
				Total int `json:"total"`
			} `json:"counts"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
		require.NotEmpty(t, payload.Records)
		for _, record := range payload.Records {
			assert.Equal(t, "UNSUITABLE", record.Eligibility)
		}
		// Counts always cover the whole range, not just the active tab
		assert.Greater(t, payload.Counts.Total, len(payload.Records))
	})

	t.Run("rejects invalid date range", func(t *testing.T) {
		req := authedRequest(http.MethodGet, "/api/prescreens?from=not-a-date", "")
		w := httptest.NewRecorder()

		handler.ListPrescreens(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects missing session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/prescreens", nil)
		w := httptest.NewRecorder()

		handler.ListPrescreens(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestPrescreenHandler_GetPrescreen(t *testing.T) {
	handler := newPrescreenHandler()

	t.Run("returns drill-down detail", func(t *testing.T) {
		req := authedRequest(http.MethodGet, "/api/prescreens/rec002", "")
		req.SetPathValue("id", "rec002")
		w := httptest.NewRecorder()

		handler.GetPrescreen(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var payload struct {
			Record struct {
				ID          string `json:"id"`
				Eligibility string `json:"eligibility"`
			} `json:"record"`
			Signals []struct {
				Label string `json:"label"`
			} `json:"signals"`
			Fields map[string]interface{} `json:"fields"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
		assert.Equal(t, "rec002", payload.Record.ID)
		assert.Equal(t, "REVIEW", payload.Record.Eligibility)
		assert.NotEmpty(t, payload.Signals)
		assert.NotEmpty(t, payload.Fields)
	})

	t.Run("returns 404 for unknown record", func(t *testing.T) {
		req := authedRequest(http.MethodGet, "/api/prescreens/rec999", "")
		req.SetPathValue("id", "rec999")
		w := httptest.NewRecorder()

		handler.GetPrescreen(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPrescreenHandler_UpdatePrescreen(t *testing.T) {
	handler := newPrescreenHandler()

	t.Run("accepts partial update", func(t *testing.T) {
		req := authedRequest(http.MethodPatch, "/api/prescreens/rec001", `{"bookingStatus":"Contacted"}`)
		req.SetPathValue("id", "rec001")
		w := httptest.NewRecorder()

		handler.UpdatePrescreen(w, req)

		require.Equal(t, http.StatusAccepted, w.Code)

		var payload map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
		assert.Equal(t, "accepted", payload["status"])
		assert.Equal(t, "rec001", payload["id"])
	})

	t.Run("rejects empty update", func(t *testing.T) {
		req := authedRequest(http.MethodPatch, "/api/prescreens/rec001", `{}`)
		req.SetPathValue("id", "rec001")
		w := httptest.NewRecorder()

		handler.UpdatePrescreen(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		req := authedRequest(http.MethodPatch, "/api/prescreens/rec001", `{`)
		req.SetPathValue("id", "rec001")
		w := httptest.NewRecorder()

		handler.UpdatePrescreen(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("returns 404 for unknown record", func(t *testing.T) {
		req := authedRequest(http.MethodPatch, "/api/prescreens/rec999", `{"bookingStatus":"Contacted"}`)
		req.SetPathValue("id", "rec999")
		w := httptest.NewRecorder()

		handler.UpdatePrescreen(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPrescreenHandler_GetAuditTrail(t *testing.T) {
	handler := newPrescreenHandler()

	t.Run("returns empty trail when auditing is disabled", func(t *testing.T) {
		req := authedRequest(http.MethodGet, "/api/prescreens/rec001/audit", "")
		req.SetPathValue("id", "rec001")
		w := httptest.NewRecorder()

		handler.GetAuditTrail(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var payload struct {
			Entries []interface{} `json:"entries"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
		assert.Empty(t, payload.Entries)
	})

	t.Run("rejects out-of-range limit", func(t *testing.T) {
		req := authedRequest(http.MethodGet, "/api/prescreens/rec001/audit?limit=0", "")
		req.SetPathValue("id", "rec001")
		w := httptest.NewRecorder()

		handler.GetAuditTrail(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
