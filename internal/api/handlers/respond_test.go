package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/careclear/prescreen-dashboard/backend/pkg/errors"
)

func TestParseDateRange(t *testing.T) {
	t.Run("accepts RFC 3339 timestamps", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/prescreens?from=2026-08-01T00:00:00Z&to=2026-08-15T12:30:00Z", nil)

		from, to, err := parseDateRange(req)

		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), from)
		assert.Equal(t, time.Date(2026, 8, 15, 12, 30, 0, 0, time.UTC), to)
	})

	t.Run("extends plain to date to end of day", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/prescreens?from=2026-08-01&to=2026-08-15", nil)

		from, to, err := parseDateRange(req)

		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), from)
		assert.True(t, to.After(time.Date(2026, 8, 15, 23, 59, 59, 0, time.UTC)))
		assert.True(t, to.Before(time.Date(2026, 8, 16, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("allows open-ended ranges", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/prescreens", nil)

		from, to, err := parseDateRange(req)

		require.NoError(t, err)
		assert.True(t, from.IsZero())
		assert.True(t, to.IsZero())
	})

	t.Run("rejects garbage", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/prescreens?from=last-tuesday", nil)

		_, _, err := parseDateRange(req)

		assert.Error(t, err)
	})

	t.Run("rejects inverted range", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/prescreens?from=2026-08-15&to=2026-08-01", nil)

		_, _, err := parseDateRange(req)

		assert.Error(t, err)
	})
}

func TestRespondWithServiceError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", apperrors.NewNotFoundError("record missing"), http.StatusNotFound},
		{"validation", apperrors.NewValidationError("bad input"), http.StatusBadRequest},
		{"unauthorized", apperrors.NewUnauthorizedError("nope"), http.StatusUnauthorized},
		{"rate limited", apperrors.NewRateLimitedError("slow down", nil), http.StatusTooManyRequests},
		{"external", apperrors.NewExternalError("store down", nil), http.StatusBadGateway},
		{"unknown", assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			respondWithServiceError(w, tc.err)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}
