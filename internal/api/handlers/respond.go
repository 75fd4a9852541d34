package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/careclear/prescreen-dashboard/backend/pkg/errors"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithServiceError maps typed application errors onto HTTP
// statuses. Internal and unknown errors are masked with a generic
// message so store details never leak to the dashboard.
func respondWithServiceError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
			return
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
			return
		case apperrors.ErrorTypeConflict:
			respondWithError(w, http.StatusConflict, appErr.Message)
			return
		case apperrors.ErrorTypeUnauthorized:
			respondWithError(w, http.StatusUnauthorized, appErr.Message)
			return
		case apperrors.ErrorTypeRateLimited:
			respondWithError(w, http.StatusTooManyRequests, appErr.Message)
			return
		case apperrors.ErrorTypeExternal:
			respondWithError(w, http.StatusBadGateway, "upstream record store unavailable")
			return
		}
	}
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}

// parseDateRange reads the optional from/to query parameters. Both
// accept RFC 3339 timestamps or plain dates; a plain "to" date is
// extended to the end of that day so ranges stay inclusive.
func parseDateRange(r *http.Request) (time.Time, time.Time, error) {
	var from, to time.Time

	if raw := strings.TrimSpace(r.URL.Query().Get("from")); raw != "" {
		parsed, _, err := parseFlexibleTime(raw)
		if err != nil {
			return from, to, apperrors.NewValidationError("invalid from date")
		}
		from = parsed
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("to")); raw != "" {
		parsed, dateOnly, err := parseFlexibleTime(raw)
		if err != nil {
			return from, to, apperrors.NewValidationError("invalid to date")
		}
		if dateOnly {
			parsed = parsed.Add(24*time.Hour - time.Nanosecond)
		}
		to = parsed
	}

	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return from, to, apperrors.NewValidationError("to date precedes from date")
	}

	return from, to, nil
}

func parseFlexibleTime(value string) (time.Time, bool, error) {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, false, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, false, err
	}
	return parsed, true, nil
}
