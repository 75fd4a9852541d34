package handlers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/careclear/prescreen-dashboard/backend/internal/api/middleware"
	"github.com/careclear/prescreen-dashboard/backend/internal/application/services"
	"github.com/careclear/prescreen-dashboard/backend/internal/domain/entities"
	"github.com/careclear/prescreen-dashboard/backend/internal/domain/providers"
)

const (
	consultRateLimit   = 5
	consultRateWindow  = time.Hour
	consultDedupWindow = 24 * time.Hour
)

// ConsultHandler handles consultation enquiry submissions, with IP
// rate limiting and duplicate suppression in front of the forms
// backend.
type ConsultHandler struct {
	service *services.ConsultService
	cache   providers.CacheProvider
	local   *localRateLimiter
	deduper *localDeduper
}

// NewConsultHandler creates a new consult handler. Cache may be nil;
// rate limiting then falls back to in-process state.
func NewConsultHandler(service *services.ConsultService, cache providers.CacheProvider) *ConsultHandler {
	return &ConsultHandler{
		service: service,
		cache:   cache,
		local:   newLocalRateLimiter(),
		deduper: newLocalDeduper(),
	}
}

type consultRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Treatment string `json:"treatment"`
	Message   string `json:"message"`
}

// SubmitConsult handles POST /api/consults
func (h *ConsultHandler) SubmitConsult(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var payload consultRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	payload.Name = strings.TrimSpace(payload.Name)
	payload.Email = strings.TrimSpace(payload.Email)
	payload.Phone = strings.TrimSpace(payload.Phone)
	payload.Treatment = strings.TrimSpace(payload.Treatment)
	payload.Message = strings.TrimSpace(payload.Message)

	if len(payload.Name) > 200 {
		respondWithError(w, http.StatusBadRequest, "name is too long")
		return
	}
	if len(payload.Email) > 200 {
		respondWithError(w, http.StatusBadRequest, "email is too long")
		return
	}
	if len(payload.Message) > 2000 {
		respondWithError(w, http.StatusBadRequest, "message is too long")
		return
	}

	key := "consult:rate:" + clientIP(r)
	allowed, retryAfter := h.allowRequest(r.Context(), key)
	if !allowed {
		w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
		respondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	dupKey := "consult:dup:" + consultFingerprint(payload, clientIP(r))
	if h.isDuplicate(r.Context(), dupKey) {
		respondWithJSON(w, http.StatusAccepted, map[string]string{
			"status": "duplicate_ignored",
		})
		return
	}

	request := &entities.ConsultRequest{
		Name:      payload.Name,
		Email:     payload.Email,
		Phone:     payload.Phone,
		Treatment: payload.Treatment,
		Message:   payload.Message,
		ClinicID:  session.ClinicID,
		UserAgent: r.UserAgent(),
	}

	if err := h.service.Submit(r.Context(), request); err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{
		"status": "received",
		"id":     request.ID,
	})
}

func (h *ConsultHandler) allowRequest(ctx context.Context, key string) (bool, time.Duration) {
	if h.cache == nil {
		return h.local.allow(key, consultRateLimit, consultRateWindow)
	}

	state := rateLimitState{}
	if data, err := h.cache.Get(ctx, key); err == nil {
		_ = json.Unmarshal(data, &state)
	}

	if state.Count >= consultRateLimit {
		return false, consultRateWindow
	}

	state.Count++
	data, _ := json.Marshal(state)
	_ = h.cache.Set(ctx, key, data, int(consultRateWindow.Seconds()))
	return true, consultRateWindow
}

type rateLimitState struct {
	Count int `json:"count"`
}

func (h *ConsultHandler) isDuplicate(ctx context.Context, key string) bool {
	if h.cache == nil {
		return h.deduper.seen(key, consultDedupWindow)
	}

	exists, err := h.cache.Exists(ctx, key)
	if err == nil && exists {
		return true
	}

	_ = h.cache.Set(ctx, key, []byte("1"), int(consultDedupWindow.Seconds()))
	return false
}

type localRateLimiter struct {
	mu     sync.Mutex
	states map[string]*localRateState
}

type localRateState struct {
	count   int
	resetAt time.Time
}

func newLocalRateLimiter() *localRateLimiter {
	return &localRateLimiter{
		states: make(map[string]*localRateState),
	}
}

func (l *localRateLimiter) allow(key string, limit int, window time.Duration) (bool, time.Duration) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	state, ok := l.states[key]
	if !ok || now.After(state.resetAt) {
		state = &localRateState{count: 0, resetAt: now.Add(window)}
		l.states[key] = state
	}

	if state.count >= limit {
		retryAfter := time.Until(state.resetAt)
		if retryAfter < 0 {
			retryAfter = window
		}
		return false, retryAfter
	}

	state.count++
	return true, window
}

type localDeduper struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

func newLocalDeduper() *localDeduper {
	return &localDeduper{
		entries: make(map[string]time.Time),
	}
}

func (d *localDeduper) seen(key string, window time.Duration) bool {
	now := time.Now()

	d.mu.Lock()
	defer d.mu.Unlock()

	if expiresAt, ok := d.entries[key]; ok && now.Before(expiresAt) {
		return true
	}

	d.entries[key] = now.Add(window)
	return false
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return strings.TrimSpace(realIP)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}

func consultFingerprint(payload consultRequest, ip string) string {
	normalized := []string{
		normalizeConsultField(payload.Name),
		strings.ToLower(strings.TrimSpace(payload.Email)),
		strings.ToLower(strings.TrimSpace(payload.Phone)),
		normalizeConsultField(payload.Treatment),
		normalizeConsultField(payload.Message),
		ip,
	}

	hash := sha256.Sum256([]byte(strings.Join(normalized, "|")))
	return hex.EncodeToString(hash[:])
}

func normalizeConsultField(value string) string {
	trimmed := strings.TrimSpace(strings.ToLower(value))
	if trimmed == "" {
		return ""
	}
	return strings.Join(strings.Fields(trimmed), " ")
}
