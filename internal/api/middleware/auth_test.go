package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careclear/prescreen-dashboard/backend/pkg/config"
)

const testSigningKey = "test-signing-key"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSigningKey))
	require.NoError(t, err)
	return signed
}

func newAuthHandlerWith(cfg *config.AuthConfig, captured **Session) http.Handler {
	m := NewAuthMiddleware(cfg)
	return m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if session, ok := SessionFromContext(r.Context()); ok && captured != nil {
			*captured = session
		}
		w.WriteHeader(http.StatusOK)
	}))
}

func newAuthHandler(captured **Session) http.Handler {
	return newAuthHandlerWith(&config.AuthConfig{SigningKey: testSigningKey}, captured)
}

func newJWKSServer(t *testing.T, pub *rsa.PublicKey, kid string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"keys": []map[string]string{{
				"kty": "RSA",
				"kid": kid,
				"use": "sig",
				"alg": "RS256",
				"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
			}},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	var session *Session
	handler := newAuthHandler(&session)

	token := signToken(t, jwt.MapClaims{
		"sub":       "user-42",
		"email":     "nurse@glowclinic.example",
		"clinic_id": "glow",
		"exp":       time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/prescreens", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, session)
	assert.Equal(t, "user-42", session.Subject)
	assert.Equal(t, "nurse@glowclinic.example", session.Email)
	assert.Equal(t, "glow", session.ClinicID)
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	handler := newAuthHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/prescreens", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	handler := newAuthHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/prescreens", nil)
	req.Header.Set("Authorization", "Token abc123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	handler := newAuthHandler(nil)

	token := signToken(t, jwt.MapClaims{
		"sub":       "user-42",
		"clinic_id": "glow",
		"exp":       time.Now().Add(-time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/prescreens", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareWrongKey(t *testing.T) {
	handler := newAuthHandler(nil)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":       "user-42",
		"clinic_id": "glow",
		"exp":       time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("some-other-key"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/prescreens", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareMissingClinic(t *testing.T) {
	handler := newAuthHandler(nil)

	token := signToken(t, jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/prescreens", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareJWKSValidToken(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	server := newJWKSServer(t, &rsaKey.PublicKey, "kid-1")

	var session *Session
	handler := newAuthHandlerWith(&config.AuthConfig{JWKSURL: server.URL}, &session)

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"sub":       "user-42",
		"clinic_id": "glow",
		"exp":       time.Now().Add(time.Hour).Unix(),
	})
	token.Header["kid"] = "kid-1"
	signed, err := token.SignedString(rsaKey)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/prescreens", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, session)
	assert.Equal(t, "glow", session.ClinicID)
}

func TestAuthMiddlewareJWKSRejectsHMAC(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	server := newJWKSServer(t, &rsaKey.PublicKey, "kid-1")

	handler := newAuthHandlerWith(&config.AuthConfig{JWKSURL: server.URL}, nil)

	// An HMAC token must fail on algorithm, not reach key lookup.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":       "user-42",
		"clinic_id": "glow",
		"exp":       time.Now().Add(time.Hour).Unix(),
	})
	token.Header["kid"] = "kid-1"
	signed, err := token.SignedString([]byte(testSigningKey))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/prescreens", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareSkipsHealthAndPreflight(t *testing.T) {
	handler := newAuthHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodOptions, "/api/prescreens", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
