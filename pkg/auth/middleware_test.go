package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMiddleware_RequireAuth_Valid(t *testing.T) {
	svc := newTestAuthService(true)
	mw := NewMiddleware(svc, zap.NewNop())
	tokenString := signToken(t, validClaims(), testSecret)

	var gotUser string
	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		gotUser = GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest("GET", "/api/loans", nil)
	r.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()
	handler(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "officer@example.com", gotUser)
}

func TestMiddleware_RequireAuth_MissingToken(t *testing.T) {
	svc := newTestAuthService(true)
	mw := NewMiddleware(svc, zap.NewNop())

	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	})

	r := httptest.NewRequest("GET", "/api/loans", nil)
	w := httptest.NewRecorder()
	handler(w, r)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "unauthorized")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestMiddleware_RequireAuth_VerificationDisabled(t *testing.T) {
	svc := newTestAuthService(false)
	mw := NewMiddleware(svc, zap.NewNop())

	var gotUser string
	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		gotUser = GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest("GET", "/api/loans", nil)
	w := httptest.NewRecorder()
	handler(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "local-dev", gotUser)
}
