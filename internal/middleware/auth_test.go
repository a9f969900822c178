package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, sub string, secret string, ttl time.Duration) string {
	t.Helper()
	claims := &jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

// ownerEcho はコンテキストの所有者IDをボディに書き出すテスト用ハンドラ
func ownerEcho(w http.ResponseWriter, r *http.Request) {
	ownerID, err := GetOwnerIDFromContext(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	w.Write([]byte(strconv.FormatUint(uint64(ownerID), 10)))
}

func TestJWTAuthMiddleware(t *testing.T) {
	handler := JWTAuthMiddleware(testSecret)(http.HandlerFunc(ownerEcho))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid token", "Bearer " + signToken(t, "42", testSecret, time.Hour), http.StatusOK, "42"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, ""},
		{"wrong secret", "Bearer " + signToken(t, "42", "other", time.Hour), http.StatusUnauthorized, ""},
		{"expired", "Bearer " + signToken(t, "42", testSecret, -time.Minute), http.StatusUnauthorized, ""},
		{"non numeric subject", "Bearer " + signToken(t, "alice", testSecret, time.Hour), http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rr.Body.String())
			}
		})
	}
}

func TestDevOwnerContextMiddleware(t *testing.T) {
	handler := DevOwnerContextMiddleware(http.HandlerFunc(ownerEcho))

	tests := []struct {
		name       string
		ownerID    string
		wantStatus int
	}{
		{"valid", "7", http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"zero", "0", http.StatusUnauthorized},
		{"not a number", "abc", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.ownerID != "" {
				req.Header.Set("X-Owner-ID", tt.ownerID)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}
