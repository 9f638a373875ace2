package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionAuth_TokenRoundTrip(t *testing.T) {
	auth, err := NewSessionAuth("test-secret")
	require.NoError(t, err)

	id := uuid.New()
	token, err := auth.IssueToken(id, time.Now().Add(time.Hour))
	require.NoError(t, err)

	got, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestSessionAuth_RejectsForeignSecret(t *testing.T) {
	issuer, err := NewSessionAuth("")
	require.NoError(t, err)
	verifier, err := NewSessionAuth("")
	require.NoError(t, err)

	token, err := issuer.IssueToken(uuid.New(), time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.Error(t, err)
}

func serveWithAuth(auth *SessionAuth, header string) (*httptest.ResponseRecorder, uuid.UUID) {
	var seen uuid.UUID
	h := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetSessionID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr, seen
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return body.Error.Code
}

func TestSessionAuthMiddleware(t *testing.T) {
	auth, err := NewSessionAuth("test-secret")
	require.NoError(t, err)

	id := uuid.New()
	valid, err := auth.IssueToken(id, time.Now().Add(time.Hour))
	require.NoError(t, err)
	expired, err := auth.IssueToken(id, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		rr, seen := serveWithAuth(auth, "Bearer "+valid)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, id, seen)
	})

	t.Run("missing header", func(t *testing.T) {
		rr, _ := serveWithAuth(auth, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "UNAUTHORIZED", errorCode(t, rr))
	})

	t.Run("wrong scheme", func(t *testing.T) {
		rr, _ := serveWithAuth(auth, "Token "+valid)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		rr, _ := serveWithAuth(auth, "Bearer "+expired)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "SESSION_EXPIRED", errorCode(t, rr))
	})

	t.Run("garbage token", func(t *testing.T) {
		rr, _ := serveWithAuth(auth, "Bearer not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "UNAUTHORIZED", errorCode(t, rr))
	})
}
