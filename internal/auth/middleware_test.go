package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newGate(t *testing.T) (*Middleware, TokenService) {
	t.Helper()
	tokens, err := NewPasetoService(testKey)
	require.NoError(t, err)
	return NewMiddleware(tokens), tokens
}

// protectedEcho responds with the subject id the gate put in context
func protectedEcho(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserIDFromContext(r.Context())
		require.True(t, ok)
		w.Write([]byte(userID.String()))
	})
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Code
}

func TestRequireAuth_ValidToken(t *testing.T) {
	gate, tokens := newGate(t)
	userID := uuid.New()

	token, err := tokens.CreateToken(userID, "ann@x.com", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	gate.RequireAuth(protectedEcho(t)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, userID.String(), rec.Body.String())
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	gate, _ := newGate(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()

	gate.RequireAuth(protectedEcho(t)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "missing_auth", errorCode(t, rec))
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	gate, tokens := newGate(t)

	token, err := tokens.CreateToken(uuid.New(), "ann@x.com", time.Hour)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
	}{
		{"no scheme", token},
		{"wrong scheme", "Token " + token},
		{"lowercase bearer", "bearer " + token},
		{"extra parts", "Bearer " + token + " trailing"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", tc.header)
			rec := httptest.NewRecorder()

			gate.RequireAuth(protectedEcho(t)).ServeHTTP(rec, req)

			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.Equal(t, "invalid_auth_header", errorCode(t, rec))
		})
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	gate, _ := newGate(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rec := httptest.NewRecorder()

	gate.RequireAuth(protectedEcho(t)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "invalid_token", errorCode(t, rec))
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	gate, tokens := newGate(t)

	token, err := tokens.CreateToken(uuid.New(), "ann@x.com", -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	gate.RequireAuth(protectedEcho(t)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "token_expired", errorCode(t, rec))
}

func TestRequireAuth_ForeignKeyToken(t *testing.T) {
	gate, _ := newGate(t)

	foreign, err := NewPasetoService(otherTestKey)
	require.NoError(t, err)
	token, err := foreign.CreateToken(uuid.New(), "ann@x.com", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	gate.RequireAuth(protectedEcho(t)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "invalid_token", errorCode(t, rec))
}
