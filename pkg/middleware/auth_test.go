package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver map[string]*Identity

func (s stubResolver) ResolveSession(_ context.Context, token string) (*Identity, error) {
	if identity, ok := s[token]; ok {
		return identity, nil
	}
	return nil, errors.New("invalid token")
}

func capture(got **Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got, _ = GetIdentity(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthenticateFromCookie(t *testing.T) {
	resolver := stubResolver{"good": {UserID: "u1", Email: "ana@example.com"}}
	var got *Identity

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "good"})
	Authenticate(resolver)(capture(&got)).ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got)
	assert.Equal(t, "u1", got.UserID)
}

func TestAuthenticateFromBearer(t *testing.T) {
	resolver := stubResolver{"good": {UserID: "u2"}}
	var got *Identity

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	Authenticate(resolver)(capture(&got)).ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got)
	assert.Equal(t, "u2", got.UserID)
}

func TestAuthenticateInvalidTokenIsAnonymous(t *testing.T) {
	var got *Identity

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec := httptest.NewRecorder()
	Authenticate(stubResolver{})(capture(&got)).ServeHTTP(rec, req)

	assert.Nil(t, got)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireAuth(t *testing.T) {
	var got *Identity
	handler := RequireAuth(capture(&got))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithIdentity(req.Context(), &Identity{UserID: "u1"}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestContextAuthenticator(t *testing.T) {
	_, err := ContextAuthenticator{}.CurrentUser(context.Background())
	assert.ErrorIs(t, err, ErrUnauthenticated)

	ctx := WithIdentity(context.Background(), &Identity{UserID: "u1"})
	identity, err := ContextAuthenticator{}.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.UserID)
}
