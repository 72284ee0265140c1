package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/fkhayef/secretsanta/pkg/response"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// IdentityKey is the context key for the authenticated identity
	IdentityKey ContextKey = "identity"

	// SessionCookie is the cookie carrying the session token
	SessionCookie = "session"
)

// ErrUnauthenticated is returned when a request carries no valid session
var ErrUnauthenticated = errors.New("authentication required")

// Identity is the authenticated caller
type Identity struct {
	UserID string
	Email  string
	Name   string
}

// SessionResolver turns a session token into the identity it was issued to
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*Identity, error)
}

// Authenticate resolves the session from the session cookie or an
// "Authorization: Bearer" header and stores the identity in the request
// context. Requests without a valid session pass through anonymously; use
// RequireAuth to reject them.
func Authenticate(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := resolver.ResolveSession(r.Context(), token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// RequireAuth rejects requests that Authenticate did not attach an identity to
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetIdentity(r.Context()); !ok {
			response.Unauthorized(w, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithIdentity returns a copy of ctx carrying identity
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

// GetIdentity extracts the identity from the request context
func GetIdentity(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(*Identity)
	return identity, ok && identity != nil
}

// GetUserID extracts the user ID from the request context
func GetUserID(ctx context.Context) (string, bool) {
	identity, ok := GetIdentity(ctx)
	if !ok {
		return "", false
	}
	return identity.UserID, true
}

// ContextAuthenticator resolves the caller from the request context
type ContextAuthenticator struct{}

// CurrentUser returns the identity attached by Authenticate
func (ContextAuthenticator) CurrentUser(ctx context.Context) (*Identity, error) {
	identity, ok := GetIdentity(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	return identity, nil
}

func sessionToken(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	parts := strings.Split(r.Header.Get("Authorization"), " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}
