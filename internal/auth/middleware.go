package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Identity is the authenticated caller attached to a request context.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

type contextKey int

const identityKey contextKey = iota

// Middleware extracts a bearer token and attaches the caller's identity to
// the request context. A missing, malformed, or expired token is treated as
// absence of credentials: the request proceeds unauthenticated and protected
// handlers reject it via the policy checks.
func (m *TokenManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.Verify(token)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		identity := &Identity{UserID: userID, Email: claims.Email, Role: claims.Role}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// FromContext returns the caller's identity, or nil for unauthenticated
// requests.
func FromContext(ctx context.Context) *Identity {
	identity, _ := ctx.Value(identityKey).(*Identity)
	return identity
}
