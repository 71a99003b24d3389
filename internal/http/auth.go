package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"viralhub-backend-go/internal/services"
)

type contextKey string

const ctxUserID contextKey = "userID"

const msgAuthFailed = "Authentication failed"

var errBadAuthorization = errors.New("authorization header must use the Bearer scheme")

// IdentityResolver decides which user a request acts as.
type IdentityResolver interface {
	Resolve(r *http.Request) (string, error)
}

// DemoIdentity treats every request as the demo user.
type DemoIdentity struct{}

func (DemoIdentity) Resolve(*http.Request) (string, error) {
	return services.DemoUserID, nil
}

// TokenIdentity reads the subject of an HS256 bearer token. Requests without an
// Authorization header act as Fallback.
type TokenIdentity struct {
	Tokens   services.TokenService
	Fallback string
}

func (t TokenIdentity) Resolve(r *http.Request) (string, error) {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if auth == "" {
		return t.Fallback, nil
	}
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", errBadAuthorization
	}
	return t.Tokens.Subject(strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")))
}

func WithIdentity(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := resolver.Resolve(r)
			if err != nil || userID == "" {
				writeClientError(w, services.ErrUnauthorized(msgAuthFailed))
				return
			}
			ctx := context.WithValue(r.Context(), ctxUserID, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func CurrentUserID(r *http.Request) string {
	if value, ok := r.Context().Value(ctxUserID).(string); ok && value != "" {
		return value
	}
	return services.DemoUserID
}
