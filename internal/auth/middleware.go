package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	apperrors "garagy/internal/errors"
	"garagy/internal/logger"
)

// LoginPath is where unauthenticated admins are sent.
const LoginPath = "/login"

type ctxKey int

const identityKey ctxKey = 0

// Identity is the signed-in admin as read from the token. It is passed
// explicitly to services instead of being looked up globally.
type Identity struct {
	AdminID  string
	Email    string
	GarageID string
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// AdminAuthMiddleware rejects requests without a valid bearer token and
// stores the token's identity in the request context.
func AdminAuthMiddleware(tokens *TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				Unauthorized(w, "missing bearer token")
				return
			}
			id, err := tokens.Parse(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				logger.FromContext(r.Context()).Debug("admin token rejected", "path", r.URL.Path, "err", err)
				Unauthorized(w, apperrors.UserMessage(err))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// Unauthorized answers 401 with a hint to the login page.
func Unauthorized(w http.ResponseWriter, msg string) {
	e := apperrors.ErrUnauthorized(msg)
	w.Header().Set("Location", LoginPath)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Status)
	json.NewEncoder(w).Encode(e)
}
