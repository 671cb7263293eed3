package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// contextKey is private so no other package can read or shadow our values.
type contextKey string

const requesterKey contextKey = "requester"

// RequireRequester returns middleware that checks the bearer token against
// the chi URL parameter named param:
//
//   - no token, or a token that fails validation → 401
//   - valid token for a different user           → 403
//
// On success the verified id is stored in the request context. The
// middleware must run after routing (chi's r.With or r.Group) so the URL
// parameter is populated.
func RequireRequester(tokens *TokenService, param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, err := tokens.Validate(bearerToken(r))
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "unauthorized", "a valid bearer token is required")
				return
			}
			if subject != chi.URLParam(r, param) {
				writeAuthError(w, http.StatusForbidden, "forbidden", "token does not belong to the requested user")
				return
			}

			ctx := context.WithValue(r.Context(), requesterKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequesterFromContext returns the user id verified by RequireRequester.
func RequesterFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requesterKey).(string)
	return id, ok && id != ""
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func writeAuthError(w http.ResponseWriter, status int, kind, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": kind, "message": message})
}
