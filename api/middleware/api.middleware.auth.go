package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/apiaryworks/hivedash/internal/errors"
)

// AuthConfig configures the static-token middleware
type AuthConfig struct {
	Token string
}

// StaticTokenMiddleware guards protected routes with a single static
// bearer token. An empty configured token disables the check entirely:
// running without a credential is a reduced-capability mode, not an
// error.
type StaticTokenMiddleware struct {
	config AuthConfig
}

// NewStaticTokenMiddleware creates the middleware for the given config
func NewStaticTokenMiddleware(config AuthConfig) *StaticTokenMiddleware {
	return &StaticTokenMiddleware{config: config}
}

// Authenticate validates the bearer token on the request
func (m *StaticTokenMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.config.Token == "" {
			next.ServeHTTP(w, r)
			return
		}

		token := extractToken(r)
		if token == "" {
			handleError(w, errors.NewAuthError("no token provided", nil))
			return
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(m.config.Token)) != 1 {
			handleError(w, errors.NewAuthError("invalid token", nil))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func handleError(w http.ResponseWriter, err *errors.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(err)
}
