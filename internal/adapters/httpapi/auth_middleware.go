package httpapi

import (
	"net/http"
	"strings"

	"github.com/camino-app/route-planner-api/internal/domain"
)

// TokenVerifier validates a bearer session token and returns the user it
// identifies.
type TokenVerifier interface {
	VerifyToken(token string) (domain.UserID, error)
}

// NewAuthMiddleware extracts and verifies a bearer token, attaching the user
// id to the request context. Requests without a token pass through
// unauthenticated; handlers that need an identity resolve it via the session
// holder and fail with USER_NOT_FOUND when neither is available.
func NewAuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if tok, ok := strings.CutPrefix(auth, "Bearer "); ok && tok != "" {
				id, err := verifier.VerifyToken(tok)
				if err != nil {
					writeError(w, r, http.StatusUnauthorized, "INVALID_TOKEN", "session token is invalid or expired", nil)
					return
				}
				r = r.WithContext(ContextWithUserID(r.Context(), id))
			}
			next.ServeHTTP(w, r)
		})
	}
}
