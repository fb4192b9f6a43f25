package auth

import (
	"net/http"
	"strings"

	"github.com/gevapp/gevapp/internal/platform/httpx"
	"github.com/gevapp/gevapp/internal/shared"
)

// RequireAuth rejects requests without a valid bearer token and stores the
// user id on the request context.
func RequireAuth(tokens *TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				httpx.Fail(w, http.StatusUnauthorized, "token de acesso ausente")
				return
			}
			userID, err := tokens.Verify(raw)
			if err != nil {
				httpx.Fail(w, http.StatusUnauthorized, "token inválido ou expirado")
				return
			}
			ctx := shared.ContextWithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
