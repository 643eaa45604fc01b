package middleware

import (
	"net/http"

	"github.com/crewbook/crewbook-backend-go/internal/domain/auth"
	"github.com/crewbook/crewbook-backend-go/internal/handler/http/response"
	"github.com/crewbook/crewbook-backend-go/internal/pkg/jwt"
)

// RequireSettler allows owners and managers to record collections and
// payouts.
func RequireSettler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := jwt.ClaimsFromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}

		if !auth.Role(claims.Role).CanSettle() {
			response.HandleError(w, auth.ErrInsufficientRole)
			return
		}

		next.ServeHTTP(w, r)
	})
}
