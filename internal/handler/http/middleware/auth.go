package middleware

import (
	"net/http"

	"github.com/crewbook/crewbook-backend-go/internal/domain/auth"
	"github.com/crewbook/crewbook-backend-go/internal/handler/http/response"
	"github.com/crewbook/crewbook-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired rejects requests whose verified token is missing, is not an
// access token or is not bound to a company. It runs after jwtauth.Verifier.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, _, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		claims, err := jwt.CompanyFromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}
		if !claims.IsAccess() {
			response.HandleError(w, jwt.ErrWrongTokenType)
			return
		}

		next.ServeHTTP(w, r)
	})
}
