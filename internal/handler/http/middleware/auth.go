package middleware

import (
	"log/slog"
	"net/http"

	"github.com/garmentworks/payroll-backend-go/internal/handler/http/response"
	"github.com/garmentworks/payroll-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired rejects requests whose token failed jwtauth.Verifier or is not an access token.
// It must run after the verifier.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			slog.Debug("Rejected unauthenticated request", "path", r.URL.Path, "error", err)
			response.HandleError(w, response.ErrInvalidToken)
			return
		}

		if tokenType, _ := claims["type"].(string); tokenType != jwt.TokenTypeAccess {
			response.HandleError(w, response.ErrInvalidToken)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// AdminOnly allows only tokens carrying the admin role. Payroll writes sit behind it.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, response.ErrInvalidToken)
			return
		}

		if !jwt.IsAdmin(claims) {
			slog.Warn("Rejected payroll write without admin role",
				"path", r.URL.Path,
				"user_id", claims["user_id"],
			)
			response.HandleError(w, response.ErrAdminPrivilegeRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
