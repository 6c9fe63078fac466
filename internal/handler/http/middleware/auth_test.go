package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/garmentworks/payroll-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedRouter(svc jwt.Service) http.Handler {
	r := chi.NewRouter()
	r.Use(jwtauth.Verifier(svc.JWTAuth()))
	r.Use(AuthRequired)
	r.Get("/read", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	r.With(AdminOnly).Post("/write", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	return r
}

func serve(h http.Handler, method, path, token string) int {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestAuthRequiredAndAdminOnly(t *testing.T) {
	svc := jwt.NewJWTService("middleware-secret", time.Hour)
	h := protectedRouter(svc)

	admin, _, err := svc.GenerateAccessToken(jwt.Claims{UserID: "u1", Role: jwt.RoleAdmin})
	require.NoError(t, err)
	viewer, _, err := svc.GenerateAccessToken(jwt.Claims{UserID: "u2", Role: "viewer"})
	require.NoError(t, err)

	// Correct signature but not an access token.
	_, refresh, err := svc.JWTAuth().Encode(map[string]interface{}{"user_id": "u1", "role": jwt.RoleAdmin, "type": "refresh"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"no token", http.MethodGet, "/read", "", http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/read", "not-a-jwt", http.StatusUnauthorized},
		{"refresh token", http.MethodGet, "/read", refresh, http.StatusUnauthorized},
		{"viewer reads", http.MethodGet, "/read", viewer, http.StatusNoContent},
		{"viewer writes", http.MethodPost, "/write", viewer, http.StatusForbidden},
		{"admin writes", http.MethodPost, "/write", admin, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, serve(h, tt.method, tt.path, tt.token))
		})
	}
}
