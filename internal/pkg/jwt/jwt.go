package jwt

import (
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	RoleAdmin = "admin"

	// TokenTypeAccess is the only token type the API accepts.
	TokenTypeAccess = "access"
)

// Claims identify the user acting on the payroll API.
type Claims struct {
	UserID string
	Name   string
	Role   string
}

type Service interface {
	GenerateAccessToken(claims Claims) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenTTL time.Duration
	tokenAuth      *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenTTL time.Duration) Service {
	return &JWTService{
		accessTokenTTL: accessTokenTTL,
		tokenAuth:      jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) GenerateAccessToken(claims Claims) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.accessTokenTTL).Unix()

	payload := map[string]interface{}{
		"user_id": claims.UserID,
		"role":    claims.Role,
		"type":    TokenTypeAccess,
		"exp":     expiresAt,
	}
	if claims.Name != "" {
		payload["name"] = claims.Name
	}

	_, tokenString, err := j.tokenAuth.Encode(payload)
	return tokenString, expiresAt, err
}

// IsAdmin reports whether verified claims grant write access to payroll data.
func IsAdmin(claims map[string]interface{}) bool {
	if role, ok := claims["role"].(string); ok && role == RoleAdmin {
		return true
	}
	isAdmin, _ := claims["is_admin"].(bool)
	return isAdmin
}
