// Command token mints an access token for calling the payroll API from scripts
// and local tooling. It signs with JWT_SECRET_KEY from the environment or .env.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/garmentworks/payroll-backend-go/internal/pkg/jwt"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	userID := flag.String("user", "", "user id claim (random UUID when empty)")
	name := flag.String("name", "", "display name recorded as entered_by")
	role := flag.String("role", jwt.RoleAdmin, "role claim")
	ttl := flag.Duration("ttl", 12*time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load()
	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET_KEY is required")
		os.Exit(1)
	}

	if *userID == "" {
		*userID = uuid.NewString()
	}

	token, expiresAt, err := jwt.NewJWTService(secret, *ttl).GenerateAccessToken(jwt.Claims{
		UserID: *userID,
		Name:   *name,
		Role:   *role,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error signing token:", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires %s\n", time.Unix(expiresAt, 0).Format(time.RFC3339))
}
