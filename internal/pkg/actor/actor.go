// Package actor resolves who is acting on a request from its verified JWT claims.
package actor

import (
	"context"

	"github.com/garmentworks/payroll-backend-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
)

type Actor struct {
	// UserID is set only when the user_id claim is a UUID the store can reference.
	UserID *string
	Name   *string
}

// FromContext reads user_id and name claims. Missing claims, or no token at all
// as in scheduled jobs, yield an empty Actor.
func FromContext(ctx context.Context) Actor {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil || claims == nil {
		return Actor{}
	}

	var a Actor
	if id, ok := claims["user_id"].(string); ok && validator.IsValidUUID(id) {
		a.UserID = &id
	}
	if name, ok := claims["name"].(string); ok && name != "" {
		a.Name = &name
	}
	return a
}
