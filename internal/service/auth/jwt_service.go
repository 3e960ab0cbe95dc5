// Package auth validates the access tokens the surrounding CRM issues. This
// service never creates sessions itself; it only needs enough of the token
// machinery to recover the caller identity that scopes analysis results.
package auth

import (
	"context"

	"github.com/google/uuid"
)

// JWTService defines the token operations this service needs.
type JWTService interface {
	// GenerateToken creates a signed access token for the user. Used by
	// tests and local tooling; production tokens come from the CRM.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken validates an access token and extracts its claims, or
	// returns ErrInvalidToken/ErrExpiredToken on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the validated content of an access token.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID
}
