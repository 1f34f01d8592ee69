package model

import "github.com/google/uuid"

// SessionClaims is the identity carried by a session token.
type SessionClaims struct {
	SessionID uuid.UUID
	UserID    uuid.UUID
	IsAdmin   bool
}

// TokenManager signs and validates session tokens.
type TokenManager interface {
	GenerateSessionToken(claims SessionClaims) (string, error)
	ParseSessionToken(token string) (SessionClaims, error)
}
