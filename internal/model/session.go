package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionStore persists server-held login sessions.
type SessionStore interface {
	Create(ctx context.Context, session Session) error
	GetByID(ctx context.Context, id uuid.UUID) (Session, error)
	Revoke(ctx context.Context, id uuid.UUID) error
}

// Session is the proof of a successful login.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	IsAdmin   bool
	IssuedAt  time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// Active reports whether the session can still authenticate requests at now.
func (s Session) Active(now time.Time) bool {
	return s.ID != uuid.Nil && s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
