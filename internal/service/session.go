package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/couponhub/internal/logger"
	"github.com/dtroode/couponhub/internal/model"
)

// SessionService issues, resolves and revokes login sessions. It composes the
// TokenManager that signs cookie tokens and the SessionStore that holds
// server-side session state.
type SessionService struct {
	manager model.TokenManager
	store   model.SessionStore
	ttl     time.Duration
	logger  *logger.Logger
	now     func() time.Time
}

func NewSessionService(manager model.TokenManager, store model.SessionStore, ttl time.Duration, logger *logger.Logger) *SessionService {
	return &SessionService{
		manager: manager,
		store:   store,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
	}
}

// Issue persists a new session for user and returns it with its signed token.
func (s *SessionService) Issue(ctx context.Context, user model.User) (model.Session, string, error) {
	now := s.now()
	session := model.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		IsAdmin:   user.IsAdmin,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}

	token, err := s.manager.GenerateSessionToken(model.SessionClaims{
		SessionID: session.ID,
		UserID:    session.UserID,
		IsAdmin:   session.IsAdmin,
	})
	if err != nil {
		return model.Session{}, "", fmt.Errorf("failed to sign session token: %w", err)
	}

	if err := s.store.Create(ctx, session); err != nil {
		return model.Session{}, "", fmt.Errorf("failed to persist session: %w", err)
	}

	return session, token, nil
}

// Resolve returns the active session behind token. Any token that does not
// lead to an active session yields model.ErrNotAuthenticated.
func (s *SessionService) Resolve(ctx context.Context, token string) (model.Session, error) {
	if token == "" {
		return model.Session{}, model.ErrNotAuthenticated
	}

	claims, err := s.manager.ParseSessionToken(token)
	if err != nil {
		s.logger.Debug("Session service: rejected token", "error", err.Error())
		return model.Session{}, model.ErrNotAuthenticated
	}

	session, err := s.store.GetByID(ctx, claims.SessionID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Session{}, model.ErrNotAuthenticated
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to get session: %w", err)
	}

	if session.UserID != claims.UserID || !session.Active(s.now()) {
		return model.Session{}, model.ErrNotAuthenticated
	}

	return session, nil
}

// Revoke ends the session behind token. Invalid tokens are ignored.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	claims, err := s.manager.ParseSessionToken(token)
	if err != nil {
		return nil
	}

	err = s.store.Revoke(ctx, claims.SessionID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	return nil
}
