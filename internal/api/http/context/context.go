// Package context moves the authenticated session through request contexts.
package context

import (
	"context"

	"github.com/dtroode/couponhub/internal/model"
)

type sessionKey struct{}

var _ model.ContextManager = (*Manager)(nil)

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) SetSessionToContext(ctx context.Context, session model.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

func (m *Manager) GetSessionFromContext(ctx context.Context) (model.Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(model.Session)
	return session, ok
}
