package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/couponhub/internal/mocks"
	"github.com/dtroode/couponhub/internal/model"
	"github.com/dtroode/couponhub/internal/testutil"
)

func newSessionService(t *testing.T) (*SessionService, *mocks.TokenManager, *mocks.SessionStore) {
	t.Helper()
	manager := &mocks.TokenManager{}
	store := &mocks.SessionStore{}
	t.Cleanup(func() {
		manager.AssertExpectations(t)
		store.AssertExpectations(t)
	})
	return NewSessionService(manager, store, time.Hour, testutil.MakeNoopLogger()), manager, store
}

func TestSessionService_Issue(t *testing.T) {
	ctx := context.Background()
	svc, manager, store := newSessionService(t)
	user := model.User{ID: uuid.New(), IsAdmin: true}

	manager.On("GenerateSessionToken", mock.MatchedBy(func(c model.SessionClaims) bool {
		return c.UserID == user.ID && c.IsAdmin && c.SessionID != uuid.Nil
	})).Return("signed", nil).Once()
	store.On("Create", ctx, mock.MatchedBy(func(s model.Session) bool {
		return s.UserID == user.ID && s.IsAdmin && s.ExpiresAt.Sub(s.IssuedAt) == time.Hour
	})).Return(nil).Once()

	session, token, err := svc.Issue(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "signed", token)
	assert.Equal(t, user.ID, session.UserID)
	assert.True(t, session.Active(time.Now()))
}

func TestSessionService_Issue_SignError(t *testing.T) {
	svc, manager, _ := newSessionService(t)

	manager.On("GenerateSessionToken", mock.Anything).Return("", assert.AnError).Once()

	_, _, err := svc.Issue(context.Background(), model.User{ID: uuid.New()})
	require.ErrorIs(t, err, assert.AnError)
}

func TestSessionService_Issue_StoreError(t *testing.T) {
	ctx := context.Background()
	svc, manager, store := newSessionService(t)

	manager.On("GenerateSessionToken", mock.Anything).Return("signed", nil).Once()
	store.On("Create", ctx, mock.Anything).Return(assert.AnError).Once()

	_, token, err := svc.Issue(ctx, model.User{ID: uuid.New()})
	require.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, token)
}

func TestSessionService_Resolve(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	sessionID := uuid.New()
	userID := uuid.New()
	claims := model.SessionClaims{SessionID: sessionID, UserID: userID}
	revokedAt := now.Add(-time.Minute)

	tests := []struct {
		name    string
		stored  model.Session
		err     error
		wantErr error
	}{
		{
			name:   "active",
			stored: model.Session{ID: sessionID, UserID: userID, IssuedAt: now, ExpiresAt: now.Add(time.Hour)},
		},
		{
			name:    "expired",
			stored:  model.Session{ID: sessionID, UserID: userID, IssuedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)},
			wantErr: model.ErrNotAuthenticated,
		},
		{
			name:    "revoked",
			stored:  model.Session{ID: sessionID, UserID: userID, ExpiresAt: now.Add(time.Hour), RevokedAt: &revokedAt},
			wantErr: model.ErrNotAuthenticated,
		},
		{
			name:    "other user",
			stored:  model.Session{ID: sessionID, UserID: uuid.New(), ExpiresAt: now.Add(time.Hour)},
			wantErr: model.ErrNotAuthenticated,
		},
		{
			name:    "unknown session",
			err:     model.ErrNotFound,
			wantErr: model.ErrNotAuthenticated,
		},
		{
			name:    "store failure",
			err:     assert.AnError,
			wantErr: assert.AnError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, manager, store := newSessionService(t)
			manager.On("ParseSessionToken", "tok").Return(claims, nil).Once()
			store.On("GetByID", ctx, sessionID).Return(tt.stored, tt.err).Once()

			session, err := svc.Resolve(ctx, "tok")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, sessionID, session.ID)
		})
	}
}

func TestSessionService_Resolve_BadToken(t *testing.T) {
	svc, manager, _ := newSessionService(t)

	_, err := svc.Resolve(context.Background(), "")
	require.ErrorIs(t, err, model.ErrNotAuthenticated)

	manager.On("ParseSessionToken", "garbage").Return(model.SessionClaims{}, assert.AnError).Once()
	_, err = svc.Resolve(context.Background(), "garbage")
	require.ErrorIs(t, err, model.ErrNotAuthenticated)
}

func TestSessionService_Revoke(t *testing.T) {
	ctx := context.Background()
	svc, manager, store := newSessionService(t)
	sessionID := uuid.New()

	manager.On("ParseSessionToken", "tok").Return(model.SessionClaims{SessionID: sessionID}, nil).Once()
	store.On("Revoke", ctx, sessionID).Return(nil).Once()

	require.NoError(t, svc.Revoke(ctx, "tok"))
}

func TestSessionService_Revoke_InvalidTokenIsNoop(t *testing.T) {
	svc, manager, _ := newSessionService(t)

	require.NoError(t, svc.Revoke(context.Background(), ""))

	manager.On("ParseSessionToken", "garbage").Return(model.SessionClaims{}, assert.AnError).Once()
	require.NoError(t, svc.Revoke(context.Background(), "garbage"))
}

func TestSessionService_Revoke_Unknown(t *testing.T) {
	ctx := context.Background()
	svc, manager, store := newSessionService(t)
	sessionID := uuid.New()

	manager.On("ParseSessionToken", "tok").Return(model.SessionClaims{SessionID: sessionID}, nil).Once()
	store.On("Revoke", ctx, sessionID).Return(model.ErrNotFound).Once()

	require.NoError(t, svc.Revoke(ctx, "tok"))
}
