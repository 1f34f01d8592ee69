package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/couponhub/internal/model"
)

func TestBootstrap(t *testing.T) {
	ctx := context.Background()
	a, d := newTestAuth(t)
	c, store, _ := newTestCoupon(t, false)
	admin := model.AdminParams{Username: "admin", Email: "admin@example.com", Password: "secret"}

	d.users.On("GetByEmail", ctx, "admin@example.com").Return(model.User{ID: uuid.New(), IsAdmin: true}, nil).Once()
	store.On("Count", ctx).Return(0, nil).Once()
	store.On("CreateBatch", ctx, mock.Anything).Return(nil).Once()

	require.NoError(t, Bootstrap(ctx, a, c, admin))
}

func TestBootstrap_AdminFailure(t *testing.T) {
	ctx := context.Background()
	a, d := newTestAuth(t)
	c, _, _ := newTestCoupon(t, false)

	d.users.On("GetByEmail", ctx, "admin@example.com").Return(model.User{}, assert.AnError).Once()

	err := Bootstrap(ctx, a, c, model.AdminParams{Email: "admin@example.com"})
	require.ErrorIs(t, err, assert.AnError)
}
