// Package mocks holds testify mocks for the model interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/couponhub/internal/model"
)

var (
	_ model.UserStore    = (*UserStore)(nil)
	_ model.CouponStore  = (*CouponStore)(nil)
	_ model.SessionStore = (*SessionStore)(nil)
)

// UserStore mocks model.UserStore.
type UserStore struct {
	mock.Mock
}

func (m *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	if fn, ok := args.Get(0).(func(context.Context, string) model.User); ok {
		return fn(ctx, email), args.Error(1)
	}
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByUsername(ctx context.Context, username string) (model.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	if fn, ok := args.Get(0).(func(context.Context, model.User) model.User); ok {
		return fn(ctx, user), args.Error(1)
	}
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

// CouponStore mocks model.CouponStore.
type CouponStore struct {
	mock.Mock
}

func (m *CouponStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *CouponStore) CreateBatch(ctx context.Context, coupons []model.Coupon) error {
	args := m.Called(ctx, coupons)
	return args.Error(0)
}

func (m *CouponStore) Redeem(ctx context.Context, code string, userID uuid.UUID) (model.Coupon, error) {
	args := m.Called(ctx, code, userID)
	return args.Get(0).(model.Coupon), args.Error(1)
}

func (m *CouponStore) ListUsedBy(ctx context.Context, userID uuid.UUID) ([]model.Coupon, error) {
	args := m.Called(ctx, userID)
	coupons, _ := args.Get(0).([]model.Coupon)
	return coupons, args.Error(1)
}

func (m *CouponStore) PointsByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *CouponStore) Stats(ctx context.Context) (model.CouponStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.CouponStats), args.Error(1)
}

// SessionStore mocks model.SessionStore.
type SessionStore struct {
	mock.Mock
}

func (m *SessionStore) Create(ctx context.Context, session model.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *SessionStore) GetByID(ctx context.Context, id uuid.UUID) (model.Session, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Session), args.Error(1)
}

func (m *SessionStore) Revoke(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
