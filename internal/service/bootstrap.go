package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/couponhub/internal/model"
)

// EnsureAdmin creates the provisioned administrator unless a user with its
// email already exists. It reports whether an account was created.
func (a *Auth) EnsureAdmin(ctx context.Context, params model.AdminParams) (bool, error) {
	email := normalizeEmail(params.Email)

	existing, err := a.userStore.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return false, fmt.Errorf("failed to get user by email: %w", err)
	}
	if existing.ID != uuid.Nil {
		a.logger.Debug("Auth service: admin already provisioned",
			"email", email)
		return false, nil
	}

	if params.Username == "" || email == "" {
		return false, fmt.Errorf("%w: admin username and email are required", model.ErrInvalidInput)
	}
	if err := validatePassword(params.Password); err != nil {
		return false, fmt.Errorf("invalid admin password: %w", err)
	}

	user, err := a.createUser(ctx, params.Username, email, params.Phone, params.Password, true)
	if err != nil {
		return false, err
	}

	a.logger.Info("Auth service: admin provisioned",
		"user_id", user.ID,
		"email", user.Email)

	return true, nil
}

// Bootstrap runs the startup side effects: provisioning the administrator and
// seeding the initial coupon batch.
func Bootstrap(ctx context.Context, auth *Auth, coupons *Coupon, admin model.AdminParams) error {
	if _, err := auth.EnsureAdmin(ctx, admin); err != nil {
		return fmt.Errorf("failed to provision admin: %w", err)
	}
	if _, err := coupons.IssueInitialBatch(ctx); err != nil {
		return fmt.Errorf("failed to issue initial coupons: %w", err)
	}
	return nil
}
