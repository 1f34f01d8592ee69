package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/couponhub/internal/logger"
	"github.com/dtroode/couponhub/internal/model"
)

type Auth struct {
	userStore model.UserStore
	hasher    model.PasswordHasher
	sessions  *SessionService
	logger    *logger.Logger
	now       func() time.Time
}

func NewAuth(
	userStore model.UserStore,
	hasher model.PasswordHasher,
	sessions *SessionService,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore: userStore,
		hasher:    hasher,
		sessions:  sessions,
		logger:    logger,
		now:       time.Now,
	}
}

func (a *Auth) Register(ctx context.Context, params model.RegisterParams) (model.User, error) {
	params.Username = strings.TrimSpace(params.Username)
	params.Email = normalizeEmail(params.Email)
	params.Phone = strings.TrimSpace(params.Phone)

	a.logger.Debug("Auth service: starting user registration",
		"email", params.Email,
		"username", params.Username)

	if !params.Consent {
		a.logger.Info("Auth service: registration without consent",
			"email", params.Email)
		return model.User{}, model.ErrConsentRequired
	}

	if err := validateRegistration(params); err != nil {
		return model.User{}, err
	}

	if err := a.checkAvailable(ctx, params.Email, params.Username); err != nil {
		return model.User{}, err
	}

	user, err := a.createUser(ctx, params.Username, params.Email, params.Phone, params.Password, false)
	if err != nil {
		return model.User{}, err
	}

	a.logger.Info("Auth service: user registered",
		"user_id", user.ID,
		"email", user.Email)

	return user, nil
}

func (a *Auth) Login(ctx context.Context, email, password string) (model.Session, string, error) {
	email = normalizeEmail(email)

	a.logger.Debug("Auth service: starting user login",
		"email", email)

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		a.logger.Info("Auth service: login for unknown email",
			"email", email)
		return model.Session{}, "", model.ErrInvalidCredentials
	}
	if err != nil {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.Session{}, "", fmt.Errorf("failed to get user by email: %w", err)
	}

	err = a.hasher.Compare(user.PasswordHash, password)
	if errors.Is(err, model.ErrPasswordMismatch) {
		a.logger.Info("Auth service: password mismatch",
			"user_id", user.ID)
		return model.Session{}, "", model.ErrInvalidCredentials
	}
	if err != nil {
		return model.Session{}, "", fmt.Errorf("failed to compare password: %w", err)
	}

	session, token, err := a.sessions.Issue(ctx, user)
	if err != nil {
		a.logger.Error("Auth service: failed to issue session",
			"user_id", user.ID,
			"error", err.Error())
		return model.Session{}, "", fmt.Errorf("failed to issue session: %w", err)
	}

	a.logger.Info("Auth service: user logged in",
		"user_id", user.ID,
		"session_id", session.ID,
		"admin", session.IsAdmin)

	return session, token, nil
}

// Logout revokes the session behind token. Absent or invalid tokens are a no-op.
func (a *Auth) Logout(ctx context.Context, token string) error {
	if err := a.sessions.Revoke(ctx, token); err != nil {
		a.logger.Error("Auth service: failed to revoke session",
			"error", err.Error())
		return err
	}
	return nil
}

func (a *Auth) RequireSession(ctx context.Context, token string) (model.Session, error) {
	return a.sessions.Resolve(ctx, token)
}

func (a *Auth) RequireAdmin(ctx context.Context, token string) (model.Session, error) {
	session, err := a.sessions.Resolve(ctx, token)
	if err != nil {
		return model.Session{}, err
	}
	if !session.IsAdmin {
		a.logger.Info("Auth service: admin access denied",
			"user_id", session.UserID)
		return model.Session{}, model.ErrNotAuthorized
	}
	return session, nil
}

func (a *Auth) CurrentUser(ctx context.Context, session model.Session) (model.User, error) {
	if !session.Active(a.now()) {
		return model.User{}, model.ErrNotAuthenticated
	}

	user, err := a.userStore.GetByID(ctx, session.UserID)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, model.ErrNotAuthenticated
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

func (a *Auth) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := a.userStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (a *Auth) checkAvailable(ctx context.Context, email, username string) error {
	existing, err := a.userStore.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return fmt.Errorf("failed to get user by email: %w", err)
	}
	if existing.ID != uuid.Nil {
		a.logger.Info("Auth service: email already registered",
			"email", email)
		return model.ErrDuplicateEmail
	}

	existing, err = a.userStore.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("failed to get user by username: %w", err)
	}
	if existing.ID != uuid.Nil {
		a.logger.Info("Auth service: username already taken",
			"username", username)
		return model.ErrDuplicateUsername
	}

	return nil
}

func (a *Auth) createUser(ctx context.Context, username, email, phone, password string, admin bool) (model.User, error) {
	hash, err := a.hasher.Hash(password)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := a.userStore.Create(ctx, model.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
		ConsentGiven: true,
		IsAdmin:      admin,
		CreatedAt:    a.now(),
	})
	if err != nil {
		if errors.Is(err, model.ErrDuplicateEmail) || errors.Is(err, model.ErrDuplicateUsername) {
			return model.User{}, err
		}
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func validateRegistration(params model.RegisterParams) error {
	switch {
	case params.Username == "":
		return fmt.Errorf("%w: username is required", model.ErrInvalidInput)
	case params.Email == "" || !strings.Contains(params.Email, "@"):
		return fmt.Errorf("%w: a valid email is required", model.ErrInvalidInput)
	}
	return validatePassword(params.Password)
}

func validatePassword(password string) error {
	switch {
	case password == "":
		return fmt.Errorf("%w: password is required", model.ErrInvalidInput)
	case len(password) > model.MaxPasswordBytes:
		return fmt.Errorf("%w: password must be at most %d bytes", model.ErrInvalidInput, model.MaxPasswordBytes)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
