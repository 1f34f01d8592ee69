// Package handler serves the server-rendered pages of the web application.
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/couponhub/internal/api/http/flash"
	"github.com/dtroode/couponhub/internal/config"
	"github.com/dtroode/couponhub/internal/logger"
	"github.com/dtroode/couponhub/internal/model"
)

type AuthService interface {
	Register(ctx context.Context, params model.RegisterParams) (model.User, error)
	Login(ctx context.Context, email, password string) (model.Session, string, error)
	Logout(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, session model.Session) (model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
}

type CouponService interface {
	Redeem(ctx context.Context, session model.Session, code string) (int, error)
	ListRedeemed(ctx context.Context, userID uuid.UUID) ([]model.Coupon, error)
	PointsFor(ctx context.Context, userID uuid.UUID) (int, error)
	Stats(ctx context.Context) (model.CouponStats, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

const (
	pathIndex          = "/"
	pathRegister       = "/register"
	pathLogin          = "/login"
	pathDashboard      = "/dashboard"
	pathAdminDashboard = "/admin_dashboard"
)

type Handler struct {
	auth           AuthService
	coupons        CouponService
	db             Pinger
	contextManager model.ContextManager
	cookie         config.Session
	logger         *logger.Logger
}

func New(
	auth AuthService,
	coupons CouponService,
	db Pinger,
	contextManager model.ContextManager,
	cookie config.Session,
	logger *logger.Logger,
) *Handler {
	return &Handler{
		auth:           auth,
		coupons:        coupons,
		db:             db,
		contextManager: contextManager,
		cookie:         cookie,
		logger:         logger,
	}
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, kind flash.Kind, text, target string) {
	flash.Set(w, kind, text)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// fail flashes the user-facing message for err and redirects to target.
// Errors without a message of their own are logged.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, target string) {
	text, known := messageFor(err)
	if !known {
		h.logger.Error("HTTP handler: request failed",
			"path", r.URL.Path,
			"error", err.Error())
	}
	if errors.Is(err, model.ErrNotAuthenticated) || errors.Is(err, model.ErrNotAuthorized) {
		target = pathLogin
	}
	h.redirect(w, r, flash.Danger, text, target)
}

func (h *Handler) sessionToken(r *http.Request) string {
	c, err := r.Cookie(h.cookie.CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.cookie.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
