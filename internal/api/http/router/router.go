// Package router wires the web routes and their middleware.
package router

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dtroode/couponhub/internal/api/http/handler"
	"github.com/dtroode/couponhub/internal/api/http/middleware"
	"github.com/dtroode/couponhub/internal/config"
	"github.com/dtroode/couponhub/internal/logger"
	"github.com/dtroode/couponhub/internal/model"
)

// AuthService is what the web layer needs from authentication.
type AuthService interface {
	handler.AuthService
	RequireSession(ctx context.Context, token string) (model.Session, error)
	RequireAdmin(ctx context.Context, token string) (model.Session, error)
}

type Router struct {
	auth           AuthService
	coupons        handler.CouponService
	db             handler.Pinger
	contextManager model.ContextManager
	cookie         config.Session
	logger         *logger.Logger
}

func New(
	auth AuthService,
	coupons handler.CouponService,
	db handler.Pinger,
	contextManager model.ContextManager,
	cookie config.Session,
	logger *logger.Logger,
) *Router {
	return &Router{
		auth:           auth,
		coupons:        coupons,
		db:             db,
		contextManager: contextManager,
		cookie:         cookie,
		logger:         logger,
	}
}

// Register builds the HTTP handler. Public pages see the session when there
// is one, user pages require a session and the admin page an admin session.
func (r *Router) Register() http.Handler {
	h := handler.New(r.auth, r.coupons, r.db, r.contextManager, r.cookie, r.logger)
	logging := middleware.NewLogging(r.logger)
	session := middleware.NewSession(r.cookie.CookieName, r.contextManager, r.logger)

	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(chimw.RealIP)
	mux.Use(logging.Handle)
	mux.Use(chimw.Recoverer)

	mux.Get("/healthz", h.Healthz)
	mux.Get("/logout", h.Logout)

	mux.Group(func(mux chi.Router) {
		mux.Use(session.Load(r.auth.RequireSession))

		mux.Get("/", h.Index)
		mux.Get("/service_info", h.ServiceInfo)
		mux.Get("/some_auction_route", h.Auction)
		mux.Get("/rentals", h.Rentals)
		mux.Get("/register", h.RegisterForm)
		mux.Post("/register", h.Register)
		mux.Get("/login", h.LoginForm)
		mux.Post("/login", h.Login)
	})

	mux.Group(func(mux chi.Router) {
		mux.Use(session.Require(r.auth.RequireSession))

		mux.Get("/dashboard", h.Dashboard)
		mux.Post("/apply_coupon", h.ApplyCoupon)
	})

	mux.Group(func(mux chi.Router) {
		mux.Use(session.Require(r.auth.RequireAdmin))

		mux.Get("/admin_dashboard", h.AdminDashboard)
	})

	return mux
}
