package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/dtroode/couponhub/internal/api/http/flash"
	"github.com/dtroode/couponhub/internal/logger"
	"github.com/dtroode/couponhub/internal/model"
)

// ResolveFunc turns a session cookie value into a session, or fails with
// model.ErrNotAuthenticated or model.ErrNotAuthorized.
type ResolveFunc func(ctx context.Context, token string) (model.Session, error)

const loginPath = "/login"

// Session reads the session cookie and stores the resolved session in the
// request context.
type Session struct {
	cookieName     string
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewSession(cookieName string, contextManager model.ContextManager, logger *logger.Logger) *Session {
	return &Session{
		cookieName:     cookieName,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Load attaches the session when the cookie resolves and lets anonymous
// requests through untouched.
func (s *Session) Load(resolve ResolveFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := s.token(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := resolve(r.Context(), token)
			if err != nil {
				if !isAuthError(err) {
					s.logger.Error("Session middleware: failed to resolve session",
						"error", err.Error())
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(s.contextManager.SetSessionToContext(r.Context(), session)))
		})
	}
}

// Require rejects requests whose cookie does not pass resolve, redirecting
// them to the login page with a flash message.
func (s *Session) Require(resolve ResolveFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := resolve(r.Context(), s.token(r))
			if err != nil {
				switch {
				case errors.Is(err, model.ErrNotAuthorized):
					flash.Set(w, flash.Danger, "Administrator access is required.")
				case errors.Is(err, model.ErrNotAuthenticated):
					flash.Set(w, flash.Danger, "Please log in to continue.")
				default:
					s.logger.Error("Session middleware: failed to resolve session",
						"path", r.URL.Path,
						"error", err.Error())
					flash.Set(w, flash.Danger, "Something went wrong. Please try again.")
				}
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r.WithContext(s.contextManager.SetSessionToContext(r.Context(), session)))
		})
	}
}

func (s *Session) token(r *http.Request) string {
	c, err := r.Cookie(s.cookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func isAuthError(err error) bool {
	return errors.Is(err, model.ErrNotAuthenticated) || errors.Is(err, model.ErrNotAuthorized)
}
