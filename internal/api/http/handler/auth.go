package handler

import (
	"net/http"

	"github.com/dtroode/couponhub/internal/api/http/flash"
	"github.com/dtroode/couponhub/internal/model"
)

func (h *Handler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "register", "Sign up", nil)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirect(w, r, flash.Danger, "Could not read the form. Please try again.", pathRegister)
		return
	}

	params := model.RegisterParams{
		Username: r.PostForm.Get("username"),
		Email:    r.PostForm.Get("email"),
		Phone:    r.PostForm.Get("phone"),
		Password: r.PostForm.Get("password"),
		Consent:  r.PostForm.Has("consent"),
	}

	if _, err := h.auth.Register(r.Context(), params); err != nil {
		h.fail(w, r, err, pathRegister)
		return
	}

	h.redirect(w, r, flash.Success, "Registration complete. Please log in.", pathLogin)
}

func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login", "Log in", nil)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirect(w, r, flash.Danger, "Could not read the form. Please try again.", pathLogin)
		return
	}

	session, token, err := h.auth.Login(r.Context(), r.PostForm.Get("email"), r.PostForm.Get("password"))
	if err != nil {
		h.fail(w, r, err, pathLogin)
		return
	}

	h.setSessionCookie(w, token, session.ExpiresAt)

	target := pathDashboard
	if session.IsAdmin {
		target = pathAdminDashboard
	}
	h.redirect(w, r, flash.Success, "Logged in successfully!", target)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), h.sessionToken(r)); err != nil {
		h.logger.Error("HTTP handler: failed to log out",
			"error", err.Error())
	}
	h.clearSessionCookie(w)
	h.redirect(w, r, flash.Success, "You have been logged out.", pathLogin)
}
