package handler

import (
	"fmt"
	"net/http"

	"github.com/dtroode/couponhub/internal/api/http/flash"
	"github.com/dtroode/couponhub/internal/model"
)

type dashboardData struct {
	User    model.User
	Coupons []model.Coupon
	Points  int
}

type adminDashboardData struct {
	Users []model.User
	Stats model.CouponStats
}

func (h *Handler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	session, ok := h.currentSession(r)
	if !ok {
		h.fail(w, r, model.ErrNotAuthenticated, pathLogin)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.redirect(w, r, flash.Danger, "Could not read the form. Please try again.", pathDashboard)
		return
	}

	awarded, err := h.coupons.Redeem(r.Context(), session, r.PostForm.Get("coupon_code"))
	if err != nil {
		h.fail(w, r, err, pathDashboard)
		return
	}

	h.redirect(w, r, flash.Success, fmt.Sprintf("%d points have been added!", awarded), pathDashboard)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	session, ok := h.currentSession(r)
	if !ok {
		h.fail(w, r, model.ErrNotAuthenticated, pathLogin)
		return
	}

	user, err := h.auth.CurrentUser(r.Context(), session)
	if err != nil {
		h.fail(w, r, err, pathIndex)
		return
	}

	coupons, err := h.coupons.ListRedeemed(r.Context(), user.ID)
	if err != nil {
		h.fail(w, r, err, pathIndex)
		return
	}

	points, err := h.coupons.PointsFor(r.Context(), user.ID)
	if err != nil {
		h.fail(w, r, err, pathIndex)
		return
	}

	h.render(w, r, "dashboard", "Dashboard", dashboardData{
		User:    user,
		Coupons: coupons,
		Points:  points,
	})
}

func (h *Handler) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	session, ok := h.currentSession(r)
	if !ok || !session.IsAdmin {
		h.fail(w, r, model.ErrNotAuthorized, pathLogin)
		return
	}

	users, err := h.auth.ListUsers(r.Context())
	if err != nil {
		h.fail(w, r, err, pathIndex)
		return
	}

	stats, err := h.coupons.Stats(r.Context())
	if err != nil {
		h.fail(w, r, err, pathIndex)
		return
	}

	h.render(w, r, "admin_dashboard", "Admin dashboard", adminDashboardData{
		Users: users,
		Stats: stats,
	})
}
