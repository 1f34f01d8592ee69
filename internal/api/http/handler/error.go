package handler

import (
	"errors"

	"github.com/dtroode/couponhub/internal/model"
)

const genericMessage = "Something went wrong. Please try again."

var messages = []struct {
	err  error
	text string
}{
	{model.ErrConsentRequired, "You must agree to the collection and use of personal information."},
	{model.ErrInvalidInput, "Please fill in every field with a valid value. Passwords can be at most 72 bytes long."},
	{model.ErrDuplicateEmail, "This email is already in use. Please use a different one."},
	{model.ErrDuplicateUsername, "This username is already taken. Please choose another one."},
	{model.ErrInvalidCredentials, "Login failed. Check your email and password."},
	{model.ErrInvalidCoupon, "Invalid coupon code."},
	{model.ErrNotAuthenticated, "Please log in to continue."},
	{model.ErrNotAuthorized, "Administrator access is required."},
}

// messageFor returns the flash text for err and whether err is a known
// user-facing failure.
func messageFor(err error) (string, bool) {
	for _, m := range messages {
		if errors.Is(err, m.err) {
			return m.text, true
		}
	}
	return genericMessage, false
}
