package model

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")

	ErrDuplicateEmail     = errors.New("email is already registered")
	ErrDuplicateUsername  = errors.New("username is already taken")
	ErrConsentRequired    = errors.New("consent to data processing is required")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrNotAuthorized      = errors.New("not authorized")
	ErrPasswordMismatch   = errors.New("password does not match")

	// ErrInvalidCoupon covers unknown, mistyped and already used codes alike.
	ErrInvalidCoupon = errors.New("invalid coupon code")
	// ErrAlreadySeeded is returned by CouponStore.CreateBatch when the table is not empty.
	ErrAlreadySeeded = errors.New("coupons already issued")
)
