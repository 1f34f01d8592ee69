package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CouponStore defines persistence operations for coupons.
type CouponStore interface {
	Count(ctx context.Context) (int, error)
	// CreateBatch inserts all coupons in one transaction, only if no coupon exists yet.
	CreateBatch(ctx context.Context, coupons []Coupon) error
	// Redeem flips an unused coupon to used for userID. Unknown or used codes yield ErrInvalidCoupon.
	Redeem(ctx context.Context, code string, userID uuid.UUID) (Coupon, error)
	ListUsedBy(ctx context.Context, userID uuid.UUID) ([]Coupon, error)
	// PointsByUser sums the discount amounts of the coupons userID redeemed.
	PointsByUser(ctx context.Context, userID uuid.UUID) (int, error)
	Stats(ctx context.Context) (CouponStats, error)
}

// Coupon is a single-use code worth a fixed amount of points.
type Coupon struct {
	ID             uuid.UUID
	Code           string
	DiscountAmount int
	IsUsed         bool
	UsedBy         *uuid.UUID
	UsedAt         *time.Time
	CreatedAt      time.Time
}

// CouponStats aggregates the coupon table for the admin dashboard.
type CouponStats struct {
	Total          int
	Used           int
	PointsIssued   int
	PointsRedeemed int
}

// Remaining returns the number of coupons still redeemable.
func (s CouponStats) Remaining() int {
	return s.Total - s.Used
}

// CouponTier is a group of coupons of the same value in the initial batch.
type CouponTier struct {
	Count  int
	Amount int
}

// InitialBatch is the coupon set issued on first startup.
var InitialBatch = []CouponTier{
	{Count: 10, Amount: 2000},
	{Count: 90, Amount: 1000},
}
