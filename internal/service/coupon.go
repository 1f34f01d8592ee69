package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/couponhub/internal/codegen"
	"github.com/dtroode/couponhub/internal/logger"
	"github.com/dtroode/couponhub/internal/model"
)

const manifestContentType = "text/csv"

var errManifestExists = errors.New("manifest already exported")

type Coupon struct {
	couponStore model.CouponStore
	storage     model.Storage
	tiers       []model.CouponTier
	codeLength  int
	logger      *logger.Logger
	now         func() time.Time
}

// NewCoupon builds the coupon service. storage may be nil, in which case no
// manifest is exported after seeding.
func NewCoupon(
	couponStore model.CouponStore,
	storage model.Storage,
	logger *logger.Logger,
) *Coupon {
	return &Coupon{
		couponStore: couponStore,
		storage:     storage,
		tiers:       model.InitialBatch,
		codeLength:  codegen.DefaultLength,
		logger:      logger,
		now:         time.Now,
	}
}

// IssueInitialBatch seeds the coupon table when it is empty and returns the
// number of coupons created. A table that is already seeded is not an error.
func (s *Coupon) IssueInitialBatch(ctx context.Context) (int, error) {
	n, err := s.couponStore.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count coupons: %w", err)
	}
	if n > 0 {
		s.logger.Debug("Coupon service: coupons already issued",
			"count", n)
		return 0, nil
	}

	coupons, err := s.buildBatch()
	if err != nil {
		return 0, err
	}

	err = s.couponStore.CreateBatch(ctx, coupons)
	if errors.Is(err, model.ErrAlreadySeeded) {
		s.logger.Info("Coupon service: coupons seeded concurrently, skipping")
		return 0, nil
	}
	if err != nil {
		s.logger.Error("Coupon service: failed to create batch",
			"error", err.Error())
		return 0, fmt.Errorf("failed to create coupon batch: %w", err)
	}

	s.logger.Info("Coupon service: initial batch issued",
		"count", len(coupons))

	if s.storage != nil {
		key, err := s.exportManifest(ctx, coupons)
		switch {
		case errors.Is(err, errManifestExists):
			s.logger.Warn("Coupon service: manifest key taken, skipping export",
				"key", key)
		case err != nil:
			s.logger.Error("Coupon service: failed to export manifest",
				"error", err.Error())
		default:
			s.logger.Info("Coupon service: manifest exported",
				"key", key)
		}
	}

	return len(coupons), nil
}

// Redeem marks code as used by the session's user and returns the points awarded.
func (s *Coupon) Redeem(ctx context.Context, session model.Session, code string) (int, error) {
	if !session.Active(s.now()) {
		return 0, model.ErrNotAuthenticated
	}

	code = NormalizeCode(code)
	if !codegen.Valid(code, s.codeLength) {
		s.logger.Info("Coupon service: malformed code",
			"user_id", session.UserID)
		return 0, model.ErrInvalidCoupon
	}

	coupon, err := s.couponStore.Redeem(ctx, code, session.UserID)
	if errors.Is(err, model.ErrInvalidCoupon) {
		s.logger.Info("Coupon service: rejected code",
			"user_id", session.UserID,
			"code", code)
		return 0, model.ErrInvalidCoupon
	}
	if err != nil {
		s.logger.Error("Coupon service: failed to redeem",
			"user_id", session.UserID,
			"error", err.Error())
		return 0, fmt.Errorf("failed to redeem coupon: %w", err)
	}

	s.logger.Info("Coupon service: coupon redeemed",
		"user_id", session.UserID,
		"coupon_id", coupon.ID,
		"amount", coupon.DiscountAmount)

	return coupon.DiscountAmount, nil
}

func (s *Coupon) ListRedeemed(ctx context.Context, userID uuid.UUID) ([]model.Coupon, error) {
	coupons, err := s.couponStore.ListUsedBy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list redeemed coupons: %w", err)
	}
	return coupons, nil
}

// PointsFor returns the total value of every coupon userID has redeemed.
func (s *Coupon) PointsFor(ctx context.Context, userID uuid.UUID) (int, error) {
	points, err := s.couponStore.PointsByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get points: %w", err)
	}
	return points, nil
}

func (s *Coupon) Stats(ctx context.Context) (model.CouponStats, error) {
	stats, err := s.couponStore.Stats(ctx)
	if err != nil {
		return model.CouponStats{}, fmt.Errorf("failed to get coupon stats: %w", err)
	}
	return stats, nil
}

func (s *Coupon) buildBatch() ([]model.Coupon, error) {
	total := 0
	for _, tier := range s.tiers {
		total += tier.Count
	}

	codes, err := codegen.GenerateUnique(total, s.codeLength, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate coupon codes: %w", err)
	}

	now := s.now()
	coupons := make([]model.Coupon, 0, total)
	for _, tier := range s.tiers {
		for i := 0; i < tier.Count; i++ {
			coupons = append(coupons, model.Coupon{
				ID:             uuid.New(),
				Code:           codes[len(coupons)],
				DiscountAmount: tier.Amount,
				CreatedAt:      now,
			})
		}
	}
	return coupons, nil
}

// exportManifest uploads the batch as CSV. An object already stored under the
// key is never overwritten.
func (s *Coupon) exportManifest(ctx context.Context, coupons []model.Coupon) (string, error) {
	key := ManifestKey(s.now())
	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		return key, fmt.Errorf("failed to check manifest key: %w", err)
	}
	if exists {
		return key, errManifestExists
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"code", "discount_amount"}); err != nil {
		return "", fmt.Errorf("failed to write manifest header: %w", err)
	}
	for _, c := range coupons {
		if err := w.Write([]string{c.Code, strconv.Itoa(c.DiscountAmount)}); err != nil {
			return "", fmt.Errorf("failed to write manifest row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush manifest: %w", err)
	}

	size := int64(buf.Len())
	if err := s.storage.Upload(ctx, key, &buf, size, manifestContentType); err != nil {
		return "", fmt.Errorf("failed to upload manifest: %w", err)
	}
	return key, nil
}

// ManifestKey is the object key of the initial batch manifest exported at t.
func ManifestKey(t time.Time) string {
	return "coupons/initial-batch-" + t.UTC().Format("20060102T150405Z") + ".csv"
}

// NormalizeCode trims and upper-cases a code as typed by a user.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
