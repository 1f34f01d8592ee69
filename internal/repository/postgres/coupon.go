package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/couponhub/internal/model"
)

var _ model.CouponStore = (*CouponRepository)(nil)

type CouponRepository struct {
	db *Connection
}

func NewCouponRepository(db *Connection) *CouponRepository {
	return &CouponRepository{db: db}
}

const couponColumns = `id, code, discount_amount, is_used, used_by, used_at, created_at`

var copyColumns = []string{"id", "code", "discount_amount", "is_used", "created_at"}

func (r *CouponRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM coupons`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count coupons: %w", err)
	}
	return n, nil
}

// CreateBatch locks the table so concurrent seeders serialize, then inserts
// the whole batch with COPY if the table is still empty.
func (r *CouponRepository) CreateBatch(ctx context.Context, coupons []model.Coupon) error {
	return r.db.execTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `LOCK TABLE coupons IN SHARE ROW EXCLUSIVE MODE`); err != nil {
			return fmt.Errorf("failed to lock coupons: %w", err)
		}

		var n int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM coupons`).Scan(&n); err != nil {
			return fmt.Errorf("failed to count coupons: %w", err)
		}
		if n > 0 {
			return model.ErrAlreadySeeded
		}

		now := time.Now()
		rows := make([][]any, 0, len(coupons))
		for _, c := range coupons {
			if c.ID == uuid.Nil {
				c.ID = uuid.New()
			}
			if c.CreatedAt.IsZero() {
				c.CreatedAt = now
			}
			rows = append(rows, []any{c.ID, c.Code, c.DiscountAmount, false, c.CreatedAt})
		}

		copied, err := tx.CopyFrom(ctx, pgx.Identifier{"coupons"}, copyColumns, pgx.CopyFromRows(rows))
		if err != nil {
			return fmt.Errorf("failed to insert coupons: %w", err)
		}
		if int(copied) != len(coupons) {
			return fmt.Errorf("inserted %d coupons, expected %d", copied, len(coupons))
		}

		return nil
	})
}

// Redeem marks the coupon used in a single guarded statement, so of several
// concurrent attempts on one code exactly one sees a returned row.
func (r *CouponRepository) Redeem(ctx context.Context, code string, userID uuid.UUID) (model.Coupon, error) {
	query := `UPDATE coupons SET is_used = TRUE, used_by = $2, used_at = NOW()
			  WHERE code = $1 AND is_used = FALSE
			  RETURNING ` + couponColumns

	var c model.Coupon
	err := r.db.QueryRow(ctx, query, code, userID).Scan(
		&c.ID, &c.Code, &c.DiscountAmount, &c.IsUsed, &c.UsedBy, &c.UsedAt, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Coupon{}, model.ErrInvalidCoupon
		}
		return model.Coupon{}, fmt.Errorf("failed to redeem coupon: %w", err)
	}

	return c, nil
}

func (r *CouponRepository) ListUsedBy(ctx context.Context, userID uuid.UUID) ([]model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE used_by = $1 ORDER BY used_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list redeemed coupons: %w", err)
	}
	defer rows.Close()

	var coupons []model.Coupon
	for rows.Next() {
		var c model.Coupon
		if err := rows.Scan(&c.ID, &c.Code, &c.DiscountAmount, &c.IsUsed, &c.UsedBy, &c.UsedAt, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan coupon: %w", err)
		}
		coupons = append(coupons, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate coupons: %w", err)
	}

	return coupons, nil
}

func (r *CouponRepository) PointsByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	const query = `SELECT COALESCE(SUM(discount_amount), 0) FROM coupons WHERE used_by = $1`

	var points int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&points); err != nil {
		return 0, fmt.Errorf("failed to sum redeemed points: %w", err)
	}
	return points, nil
}

func (r *CouponRepository) Stats(ctx context.Context) (model.CouponStats, error) {
	query := `SELECT COUNT(*),
			         COUNT(*) FILTER (WHERE is_used),
			         COALESCE(SUM(discount_amount), 0),
			         COALESCE(SUM(discount_amount) FILTER (WHERE is_used), 0)
			  FROM coupons`

	var s model.CouponStats
	if err := r.db.QueryRow(ctx, query).Scan(&s.Total, &s.Used, &s.PointsIssued, &s.PointsRedeemed); err != nil {
		return model.CouponStats{}, fmt.Errorf("failed to get coupon stats: %w", err)
	}
	return s, nil
}
