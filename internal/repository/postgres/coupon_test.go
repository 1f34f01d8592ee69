package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/couponhub/internal/model"
)

var couponRowColumns = []string{"id", "code", "discount_amount", "is_used", "used_by", "used_at", "created_at"}

func TestCouponRepository_Count(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewCouponRepository(conn)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM coupons`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(100))

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 100, n)
}

func testBatch(n int) []model.Coupon {
	coupons := make([]model.Coupon, n)
	for i := range coupons {
		coupons[i] = model.Coupon{ID: uuid.New(), Code: uuid.NewString()[:8], DiscountAmount: 1000}
	}
	return coupons
}

func TestCouponRepository_CreateBatch(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewCouponRepository(conn)
	batch := testBatch(3)

	mock.ExpectBegin()
	mock.ExpectExec(`LOCK TABLE coupons`).WillReturnResult(pgxmock.NewResult("LOCK TABLE", 0))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM coupons`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectCopyFrom(pgx.Identifier{"coupons"}, copyColumns).WillReturnResult(3)
	mock.ExpectCommit()

	require.NoError(t, repo.CreateBatch(context.Background(), batch))
}

func TestCouponRepository_CreateBatch_AlreadySeeded(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewCouponRepository(conn)

	mock.ExpectBegin()
	mock.ExpectExec(`LOCK TABLE coupons`).WillReturnResult(pgxmock.NewResult("LOCK TABLE", 0))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM coupons`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(100))
	mock.ExpectRollback()

	err := repo.CreateBatch(context.Background(), testBatch(3))
	require.ErrorIs(t, err, model.ErrAlreadySeeded)
}

func TestCouponRepository_CreateBatch_CopyFails(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewCouponRepository(conn)

	mock.ExpectBegin()
	mock.ExpectExec(`LOCK TABLE coupons`).WillReturnResult(pgxmock.NewResult("LOCK TABLE", 0))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM coupons`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectCopyFrom(pgx.Identifier{"coupons"}, copyColumns).WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	err := repo.CreateBatch(context.Background(), testBatch(2))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert coupons")
}

func TestCouponRepository_Redeem(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewCouponRepository(conn)
	userID := uuid.New()
	usedAt := time.Now()
	id := uuid.New()

	mock.ExpectQuery(`UPDATE coupons SET is_used = TRUE`).
		WithArgs("ABCD1234", userID).
		WillReturnRows(pgxmock.NewRows(couponRowColumns).
			AddRow(id, "ABCD1234", 1000, true, &userID, &usedAt, usedAt))

	c, err := repo.Redeem(context.Background(), "ABCD1234", userID)
	require.NoError(t, err)
	assert.Equal(t, id, c.ID)
	assert.Equal(t, 1000, c.DiscountAmount)
	assert.True(t, c.IsUsed)
	require.NotNil(t, c.UsedBy)
	assert.Equal(t, userID, *c.UsedBy)
}

func TestCouponRepository_Redeem_Invalid(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewCouponRepository(conn)
	userID := uuid.New()

	mock.ExpectQuery(`UPDATE coupons SET is_used = TRUE`).
		WithArgs("USEDCODE", userID).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.Redeem(context.Background(), "USEDCODE", userID)
	require.ErrorIs(t, err, model.ErrInvalidCoupon)
}

func TestCouponRepository_Redeem_DBError(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewCouponRepository(conn)
	userID := uuid.New()

	mock.ExpectQuery(`UPDATE coupons SET is_used = TRUE`).
		WithArgs("ABCD1234", userID).
		WillReturnError(errors.New("timeout"))

	_, err := repo.Redeem(context.Background(), "ABCD1234", userID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrInvalidCoupon)
}

func TestCouponRepository_ListUsedBy(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewCouponRepository(conn)
	userID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`FROM coupons WHERE used_by = \$1`).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows(couponRowColumns).
			AddRow(uuid.New(), "AAAA1111", 2000, true, &userID, &now, now).
			AddRow(uuid.New(), "BBBB2222", 1000, true, &userID, &now, now))

	coupons, err := repo.ListUsedBy(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, coupons, 2)
	assert.Equal(t, "AAAA1111", coupons[0].Code)
}

func TestCouponRepository_PointsByUser(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewCouponRepository(conn)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(discount_amount\), 0\) FROM coupons WHERE used_by = \$1`).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"points"}).AddRow(3000))

	points, err := repo.PointsByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 3000, points)

	mock.ExpectQuery(`FROM coupons WHERE used_by`).
		WithArgs(userID).
		WillReturnError(errors.New("timeout"))

	_, err = repo.PointsByUser(context.Background(), userID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to sum redeemed points")
}

func TestCouponRepository_Stats(t *testing.T) {
	conn, mock := newMockConnection(t)
	repo := NewCouponRepository(conn)

	mock.ExpectQuery(`FROM coupons`).
		WillReturnRows(pgxmock.NewRows([]string{"total", "used", "issued", "redeemed"}).AddRow(100, 3, 110000, 4000))

	s, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.CouponStats{Total: 100, Used: 3, PointsIssued: 110000, PointsRedeemed: 4000}, s)
	assert.Equal(t, 97, s.Remaining())
}
