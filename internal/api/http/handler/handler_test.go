package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	ctxmanager "github.com/dtroode/couponhub/internal/api/http/context"
	"github.com/dtroode/couponhub/internal/api/http/flash"
	"github.com/dtroode/couponhub/internal/config"
	"github.com/dtroode/couponhub/internal/model"
	"github.com/dtroode/couponhub/internal/testutil"
)

// MockAuthService mocks the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, params model.RegisterParams) (model.User, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (model.Session, string, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(model.Session), args.String(1), args.Error(2)
}

func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthService) CurrentUser(ctx context.Context, session model.Session) (model.User, error) {
	args := m.Called(ctx, session)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockAuthService) ListUsers(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

// MockCouponService mocks the CouponService interface
type MockCouponService struct {
	mock.Mock
}

func (m *MockCouponService) Redeem(ctx context.Context, session model.Session, code string) (int, error) {
	args := m.Called(ctx, session, code)
	return args.Int(0), args.Error(1)
}

func (m *MockCouponService) ListRedeemed(ctx context.Context, userID uuid.UUID) ([]model.Coupon, error) {
	args := m.Called(ctx, userID)
	coupons, _ := args.Get(0).([]model.Coupon)
	return coupons, args.Error(1)
}

func (m *MockCouponService) PointsFor(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockCouponService) Stats(ctx context.Context) (model.CouponStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.CouponStats), args.Error(1)
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

const sessionCookie = "couponhub_session"

type fixture struct {
	h       *Handler
	auth    *MockAuthService
	coupons *MockCouponService
	ctx     *ctxmanager.Manager
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{
		auth:    &MockAuthService{},
		coupons: &MockCouponService{},
		ctx:     ctxmanager.NewManager(),
	}
	t.Cleanup(func() {
		f.auth.AssertExpectations(t)
		f.coupons.AssertExpectations(t)
	})
	f.h = New(f.auth, f.coupons, fakePinger{}, f.ctx, config.Session{CookieName: sessionCookie}, testutil.MakeNoopLogger())
	return f
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func (f fixture) withSession(req *http.Request, session model.Session) *http.Request {
	return req.WithContext(f.ctx.SetSessionToContext(req.Context(), session))
}

func activeSession(admin bool) model.Session {
	now := time.Now()
	return model.Session{ID: uuid.New(), UserID: uuid.New(), IsAdmin: admin, IssuedAt: now, ExpiresAt: now.Add(time.Hour)}
}

func flashOf(t *testing.T, rec *httptest.ResponseRecorder) flash.Message {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		if c.Name == flash.CookieName {
			req.AddCookie(c)
		}
	}
	msg, ok := flash.Pop(httptest.NewRecorder(), req)
	require.True(t, ok, "expected a flash message")
	return msg
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, target string, kind flash.Kind, text string) {
	t.Helper()
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, target, rec.Header().Get("Location"))
	msg := flashOf(t, rec)
	assert.Equal(t, kind, msg.Kind)
	assert.Equal(t, text, msg.Text)
}
