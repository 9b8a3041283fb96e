package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodhub/ordering-api/internal/core/domain"
	"github.com/foodhub/ordering-api/internal/ratelimit"
)

func newLoginLimiter(t *testing.T, store ratelimit.WindowStore, now func() time.Time) *ratelimit.Limiter {
	t.Helper()
	l, err := ratelimit.New(ratelimit.Config{
		Name:       "login",
		Prefix:     "login:",
		Window:     15 * time.Minute,
		Max:        5,
		Message:    "Too many login attempts, please try again later.",
		FailClosed: true,
	}, store, ratelimit.WithClock(now))
	require.NoError(t, err)
	return l
}

func hit(mw echo.MiddlewareFunc, ip string) (error, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = ip + ":40000"
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
	return err, rec
}

func TestRateLimit_SixthRequestRejected(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	now := start
	audit := &recordingAudit{}
	mw := RateLimit(newLoginLimiter(t, ratelimit.NewMemoryStore(), func() time.Time { return now }), audit, zerolog.Nop())

	for i := 0; i < 5; i++ {
		err, rec := hit(mw, "10.0.0.1")
		require.NoError(t, err, "request %d", i+1)
		assert.Empty(t, rec.Header().Get(echo.HeaderRetryAfter))
	}

	now = start.Add(10 * time.Minute)
	err, rec := hit(mw, "10.0.0.1")
	var rl *domain.RateLimitError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, "Too many login attempts, please try again later.", rl.Message)
	assert.Equal(t, 5*time.Minute, rl.RetryAfter)
	assert.Equal(t, "300", rec.Header().Get(echo.HeaderRetryAfter))
	require.Len(t, audit.events, 1)
	assert.Equal(t, domain.EventRateLimited, audit.events[0].Kind)
	assert.Equal(t, "10.0.0.1", audit.events[0].ClientIP)

	err, _ = hit(mw, "10.0.0.2")
	assert.NoError(t, err, "other clients keep their own budget")
}

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (ratelimit.Window, error) {
	return ratelimit.Window{}, errors.New("store down")
}

func (brokenStore) Increment(context.Context, string) (ratelimit.Window, error) {
	return ratelimit.Window{}, errors.New("store down")
}

func (brokenStore) Reset(context.Context, string, time.Time, time.Duration) (ratelimit.Window, error) {
	return ratelimit.Window{}, errors.New("store down")
}

func TestRateLimit_StoreFailureLetsRequestThrough(t *testing.T) {
	general, err := ratelimit.New(ratelimit.Config{
		Name:    "general",
		Prefix:  "general:",
		Window:  15 * time.Minute,
		Max:     100,
		Message: "Too many requests from this IP, please try again later.",
	}, brokenStore{})
	require.NoError(t, err)
	mw := RateLimit(general, nil, zerolog.Nop())

	err, rec := hit(mw, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit_FailClosedRefusesWhenStoreDown(t *testing.T) {
	mw := RateLimit(newLoginLimiter(t, brokenStore{}, time.Now), nil, zerolog.Nop())
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/auth/login", nil), httptest.NewRecorder())

	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return nil
	})(c)

	require.ErrorIs(t, err, domain.ErrLimiterUnavailable)
	assert.False(t, called)
}

func TestRateLimit_UsesSocketAddressWhenExtractorSet(t *testing.T) {
	mw := RateLimit(newLoginLimiter(t, ratelimit.NewMemoryStore(), time.Now), nil, zerolog.Nop())
	e := echo.New()
	e.IPExtractor = echo.ExtractIPDirect()

	var last error
	for i := 0; i < 6; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "203.0.113.9:40000"
		req.Header.Set(echo.HeaderXForwardedFor, fmt.Sprintf("198.51.100.%d", i+1))
		c := e.NewContext(req, httptest.NewRecorder())
		last = mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
	}

	var rl *domain.RateLimitError
	assert.ErrorAs(t, last, &rl)
}
