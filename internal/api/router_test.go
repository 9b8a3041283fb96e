package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodhub/ordering-api/internal/core/domain"
	"github.com/foodhub/ordering-api/internal/core/ports"
	"github.com/foodhub/ordering-api/internal/core/service"
	"github.com/foodhub/ordering-api/internal/core/validation"
	"github.com/foodhub/ordering-api/internal/ratelimit"
)

const routerSecret = "router-test-signing-key-9f3c1a"

type rejectingAuth struct{ ports.AuthService }

func (rejectingAuth) Login(context.Context, validation.LoginInput) (*ports.AuthResult, error) {
	return nil, domain.ErrInvalidCredentials
}

type emptyOrders struct{ ports.OrderService }

func (emptyOrders) MyOrders(context.Context, domain.Identity) ([]*domain.Order, error) {
	return nil, nil
}

type emptyAdmin struct{ ports.AdminService }

func (emptyAdmin) Dashboard(context.Context) (*ports.Dashboard, error) {
	return &ports.Dashboard{}, nil
}

type testRouter struct {
	e      *echo.Echo
	tokens *service.TokenService
}

func newTestRouter(t *testing.T) *testRouter {
	t.Helper()
	tokens, err := service.NewTokenService(routerSecret, time.Hour)
	require.NoError(t, err)

	store := ratelimit.NewMemoryStore()
	general, err := ratelimit.New(ratelimit.Config{
		Name: "general", Prefix: "general:", Window: 15 * time.Minute, Max: 100,
		Message: "Too many requests from this IP, please try again later.",
	}, store)
	require.NoError(t, err)
	login, err := ratelimit.New(ratelimit.Config{
		Name: "login", Prefix: "login:", Window: 15 * time.Minute, Max: 5,
		Message: "Too many login attempts, please try again later.",
	}, store)
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	e := NewRouter(Deps{
		Log:            zerolog.Nop(),
		Tokens:         tokens,
		Authorizer:     service.NewAuthorizer(),
		GeneralLimiter: general,
		LoginLimiter:   login,
		AllowedOrigins: []string{"http://localhost:3000"},
		AuthService:    rejectingAuth{},
		OrderService:   emptyOrders{},
		AdminService:   emptyAdmin{},
		Registerer:     registry,
		Gatherer:       registry,
	})
	return &testRouter{e: e, tokens: tokens}
}

func (r *testRouter) do(method, target, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.RemoteAddr = "192.0.2.10:5000"
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.e.ServeHTTP(rec, req)
	return rec
}

func (r *testRouter) token(t *testing.T, role domain.Role) string {
	t.Helper()
	tok, err := r.tokens.Issue(domain.Identity{UserID: "u1", Username: "johndoe", Role: role})
	require.NoError(t, err)
	return tok
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func assertHardened(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, "DENY", rec.Header().Get(echo.HeaderXFrameOptions))
	assert.Equal(t, "nosniff", rec.Header().Get(echo.HeaderXContentTypeOptions))
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderStrictTransportSecurity))
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderContentSecurityPolicy))
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestRouter_SixthLoginIsThrottled(t *testing.T) {
	r := newTestRouter(t)
	body := `{"username":"johndoe","password":"wrong"}`

	for i := 0; i < 5; i++ {
		rec := r.do(http.MethodPost, "/api/auth/login", body, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code, "attempt %d", i+1)
		assert.Equal(t, "Invalid username or password", decode(t, rec)["error"])
	}

	rec := r.do(http.MethodPost, "/api/auth/login", body, "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Too many login attempts, please try again later.", decode(t, rec)["error"])
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderRetryAfter))
	assertHardened(t, rec)
}

func TestRouter_ForwardedForDoesNotResetLoginBudget(t *testing.T) {
	r := newTestRouter(t)
	body := `{"username":"johndoe","password":"wrong"}`

	codes := make([]int, 0, 6)
	for i := 0; i < 6; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		req.RemoteAddr = "203.0.113.9:41000"
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set(echo.HeaderXForwardedFor, fmt.Sprintf("198.51.100.%d", i+1))
		req.Header.Set(echo.HeaderXRealIP, fmt.Sprintf("198.51.100.%d", i+1))
		rec := httptest.NewRecorder()
		r.e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, http.StatusUnauthorized, codes[4])
	assert.Equal(t, http.StatusTooManyRequests, codes[5])
}

func TestClientIPExtractor(t *testing.T) {
	_, proxyNet, err := net.ParseCIDR("10.1.0.0/16")
	require.NoError(t, err)

	cases := []struct {
		name    string
		trusted []*net.IPNet
		remote  string
		xff     string
		want    string
	}{
		{"no proxies ignores header", nil, "203.0.113.9:41000", "198.51.100.7", "203.0.113.9"},
		{"trusted proxy forwards client", []*net.IPNet{proxyNet}, "10.1.2.3:41000", "198.51.100.7", "198.51.100.7"},
		{"untrusted peer ignored", []*net.IPNet{proxyNet}, "203.0.113.9:41000", "198.51.100.7", "203.0.113.9"},
		{"private peer outside range ignored", []*net.IPNet{proxyNet}, "192.168.0.5:41000", "198.51.100.7", "192.168.0.5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remote
			req.Header.Set(echo.HeaderXForwardedFor, tc.xff)
			assert.Equal(t, tc.want, clientIPExtractor(tc.trusted)(req))
		})
	}
}

func TestRouter_MissingTokenIs401(t *testing.T) {
	r := newTestRouter(t)

	rec := r.do(http.MethodGet, "/api/orders/my-orders", "", "")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, domain.MsgTokenRequired, decode(t, rec)["error"])
	assertHardened(t, rec)
}

func TestRouter_InvalidTokenIs403(t *testing.T) {
	r := newTestRouter(t)

	rec := r.do(http.MethodGet, "/api/orders/my-orders", "", "not.a.token")

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, domain.MsgTokenInvalid, decode(t, rec)["error"])
}

func TestRouter_ValidTokenReachesHandler(t *testing.T) {
	r := newTestRouter(t)

	rec := r.do(http.MethodGet, "/api/orders/my-orders", "", r.token(t, domain.RoleUser))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestRouter_AdminRoutesDenyRegularUsers(t *testing.T) {
	r := newTestRouter(t)

	rec := r.do(http.MethodGet, "/api/admin/dashboard", "", r.token(t, domain.RoleUser))
	require.Equal(t, http.StatusForbidden, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, domain.MsgAdminRequired, body["message"])
	assert.NotContains(t, body, "error")

	rec = r.do(http.MethodGet, "/api/admin/dashboard", "", r.token(t, domain.RoleAdmin))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_UnknownRouteIsHardened(t *testing.T) {
	r := newTestRouter(t)

	rec := r.do(http.MethodGet, "/nope", "", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assertHardened(t, rec)
	assert.Empty(t, rec.Header().Get(echo.HeaderServer))
}

func TestRouter_HealthIsNotRateLimited(t *testing.T) {
	r := newTestRouter(t)

	for i := 0; i < 120; i++ {
		rec := r.do(http.MethodGet, "/health", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
	}
}
