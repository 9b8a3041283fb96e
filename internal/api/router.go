package api

import (
	"net"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/foodhub/ordering-api/docs"
	"github.com/foodhub/ordering-api/internal/api/handler"
	"github.com/foodhub/ordering-api/internal/api/middleware"
	"github.com/foodhub/ordering-api/internal/core/domain"
	"github.com/foodhub/ordering-api/internal/core/ports"
	"github.com/foodhub/ordering-api/internal/ratelimit"
)

// Deps is everything the router needs; main builds it once at boot.
type Deps struct {
	Log zerolog.Logger

	Tokens     middleware.TokenVerifier
	Authorizer middleware.RoleAuthorizer
	Audit      ports.SecurityEventRecorder

	// GeneralLimiter guards every route; LoginLimiter is stacked on login.
	GeneralLimiter *ratelimit.Limiter
	LoginLimiter   *ratelimit.Limiter
	AllowedOrigins []string
	// TrustedProxies are the ranges whose X-Forwarded-For is honoured. With
	// none, limiter keys and audit entries use the socket address.
	TrustedProxies []*net.IPNet

	AuthService  ports.AuthService
	FoodService  ports.FoodService
	OrderService ports.OrderService
	AdminService ports.AdminService

	ReadinessChecks map[string]handler.Check

	// Registerer and Gatherer default to the prometheus globals.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// clientIPExtractor never trusts forwarding headers from arbitrary peers:
// rotating X-Forwarded-For must not buy a fresh rate-limit budget.
func clientIPExtractor(trusted []*net.IPNet) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, n := range trusted {
		opts = append(opts, echo.TrustIPRange(n))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	e.IPExtractor = clientIPExtractor(d.TrustedProxies)
	e.Validator = handler.NewValidator()

	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	// Security headers go first so that every later rejection carries them.
	e.Use(middleware.SecureHeaders())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:  d.AllowedOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderContentType, echo.HeaderAuthorization},
		ExposeHeaders: []string{echo.HeaderRetryAfter, echo.HeaderXRequestID},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "ordering",
		Subsystem:  "http",
		Registerer: d.Registerer,
	}))

	// --- Operational endpoints (no auth, no rate limit) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.ReadinessChecks)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- API ---
	general := middleware.RateLimit(d.GeneralLimiter, d.Audit, d.Log)
	loginLimit := middleware.RateLimit(d.LoginLimiter, d.Audit, d.Log)
	auth := middleware.Auth(d.Tokens, d.Audit)
	admin := middleware.RequireRole(d.Authorizer, domain.RoleAdmin, d.Audit)

	apiGroup := e.Group("/api", general)

	authHandler := handler.NewAuthHandler(d.AuthService, d.Audit)
	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login, loginLimit)
	authGroup.GET("/profile", authHandler.Profile, auth)
	authGroup.PUT("/profile", authHandler.UpdateProfile, auth)

	foodHandler := handler.NewFoodHandler(d.FoodService)
	foodGroup := apiGroup.Group("/food")
	foodGroup.GET("", foodHandler.List)
	foodGroup.GET("/search", foodHandler.Search)
	foodGroup.GET("/categories/list", foodHandler.Categories)
	foodGroup.GET("/:id", foodHandler.Get)
	foodGroup.POST("", foodHandler.Create, auth, admin)
	foodGroup.PUT("/:id", foodHandler.Update, auth, admin)
	foodGroup.DELETE("/:id", foodHandler.Delete, auth, admin)

	orderHandler := handler.NewOrderHandler(d.OrderService)
	orderGroup := apiGroup.Group("/orders", auth)
	orderGroup.POST("", orderHandler.Create)
	orderGroup.GET("/my-orders", orderHandler.MyOrders)
	orderGroup.GET("/:id", orderHandler.Get)
	orderGroup.PUT("/:id/cancel", orderHandler.Cancel)
	orderGroup.PUT("/:id/status", orderHandler.UpdateStatus, admin)
	orderGroup.GET("", orderHandler.List, admin)

	adminHandler := handler.NewAdminHandler(d.AdminService, d.FoodService, d.Audit)
	adminGroup := apiGroup.Group("/admin", auth, admin)
	adminGroup.POST("/verify-password", adminHandler.VerifyPassword)
	adminGroup.POST("/confirm-order/:orderId", adminHandler.ConfirmOrder)
	adminGroup.GET("/dashboard", adminHandler.Dashboard)
	adminGroup.GET("/users", adminHandler.Users)
	adminGroup.PUT("/users/:userId/role", adminHandler.SetRole)
	adminGroup.PUT("/food/:foodId/availability", adminHandler.SetAvailability)
	adminGroup.GET("/food/statistics", adminHandler.FoodStatistics)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			switch {
			case v.Status >= 500:
				ev = log.Error().Err(v.Error)
			case v.Error != nil:
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
