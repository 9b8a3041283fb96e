// Command api serves the food ordering HTTP API.
//
// @title           Food Ordering API
// @version         1.0
// @description     Catalog, orders and admin console behind a request-security pipeline.
// @BasePath        /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/foodhub/ordering-api/internal/api"
	"github.com/foodhub/ordering-api/internal/api/handler"
	"github.com/foodhub/ordering-api/internal/core/service"
	"github.com/foodhub/ordering-api/internal/core/validation"
	"github.com/foodhub/ordering-api/internal/infrastructure/db/mongo"
	"github.com/foodhub/ordering-api/internal/infrastructure/db/redis"
	"github.com/foodhub/ordering-api/internal/infrastructure/queue"
	"github.com/foodhub/ordering-api/internal/pkg/config"
	"github.com/foodhub/ordering-api/internal/ratelimit"
	"github.com/foodhub/ordering-api/pkg/logger"
)

const (
	shutdownTimeout = 15 * time.Second
	pruneInterval   = time.Minute
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		bootLog := logger.Init(logger.Options{Service: "ordering-api"})
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "ordering-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Storage ---
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()

	users := mongo.NewUserRepository(db)
	foods := mongo.NewFoodRepository(db)
	orders := mongo.NewOrderRepository(db)
	events := mongo.NewSecurityEventRepository(db)
	if err := mongo.EnsureIndexes(ctx, users, foods, orders, events); err != nil {
		return err
	}

	checks := map[string]handler.Check{
		"mongodb": func(ctx context.Context) error { return mongo.Ping(ctx, db) },
	}

	// --- Rate-limit windows ---
	var store ratelimit.WindowStore
	switch cfg.RateLimit.Store {
	case config.StoreRedis:
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()
		store = redis.NewWindowStore(rdb)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	default:
		mem := ratelimit.NewMemoryStore()
		maxAge := max(cfg.RateLimit.Window, cfg.RateLimit.AuthWindow)
		go mem.RunPruner(ctx, pruneInterval, maxAge)
		store = mem
	}

	general, err := ratelimit.New(ratelimit.Config{
		Name:    "general",
		Prefix:  "general:",
		Window:  cfg.RateLimit.Window,
		Max:     cfg.RateLimit.Max,
		Message: "Too many requests from this IP, please try again later.",
	}, store)
	if err != nil {
		return err
	}
	login, err := ratelimit.New(ratelimit.Config{
		Name:       "login",
		Prefix:     "login:",
		Window:     cfg.RateLimit.AuthWindow,
		Max:        cfg.RateLimit.AuthMax,
		Message:    "Too many login attempts, please try again later.",
		FailClosed: true,
	}, store)
	if err != nil {
		return err
	}

	// --- Audit trail ---
	// The dispatcher outlives the request context so queued events are
	// persisted after the server stops accepting connections.
	auditCtx, stopAudit := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, events, log)
	dispatcher.Start(auditCtx)
	defer func() {
		stopAudit()
		dispatcher.Wait()
	}()

	proxies, err := cfg.ProxyRanges()
	if err != nil {
		return err
	}

	// --- Services ---
	tokens, err := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}
	mode, err := validation.ParseMode(cfg.ValidationMode)
	if err != nil {
		return err
	}
	adminService, err := service.NewAdminService(cfg.AdminPassword, users, orders, log)
	if err != nil {
		return err
	}
	authService := service.NewAuthService(
		users,
		service.NewBcryptHasher(bcrypt.DefaultCost),
		tokens,
		validation.NewAggregatingValidator(mode),
		log,
	)

	e := api.NewRouter(api.Deps{
		Log:             log,
		Tokens:          tokens,
		Authorizer:      service.NewAuthorizer(),
		Audit:           dispatcher,
		GeneralLimiter:  general,
		LoginLimiter:    login,
		AllowedOrigins:  cfg.AllowedOrigins,
		TrustedProxies:  proxies,
		AuthService:     authService,
		FoodService:     service.NewFoodService(foods, log),
		OrderService:    service.NewOrderService(orders, foods, users, log),
		AdminService:    adminService,
		ReadinessChecks: checks,
	})

	// --- Serve until signalled ---
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("validation_mode", string(mode)).Str("rate_limit_store", cfg.RateLimit.Store).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}
