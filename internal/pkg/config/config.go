package config

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/foodhub/ordering-api/internal/core/service"
	"github.com/foodhub/ordering-api/internal/core/validation"
)

// Rate-limit store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type Config struct {
	Port     string `env:"PORT,      default=5000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWTSecret      string        `env:"JWT_SECRET"`
	TokenTTL       time.Duration `env:"TOKEN_TTL,       default=2h"`
	AdminPassword  string        `env:"ADMIN_PASSWORD"`
	ValidationMode string        `env:"VALIDATION_MODE, default=strict"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS, default=http://localhost:3000"`
	AuditWorkers   int           `env:"AUDIT_WORKERS,   default=4"`
	// TrustedProxies lists the CIDRs whose X-Forwarded-For is believed.
	// Empty means the socket address is the client address.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	Mongo     MongoConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=food_ordering"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type RateLimitConfig struct {
	Store      string        `env:"RATE_LIMIT_STORE,      default=memory"`
	Window     time.Duration `env:"RATE_LIMIT_WINDOW,     default=15m"`
	Max        int           `env:"RATE_LIMIT_MAX,        default=100"`
	AuthWindow time.Duration `env:"AUTH_RATE_LIMIT_WINDOW, default=15m"`
	AuthMax    int           `env:"AUTH_RATE_LIMIT_MAX,    default=5"`
}

// IsDevelopment reports whether human-readable logs are wanted.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through l. Tests pass a map lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Validate fails closed: the service must not start with a guessable secret
// or a limiter that cannot limit.
func (c *Config) Validate() error {
	var errs []error
	if err := service.CheckSigningSecret(c.JWTSecret); err != nil {
		errs = append(errs, fmt.Errorf("JWT_SECRET: %w", err))
	}
	if err := service.CheckAdminSecret(c.AdminPassword); err != nil {
		errs = append(errs, fmt.Errorf("ADMIN_PASSWORD: %w", err))
	}
	if _, err := validation.ParseMode(c.ValidationMode); err != nil {
		errs = append(errs, fmt.Errorf("VALIDATION_MODE: %w", err))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.RateLimit.Window <= 0 || c.RateLimit.Max <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW and RATE_LIMIT_MAX must be positive"))
	}
	if c.RateLimit.AuthWindow <= 0 || c.RateLimit.AuthMax <= 0 {
		errs = append(errs, errors.New("AUTH_RATE_LIMIT_WINDOW and AUTH_RATE_LIMIT_MAX must be positive"))
	}
	switch c.RateLimit.Store {
	case StoreMemory:
	case StoreRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required when RATE_LIMIT_STORE=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("RATE_LIMIT_STORE: unknown store %q", c.RateLimit.Store))
	}
	if _, err := c.ProxyRanges(); err != nil {
		errs = append(errs, fmt.Errorf("TRUSTED_PROXIES: %w", err))
	}
	if c.AuditWorkers < 1 {
		errs = append(errs, errors.New("AUDIT_WORKERS must be at least 1"))
	}
	return errors.Join(errs...)
}

// ProxyRanges parses TrustedProxies. A bare address is treated as a single host.
func (c *Config) ProxyRanges() ([]*net.IPNet, error) {
	var ranges []*net.IPNet
	for _, raw := range c.TrustedProxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if !strings.Contains(raw, "/") {
			ip := net.ParseIP(raw)
			if ip == nil {
				return nil, fmt.Errorf("invalid address %q", raw)
			}
			bits := 128
			if ip.To4() != nil {
				ip, bits = ip.To4(), 32
			}
			ranges = append(ranges, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, n, err := net.ParseCIDR(raw)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, n)
	}
	return ranges, nil
}
