package middleware

import (
	"fmt"
	"math"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/foodhub/ordering-api/internal/api/metrics"
	"github.com/foodhub/ordering-api/internal/core/domain"
	"github.com/foodhub/ordering-api/internal/core/ports"
	"github.com/foodhub/ordering-api/internal/ratelimit"
)

// RateLimit counts every request against l, keyed by client IP. Only
// Retry-After is exposed; the remaining budget is never sent to the client.
// A failing window store is logged; the request then proceeds unless the
// limiter fails closed, in which case it is refused with 503.
func RateLimit(l *ratelimit.Limiter, rec ports.SecurityEventRecorder, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			d, err := l.Allow(c.Request().Context(), ip)
			if err != nil {
				log.Error().Err(err).Str("limiter", l.Name()).Str("client_ip", ip).Msg("rate limiter unavailable")
				if l.FailClosed() {
					return fmt.Errorf("%s: %w", l.Name(), domain.ErrLimiterUnavailable)
				}
				return next(c)
			}
			if d.Allowed {
				return next(c)
			}

			secs := int(math.Ceil(d.RetryAfter.Seconds()))
			if secs < 1 {
				secs = 1
			}
			c.Response().Header().Set(echo.HeaderRetryAfter, strconv.Itoa(secs))
			metrics.RateLimitRejectionsTotal.WithLabelValues(l.Name()).Inc()
			Audit(rec, c, domain.EventRateLimited, "", l.Name())
			return &domain.RateLimitError{Message: l.Message(), RetryAfter: d.RetryAfter}
		}
	}
}
