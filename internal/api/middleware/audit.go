package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/foodhub/ordering-api/internal/core/domain"
	"github.com/foodhub/ordering-api/internal/core/ports"
)

// Audit hands a security event for the current request to rec. An untyped
// nil recorder disables the trail; a typed nil pointer is still called.
func Audit(rec ports.SecurityEventRecorder, c echo.Context, kind domain.SecurityEventKind, username, detail string) {
	if rec == nil {
		return
	}
	if username == "" {
		if id := IdentityFrom(c); id != nil {
			username = id.Username
		}
	}
	rec.Record(domain.SecurityEvent{
		Kind:      kind,
		ClientIP:  c.RealIP(),
		Username:  username,
		Method:    c.Request().Method,
		Path:      c.Request().URL.Path,
		Detail:    detail,
		RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
		At:        time.Now().UTC(),
	})
}
