package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/foodhub/ordering-api/internal/api/metrics"
	"github.com/foodhub/ordering-api/internal/core/domain"
	"github.com/foodhub/ordering-api/internal/core/ports"
)

// RoleAuthorizer decides whether an identity holds a role.
type RoleAuthorizer interface {
	Authorize(id *domain.Identity, required domain.Role) error
}

// RequireRole must be mounted after Auth. Roles are compared by equality, so
// a route open to several roles needs a separate check per role.
func RequireRole(authz RoleAuthorizer, required domain.Role, rec ports.SecurityEventRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := authz.Authorize(IdentityFrom(c), required); err != nil {
				metrics.AuthorizationDeniedTotal.WithLabelValues(string(required)).Inc()
				Audit(rec, c, domain.EventAccessDenied, "", "requires "+string(required))
				return err
			}
			return next(c)
		}
	}
}
