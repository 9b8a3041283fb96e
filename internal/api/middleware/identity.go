package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/foodhub/ordering-api/internal/core/domain"
)

const identityKey = "identity"

// SetIdentity stores the verified caller on the request context.
func SetIdentity(c echo.Context, id domain.Identity) {
	c.Set(identityKey, &id)
}

// IdentityFrom returns the identity stored by Auth, or nil when the route is
// not behind Auth.
func IdentityFrom(c echo.Context) *domain.Identity {
	id, _ := c.Get(identityKey).(*domain.Identity)
	return id
}
