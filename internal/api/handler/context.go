package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/foodhub/ordering-api/internal/api/middleware"
	"github.com/foodhub/ordering-api/internal/core/domain"
)

// callerIdentity returns the identity injected by the Auth middleware. A
// route mounted without Auth has none and is answered like a missing token.
func callerIdentity(c echo.Context) (domain.Identity, error) {
	id := middleware.IdentityFrom(c)
	if id == nil {
		return domain.Identity{}, domain.NewTokenRequiredError()
	}
	return *id, nil
}

// messageEnvelope is the acknowledgement body of mutating endpoints.
type messageEnvelope struct {
	Message string `json:"message"`
}
