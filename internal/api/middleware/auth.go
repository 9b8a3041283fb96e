package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/foodhub/ordering-api/internal/api/metrics"
	"github.com/foodhub/ordering-api/internal/core/domain"
	"github.com/foodhub/ordering-api/internal/core/ports"
)

// TokenVerifier turns a bearer token into an identity.
type TokenVerifier interface {
	Verify(raw string) (domain.Identity, error)
}

// Auth verifies the bearer token and stores the identity in the context.
// A missing token yields 401, any other defect 403; the error handler renders
// both from the returned *domain.AuthenticationError.
func Auth(tokens TokenVerifier, rec ports.SecurityEventRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if err == nil {
				var id domain.Identity
				if id, err = tokens.Verify(raw); err == nil {
					SetIdentity(c, id)
					return next(c)
				}
			}

			reason := "invalid_token"
			var ae *domain.AuthenticationError
			if errors.As(err, &ae) && ae.Missing {
				reason = "missing_token"
			}
			metrics.AuthFailuresTotal.WithLabelValues(reason).Inc()
			Audit(rec, c, domain.EventTokenRejected, "", reason)
			return err
		}
	}
}

// bearerToken extracts the token from an Authorization header. An absent
// header or an empty token counts as missing; a scheme other than Bearer
// makes the credential invalid.
func bearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", domain.NewTokenRequiredError()
	}
	scheme, token, found := strings.Cut(header, " ")
	if !strings.EqualFold(scheme, "bearer") {
		return "", domain.NewTokenInvalidError()
	}
	token = strings.TrimSpace(token)
	if !found || token == "" {
		return "", domain.NewTokenRequiredError()
	}
	return token, nil
}
