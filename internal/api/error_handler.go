package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/foodhub/ordering-api/internal/api/metrics"
	"github.com/foodhub/ordering-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// errorListResponse carries every violation of an aggregating validation.
type errorListResponse struct {
	Errors []string `json:"errors"`
}

// messageResponse is used for authorization denials.
type messageResponse struct {
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps the error taxonomy and known domain errors to HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders {"error": "..."}, {"errors": [...]} for list-shaped validation
//     failures, or {"message": "..."} for authorization denials.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, any) {
	var (
		authn *domain.AuthenticationError
		authz *domain.AuthorizationError
		ve    *domain.ValidationError
		rl    *domain.RateLimitError
		he    *echo.HTTPError
	)

	switch {
	case errors.As(err, &authn):
		if authn.Missing {
			return http.StatusUnauthorized, errorResponse{Error: authn.Message}
		}
		return http.StatusForbidden, errorResponse{Error: authn.Message}
	case errors.As(err, &authz):
		return http.StatusForbidden, messageResponse{Message: authz.Message}
	case errors.As(err, &ve):
		if ve.Shape == domain.ShapeList {
			metrics.ValidationFailuresTotal.WithLabelValues("list").Inc()
			return http.StatusBadRequest, errorListResponse{Errors: ve.Errors}
		}
		metrics.ValidationFailuresTotal.WithLabelValues("single").Inc()
		return http.StatusBadRequest, errorResponse{Error: ve.Error()}
	case errors.As(err, &rl):
		return http.StatusTooManyRequests, errorResponse{Error: rl.Message}
	case errors.As(err, &he):
		// Echo's own errors (bind failures, 404 from router, etc.)
		if he.Code >= http.StatusInternalServerError {
			break
		}
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, messageResponse{Message: "Access denied"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		metrics.AuthFailuresTotal.WithLabelValues("bad_credentials").Inc()
		return http.StatusUnauthorized, errorResponse{Error: "Invalid username or password"}
	case errors.Is(err, domain.ErrInvalidAdminSecret):
		metrics.StepUpFailuresTotal.Inc()
		return http.StatusUnauthorized, errorResponse{Error: "Invalid admin password"}
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, errorResponse{Error: "Username already taken"}
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, errorResponse{Error: "Email already registered"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorResponse{Error: "User not found"}
	case errors.Is(err, domain.ErrInvalidFoodID):
		return http.StatusBadRequest, errorResponse{Error: "Invalid food ID format"}
	case errors.Is(err, domain.ErrFoodNotFound):
		return http.StatusNotFound, errorResponse{Error: "Food item not found"}
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound, errorResponse{Error: "Order not found"}
	case errors.Is(err, domain.ErrOrderNotPending):
		return http.StatusBadRequest, errorResponse{Error: "Only pending orders can be changed"}
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrLimiterUnavailable):
		c.Response().Header().Set(echo.HeaderRetryAfter, "60")
		return http.StatusServiceUnavailable, errorResponse{Error: "Service temporarily unavailable, please try again later."}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
