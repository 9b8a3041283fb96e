package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Client-facing messages for the authentication and authorization failures.
const (
	MsgTokenRequired = "Access token required"
	MsgTokenInvalid  = "Invalid or expired token"
	MsgAdminRequired = "Access denied. Admin rights required."
)

var ErrForbidden = errors.New("access denied")

// ErrLimiterUnavailable is returned by a fail-closed rate limiter whose store
// cannot be reached.
var ErrLimiterUnavailable = errors.New("rate limiter unavailable")

// AuthenticationError means the request carries no usable identity.
// The client recovers by authenticating again.
type AuthenticationError struct {
	Message string
	// Missing is true when no token was presented at all.
	Missing bool
}

func (e *AuthenticationError) Error() string { return e.Message }

// NewTokenRequiredError is returned when the bearer token is absent.
func NewTokenRequiredError() *AuthenticationError {
	return &AuthenticationError{Message: MsgTokenRequired, Missing: true}
}

// NewTokenInvalidError is returned for malformed, tampered or expired tokens.
func NewTokenInvalidError() *AuthenticationError {
	return &AuthenticationError{Message: MsgTokenInvalid}
}

// AuthorizationError means the identity is valid but lacks the required role.
// Retrying with the same credentials never helps.
type AuthorizationError struct {
	Required Role
	Message  string
}

func (e *AuthorizationError) Error() string { return e.Message }

// NewAuthorizationError builds the denial for a required role. The message
// names the role class only.
func NewAuthorizationError(required Role) *AuthorizationError {
	msg := MsgAdminRequired
	if required != RoleAdmin {
		name := string(required)
		if name != "" {
			name = strings.ToUpper(name[:1]) + name[1:]
		}
		msg = fmt.Sprintf("Access denied. %s rights required.", name)
	}
	return &AuthorizationError{Required: required, Message: msg}
}

// ErrorShape selects how a ValidationError is rendered on the wire.
type ErrorShape int

const (
	// ShapeSingle renders {"error": "<joined or first message>"}.
	ShapeSingle ErrorShape = iota
	// ShapeList renders {"errors": [...]}.
	ShapeList
)

// ValidationError carries one or more rule violations.
type ValidationError struct {
	Errors []string
	Shape  ErrorShape
}

func (e *ValidationError) Error() string { return strings.Join(e.Errors, ", ") }

// NewFieldError is a single-message validation failure.
func NewFieldError(msg string) *ValidationError {
	return &ValidationError{Errors: []string{msg}, Shape: ShapeSingle}
}

// RateLimitError is returned once a client exceeds its request budget.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string { return e.Message }
