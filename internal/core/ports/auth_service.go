package ports

import (
	"context"

	"github.com/foodhub/ordering-api/internal/core/domain"
	"github.com/foodhub/ordering-api/internal/core/validation"
)

// AuthResult is returned by a successful registration or login.
type AuthResult struct {
	Token string
	User  *domain.User
}

// AuthService covers account registration, login and profile management.
type AuthService interface {
	Register(ctx context.Context, in validation.RegistrationInput) (*AuthResult, error)
	Login(ctx context.Context, in validation.LoginInput) (*AuthResult, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, in validation.ProfileInput) (*domain.User, error)
}
