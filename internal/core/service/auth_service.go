package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/foodhub/ordering-api/internal/core/domain"
	"github.com/foodhub/ordering-api/internal/core/ports"
	"github.com/foodhub/ordering-api/internal/core/validation"
)

// AuthService implements registration, login and profile management.
type AuthService struct {
	repo      ports.UserRepository
	hasher    ports.PasswordHasher
	tokens    *TokenService
	validator *validation.AggregatingValidator
	sanitizer *validation.Sanitizer
	log       zerolog.Logger
}

func NewAuthService(
	repo ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens *TokenService,
	validator *validation.AggregatingValidator,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		validator: validator,
		sanitizer: validation.NewSanitizer(),
		log:       log,
	}
}

// Register validates the sanitized payload, creates a regular user and
// returns a fresh token. Clients can never register themselves as admin.
func (s *AuthService) Register(ctx context.Context, in validation.RegistrationInput) (*ports.AuthResult, error) {
	in = s.sanitizer.SanitizeRegistration(in)
	if err := s.validator.ValidateRegistration(in).Err(); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByUsernameOrEmail(ctx, in.Username, in.Email)
	switch {
	case err == nil && existing.Email == in.Email:
		return nil, domain.ErrEmailTaken
	case err == nil:
		return nil, domain.ErrUserExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("register: lookup: %w", err)
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user, err := s.repo.Create(ctx, &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: digest,
		FullName:     in.FullName,
		Phone:        in.Phone,
		Address:      in.Address,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	token, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return &ports.AuthResult{Token: token, User: user}, nil
}

// Login verifies credentials. Unknown users and wrong passwords produce the
// same error.
func (s *AuthService) Login(ctx context.Context, in validation.LoginInput) (*ports.AuthResult, error) {
	if err := s.validator.ValidateLogin(in).SingleErr(); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: lookup: %w", err)
	}
	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

// UpdateProfile changes the contact fields of the caller's own account.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in validation.ProfileInput) (*domain.User, error) {
	in = s.sanitizer.SanitizeProfile(in)
	if err := s.validator.ValidateProfile(in).Err(); err != nil {
		return nil, err
	}
	return s.repo.UpdateProfile(ctx, userID, in.FullName, in.Phone, in.Address)
}

func (s *AuthService) issue(user *domain.User) (string, error) {
	token, err := s.tokens.Issue(domain.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}
