package ports

import (
	"context"

	"github.com/foodhub/ordering-api/internal/core/domain"
)

// UserRepository defines persistence operations for credential records.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// FindByUsernameOrEmail returns the first user matching either value.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id, fullName, phone, address string) (*domain.User, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)
	// ListByRole returns users with the given role, newest first.
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
}
