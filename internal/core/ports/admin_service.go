package ports

import (
	"context"

	"github.com/foodhub/ordering-api/internal/core/domain"
)

// Dashboard is the admin overview payload.
type Dashboard struct {
	Statistics   domain.DashboardStats
	RecentOrders []*domain.Order
}

// AdminService defines admin-only use cases, including the step-up secret
// check that guards order confirmation.
type AdminService interface {
	VerifySecret(ctx context.Context, secret string) error
	ConfirmOrder(ctx context.Context, caller domain.Identity, orderID, secret string) (*domain.Order, error)
	Dashboard(ctx context.Context) (*Dashboard, error)
	Users(ctx context.Context) ([]*domain.User, error)
	SetRole(ctx context.Context, userID string, role domain.Role) (*domain.User, error)
}
