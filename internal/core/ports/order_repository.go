package ports

import (
	"context"

	"github.com/foodhub/ordering-api/internal/core/domain"
)

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	// ListByUser returns a user's orders, newest first.
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	// List returns a page of orders matching filter and the total count.
	List(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, int64, error)
	// Update persists status, confirmation and delivery estimate fields.
	Update(ctx context.Context, order *domain.Order) (*domain.Order, error)
	CountByStatus(ctx context.Context, status domain.OrderStatus) (int64, error)
	Count(ctx context.Context) (int64, error)
	// Revenue sums totalAmount over orders in the given statuses.
	Revenue(ctx context.Context, statuses []domain.OrderStatus) (float64, error)
	Recent(ctx context.Context, limit int) ([]*domain.Order, error)
}
