package ports

import (
	"context"

	"github.com/foodhub/ordering-api/internal/core/domain"
)

// OrderPage is one page of an admin order listing.
type OrderPage struct {
	Orders     []*domain.Order
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// OrderService defines order use cases. Ownership rules are enforced here,
// role checks happen earlier in the request pipeline.
type OrderService interface {
	Place(ctx context.Context, caller domain.Identity, draft domain.OrderDraft) (*domain.Order, error)
	MyOrders(ctx context.Context, caller domain.Identity) ([]*domain.Order, error)
	Get(ctx context.Context, caller domain.Identity, id string) (*domain.Order, error)
	Cancel(ctx context.Context, caller domain.Identity, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, caller domain.Identity, id string, status domain.OrderStatus) (*domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter) (*OrderPage, error)
}
