package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/foodhub/ordering-api/internal/core/domain"
	"github.com/foodhub/ordering-api/internal/core/ports"
	"github.com/foodhub/ordering-api/internal/core/validation"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// OrderService implements order placement and lifecycle management.
type OrderService struct {
	orders    ports.OrderRepository
	foods     ports.FoodRepository
	users     ports.UserRepository
	validator *validation.FailFastValidator
	sanitizer *validation.Sanitizer
	now       func() time.Time
	log       zerolog.Logger
}

func NewOrderService(
	orders ports.OrderRepository,
	foods ports.FoodRepository,
	users ports.UserRepository,
	log zerolog.Logger,
) *OrderService {
	return &OrderService{
		orders:    orders,
		foods:     foods,
		users:     users,
		validator: validation.NewFailFastValidator(),
		sanitizer: validation.NewSanitizer(),
		now:       func() time.Time { return time.Now().UTC() },
		log:       log,
	}
}

// Place prices every line from the catalog and stores a pending order.
// Client-supplied prices never reach this method.
func (s *OrderService) Place(ctx context.Context, caller domain.Identity, draft domain.OrderDraft) (*domain.Order, error) {
	draft = s.sanitizer.SanitizeOrderDraft(draft)

	if draft.DeliveryAddress == "" || draft.Phone == "" {
		profile, err := s.users.FindByID(ctx, caller.UserID)
		if err != nil {
			return nil, fmt.Errorf("place order: load profile: %w", err)
		}
		if draft.DeliveryAddress == "" {
			draft.DeliveryAddress = profile.Address
		}
		if draft.Phone == "" {
			draft.Phone = profile.Phone
		}
	}

	if err := s.validator.ValidateOrder(draft); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(draft.Items))
	for _, line := range draft.Items {
		ids = append(ids, line.FoodID)
	}
	catalog, err := s.foods.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, 0, len(draft.Items))
	var total float64
	for _, line := range draft.Items {
		food, ok := catalog[line.FoodID]
		if !ok {
			return nil, domain.NewFieldError("Food item unknown is not available")
		}
		if !food.Available {
			return nil, domain.NewFieldError(fmt.Sprintf("Food item %s is not available", food.Name))
		}
		items = append(items, domain.OrderItem{
			FoodID:          food.ID,
			Name:            food.Name,
			Quantity:        line.Quantity,
			Price:           food.Price,
			PreparationTime: food.PreparationTime,
		})
		total += food.Price * float64(line.Quantity)
	}

	now := s.now()
	order := &domain.Order{
		UserID:              caller.UserID,
		Items:               items,
		TotalAmount:         math.Round(total*100) / 100,
		Status:              domain.OrderPending,
		SpecialInstructions: draft.SpecialInstructions,
		DeliveryAddress:     draft.DeliveryAddress,
		Phone:               draft.Phone,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	created, err := s.orders.Create(ctx, order)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", caller.UserID).Msg("failed to create order")
		return nil, err
	}
	s.log.Info().Str("order_id", created.ID).Str("user_id", caller.UserID).Float64("total", created.TotalAmount).Msg("order placed")
	return created, nil
}

func (s *OrderService) MyOrders(ctx context.Context, caller domain.Identity) ([]*domain.Order, error) {
	return s.orders.ListByUser(ctx, caller.UserID)
}

// Get returns the order when the caller owns it or is an admin.
func (s *OrderService) Get(ctx context.Context, caller domain.Identity, id string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && order.UserID != caller.UserID {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

// Cancel lets the owner withdraw an order that is still pending.
func (s *OrderService) Cancel(ctx context.Context, caller domain.Identity, id string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != caller.UserID {
		return nil, domain.ErrForbidden
	}
	if order.Status != domain.OrderPending {
		return nil, domain.ErrOrderNotPending
	}
	order.Status = domain.OrderCancelled
	order.UpdatedAt = s.now()

	updated, err := s.orders.Update(ctx, order)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("order_id", id).Str("user_id", caller.UserID).Msg("order cancelled")
	return updated, nil
}

// UpdateStatus applies an admin transition. The state machine rejects
// skipped or backwards steps.
func (s *OrderService) UpdateStatus(ctx context.Context, caller domain.Identity, id string, status domain.OrderStatus) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := order.Status
	now := s.now()
	if err := order.Transition(status, caller.UserID, now); err != nil {
		return nil, fmt.Errorf("%w: %s -> %s", err, from, status)
	}
	order.UpdatedAt = now

	updated, err := s.orders.Update(ctx, order)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("order_id", id).
		Str("from", string(from)).
		Str("to", string(status)).
		Str("admin_id", caller.UserID).
		Msg("order status updated")
	return updated, nil
}

// List pages through all orders, newest first.
func (s *OrderService) List(ctx context.Context, filter domain.OrderFilter) (*ports.OrderPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}

	orders, total, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.OrderPage{
		Orders:     orders,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}
