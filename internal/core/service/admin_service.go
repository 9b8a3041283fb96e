package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/foodhub/ordering-api/internal/core/domain"
	"github.com/foodhub/ordering-api/internal/core/ports"
)

const recentOrdersLimit = 5

// ErrInsecureAdminSecret is returned when the step-up secret is unset or the
// well-known default.
var ErrInsecureAdminSecret = errors.New("admin step-up secret is missing or a default value")

// CheckAdminSecret reports ErrInsecureAdminSecret for values that must never
// guard order confirmation.
func CheckAdminSecret(secret string) error {
	s := strings.TrimSpace(secret)
	if s == "" || s == "admin123" {
		return ErrInsecureAdminSecret
	}
	return nil
}

// AdminService implements the admin console use cases.
type AdminService struct {
	secret []byte
	users  ports.UserRepository
	orders ports.OrderRepository
	now    func() time.Time
	log    zerolog.Logger
}

func NewAdminService(
	secret string,
	users ports.UserRepository,
	orders ports.OrderRepository,
	log zerolog.Logger,
) (*AdminService, error) {
	if err := CheckAdminSecret(secret); err != nil {
		return nil, err
	}
	return &AdminService{
		secret: []byte(secret),
		users:  users,
		orders: orders,
		now:    func() time.Time { return time.Now().UTC() },
		log:    log,
	}, nil
}

// VerifySecret compares in constant time.
func (s *AdminService) VerifySecret(_ context.Context, secret string) error {
	if subtle.ConstantTimeCompare([]byte(secret), s.secret) != 1 {
		return domain.ErrInvalidAdminSecret
	}
	return nil
}

// ConfirmOrder re-checks the step-up secret before moving a pending order to
// confirmed.
func (s *AdminService) ConfirmOrder(ctx context.Context, caller domain.Identity, orderID, secret string) (*domain.Order, error) {
	if err := s.VerifySecret(ctx, secret); err != nil {
		return nil, err
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := order.Confirm(caller.UserID, now); err != nil {
		return nil, err
	}
	order.UpdatedAt = now

	updated, err := s.orders.Update(ctx, order)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("order_id", orderID).Str("admin_id", caller.UserID).Msg("order confirmed")
	return updated, nil
}

func (s *AdminService) Dashboard(ctx context.Context) (*ports.Dashboard, error) {
	var (
		stats domain.DashboardStats
		err   error
	)
	if stats.TotalUsers, err = s.users.CountByRole(ctx, domain.RoleUser); err != nil {
		return nil, err
	}
	if stats.TotalOrders, err = s.orders.Count(ctx); err != nil {
		return nil, err
	}
	if stats.PendingOrders, err = s.orders.CountByStatus(ctx, domain.OrderPending); err != nil {
		return nil, err
	}
	if stats.CompletedOrders, err = s.orders.CountByStatus(ctx, domain.OrderDelivered); err != nil {
		return nil, err
	}
	if stats.TotalRevenue, err = s.orders.Revenue(ctx, domain.RevenueStatuses); err != nil {
		return nil, err
	}

	recent, err := s.orders.Recent(ctx, recentOrdersLimit)
	if err != nil {
		return nil, err
	}
	return &ports.Dashboard{Statistics: stats, RecentOrders: recent}, nil
}

// Users lists regular accounts, newest first.
func (s *AdminService) Users(ctx context.Context) ([]*domain.User, error) {
	return s.users.ListByRole(ctx, domain.RoleUser)
}

// SetRole is the only path by which an account becomes admin.
func (s *AdminService) SetRole(ctx context.Context, userID string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, domain.NewFieldError("Invalid role")
	}
	user, err := s.users.UpdateRole(ctx, userID, role)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", userID).Str("role", string(role)).Msg("user role updated")
	return user, nil
}
