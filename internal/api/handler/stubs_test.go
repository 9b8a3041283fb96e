package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/foodhub/ordering-api/internal/api/middleware"
	"github.com/foodhub/ordering-api/internal/core/domain"
	"github.com/foodhub/ordering-api/internal/core/ports"
	"github.com/foodhub/ordering-api/internal/core/validation"
)

type stubAuthService struct {
	registerFn      func(ctx context.Context, in validation.RegistrationInput) (*ports.AuthResult, error)
	loginFn         func(ctx context.Context, in validation.LoginInput) (*ports.AuthResult, error)
	profileFn       func(ctx context.Context, userID string) (*domain.User, error)
	updateProfileFn func(ctx context.Context, userID string, in validation.ProfileInput) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in validation.RegistrationInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, in validation.LoginInput) (*ports.AuthResult, error) {
	return s.loginFn(ctx, in)
}

func (s *stubAuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.profileFn(ctx, userID)
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, userID string, in validation.ProfileInput) (*domain.User, error) {
	return s.updateProfileFn(ctx, userID, in)
}

type stubOrderService struct {
	placeFn        func(ctx context.Context, caller domain.Identity, draft domain.OrderDraft) (*domain.Order, error)
	myOrdersFn     func(ctx context.Context, caller domain.Identity) ([]*domain.Order, error)
	getFn          func(ctx context.Context, caller domain.Identity, id string) (*domain.Order, error)
	cancelFn       func(ctx context.Context, caller domain.Identity, id string) (*domain.Order, error)
	updateStatusFn func(ctx context.Context, caller domain.Identity, id string, status domain.OrderStatus) (*domain.Order, error)
	listFn         func(ctx context.Context, filter domain.OrderFilter) (*ports.OrderPage, error)
}

func (s *stubOrderService) Place(ctx context.Context, caller domain.Identity, draft domain.OrderDraft) (*domain.Order, error) {
	return s.placeFn(ctx, caller, draft)
}

func (s *stubOrderService) MyOrders(ctx context.Context, caller domain.Identity) ([]*domain.Order, error) {
	return s.myOrdersFn(ctx, caller)
}

func (s *stubOrderService) Get(ctx context.Context, caller domain.Identity, id string) (*domain.Order, error) {
	return s.getFn(ctx, caller, id)
}

func (s *stubOrderService) Cancel(ctx context.Context, caller domain.Identity, id string) (*domain.Order, error) {
	return s.cancelFn(ctx, caller, id)
}

func (s *stubOrderService) UpdateStatus(ctx context.Context, caller domain.Identity, id string, status domain.OrderStatus) (*domain.Order, error) {
	return s.updateStatusFn(ctx, caller, id, status)
}

func (s *stubOrderService) List(ctx context.Context, filter domain.OrderFilter) (*ports.OrderPage, error) {
	return s.listFn(ctx, filter)
}

type stubAdminService struct {
	verifyFn    func(ctx context.Context, secret string) error
	confirmFn   func(ctx context.Context, caller domain.Identity, orderID, secret string) (*domain.Order, error)
	dashboardFn func(ctx context.Context) (*ports.Dashboard, error)
	usersFn     func(ctx context.Context) ([]*domain.User, error)
	setRoleFn   func(ctx context.Context, userID string, role domain.Role) (*domain.User, error)
}

func (s *stubAdminService) VerifySecret(ctx context.Context, secret string) error {
	return s.verifyFn(ctx, secret)
}

func (s *stubAdminService) ConfirmOrder(ctx context.Context, caller domain.Identity, orderID, secret string) (*domain.Order, error) {
	return s.confirmFn(ctx, caller, orderID, secret)
}

func (s *stubAdminService) Dashboard(ctx context.Context) (*ports.Dashboard, error) {
	return s.dashboardFn(ctx)
}

func (s *stubAdminService) Users(ctx context.Context) ([]*domain.User, error) {
	return s.usersFn(ctx)
}

func (s *stubAdminService) SetRole(ctx context.Context, userID string, role domain.Role) (*domain.User, error) {
	return s.setRoleFn(ctx, userID, role)
}

// stubFoodService embeds the interface; tests set only the methods they hit.
type stubFoodService struct {
	ports.FoodService
	listFn            func(ctx context.Context, filter domain.FoodFilter) ([]*domain.Food, error)
	searchFn          func(ctx context.Context, query string) ([]*domain.Food, error)
	createFn          func(ctx context.Context, draft domain.FoodDraft) (*domain.Food, error)
	updateFn          func(ctx context.Context, id string, patch domain.FoodDraft) (*domain.Food, error)
	setAvailabilityFn func(ctx context.Context, id string, available bool) (*domain.Food, error)
}

func (s *stubFoodService) List(ctx context.Context, filter domain.FoodFilter) ([]*domain.Food, error) {
	return s.listFn(ctx, filter)
}

func (s *stubFoodService) Search(ctx context.Context, query string) ([]*domain.Food, error) {
	return s.searchFn(ctx, query)
}

func (s *stubFoodService) Create(ctx context.Context, draft domain.FoodDraft) (*domain.Food, error) {
	return s.createFn(ctx, draft)
}

func (s *stubFoodService) Update(ctx context.Context, id string, patch domain.FoodDraft) (*domain.Food, error) {
	return s.updateFn(ctx, id, patch)
}

func (s *stubFoodService) SetAvailability(ctx context.Context, id string, available bool) (*domain.Food, error) {
	return s.setAvailabilityFn(ctx, id, available)
}

type recordingAudit struct {
	events []domain.SecurityEvent
}

func (r *recordingAudit) Record(ev domain.SecurityEvent) {
	r.events = append(r.events, ev)
}

// newContext builds an echo context with the handler package validator and,
// when id is non-nil, a verified caller.
func newContext(method, target, body string, id *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if id != nil {
		middleware.SetIdentity(c, *id)
	}
	return c, rec
}

var (
	customer = &domain.Identity{UserID: "u1", Username: "johndoe", Role: domain.RoleUser}
	operator = &domain.Identity{UserID: "a1", Username: "ops", Role: domain.RoleAdmin}
)
