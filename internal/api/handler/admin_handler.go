package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/foodhub/ordering-api/internal/api/middleware"
	"github.com/foodhub/ordering-api/internal/core/domain"
	"github.com/foodhub/ordering-api/internal/core/ports"
)

// AdminHandler serves the admin console. Every route sits behind Auth and
// RequireRole(admin); order confirmation additionally needs the step-up secret.
type AdminHandler struct {
	admin ports.AdminService
	foods ports.FoodService
	audit ports.SecurityEventRecorder
}

func NewAdminHandler(admin ports.AdminService, foods ports.FoodService, audit ports.SecurityEventRecorder) *AdminHandler {
	return &AdminHandler{admin: admin, foods: foods, audit: audit}
}

type secretRequest struct {
	Password string `json:"password"`
}

type roleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

type availabilityRequest struct {
	Available *bool `json:"available" validate:"required"`
}

type userEnvelope struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

// stepUpFailed audits a rejected secret before handing the error back.
func (h *AdminHandler) stepUpFailed(c echo.Context, err error) error {
	if errors.Is(err, domain.ErrInvalidAdminSecret) {
		middleware.Audit(h.audit, c, domain.EventStepUpFailed, "", "admin secret mismatch")
	}
	return err
}

// VerifyPassword checks the step-up secret without side effects.
//
// @Summary      Verify the admin step-up secret
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      secretRequest  true  "Step-up secret"
// @Success      200   {object}  messageEnvelope
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /admin/verify-password [post]
func (h *AdminHandler) VerifyPassword(c echo.Context) error {
	var req secretRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := h.admin.VerifySecret(c.Request().Context(), req.Password); err != nil {
		return h.stepUpFailed(c, err)
	}
	return c.JSON(http.StatusOK, messageEnvelope{Message: "Password verified successfully"})
}

// ConfirmOrder confirms a pending order after re-checking the secret.
//
// @Summary      Confirm a pending order
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        orderId  path      string         true  "Order ID"
// @Param        body     body      secretRequest  true  "Step-up secret"
// @Success      200      {object}  orderEnvelope
// @Failure      400      {object}  map[string]string
// @Failure      401      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Router       /admin/confirm-order/{orderId} [post]
func (h *AdminHandler) ConfirmOrder(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}
	var req secretRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	order, err := h.admin.ConfirmOrder(c.Request().Context(), caller, c.Param("orderId"), req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotPending) {
			return domain.NewFieldError("Only pending orders can be confirmed")
		}
		return h.stepUpFailed(c, err)
	}
	return c.JSON(http.StatusOK, orderEnvelope{Message: "Order confirmed successfully", Order: order})
}

// Dashboard returns headline statistics and the latest orders.
//
// @Summary      Admin dashboard
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Failure      403  {object}  map[string]string
// @Router       /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c echo.Context) error {
	d, err := h.admin.Dashboard(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDashboardResponse(d))
}

// Users lists regular accounts.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userResponse
// @Failure      403  {object}  map[string]string
// @Router       /admin/users [get]
func (h *AdminHandler) Users(c echo.Context) error {
	users, err := h.admin.Users(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(users))
}

// SetRole grants or revokes the admin role.
//
// @Summary      Change a user's role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string       true  "User ID"
// @Param        body    body      roleRequest  true  "New role"
// @Success      200     {object}  userEnvelope
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /admin/users/{userId}/role [put]
func (h *AdminHandler) SetRole(c echo.Context) error {
	var req roleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.admin.SetRole(c.Request().Context(), c.Param("userId"), domain.Role(req.Role))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userEnvelope{Message: "User role updated successfully", User: toUserResponse(user)})
}

// SetAvailability toggles whether a catalog item can be ordered.
//
// @Summary      Toggle food availability
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        foodId  path      string               true  "Food ID"
// @Param        body    body      availabilityRequest  true  "Availability"
// @Success      200     {object}  foodEnvelope
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /admin/food/{foodId}/availability [put]
func (h *AdminHandler) SetAvailability(c echo.Context) error {
	var req availabilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	food, err := h.foods.SetAvailability(c.Request().Context(), c.Param("foodId"), *req.Available)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, foodEnvelope{Message: "Food availability updated successfully", Food: food})
}

// FoodStatistics summarises the catalog.
//
// @Summary      Catalog statistics
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.FoodStatistics
// @Failure      403  {object}  map[string]string
// @Router       /admin/food/statistics [get]
func (h *AdminHandler) FoodStatistics(c echo.Context) error {
	stats, err := h.foods.Statistics(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
