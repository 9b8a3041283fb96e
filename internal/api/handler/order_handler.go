package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/foodhub/ordering-api/internal/api/metrics"
	"github.com/foodhub/ordering-api/internal/core/domain"
	"github.com/foodhub/ordering-api/internal/core/ports"
)

// OrderHandler handles HTTP requests for order operations.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// --- Request / Response types ---

type orderItemRequest struct {
	FoodID   string `json:"foodId"`
	Quantity int    `json:"quantity"`
}

// createOrderRequest carries no prices; totals are always computed from the
// catalog.
type createOrderRequest struct {
	Items               []orderItemRequest `json:"items"`
	SpecialInstructions string             `json:"specialInstructions"`
	DeliveryAddress     string             `json:"deliveryAddress"`
	Phone               string             `json:"phone"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed preparing ready delivered cancelled"`
}

type orderEnvelope struct {
	Message string        `json:"message"`
	Order   *domain.Order `json:"order"`
}

type orderPageResponse struct {
	Orders      []*domain.Order `json:"orders"`
	TotalPages  int             `json:"totalPages"`
	CurrentPage int             `json:"currentPage"`
	TotalOrders int64           `json:"totalOrders"`
}

// Create handles POST /api/orders.
//
// @Summary      Place an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createOrderRequest  true  "Order lines and delivery details"
// @Success      201   {object}  orderEnvelope
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	order, err := h.service.Place(c.Request().Context(), caller, toOrderDraft(req))
	if err != nil {
		return err
	}
	metrics.OrdersPlacedTotal.Inc()
	return c.JSON(http.StatusCreated, orderEnvelope{Message: "Order placed successfully", Order: order})
}

// MyOrders handles GET /api/orders/my-orders.
//
// @Summary      List the caller's orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Order
// @Failure      401  {object}  map[string]string
// @Router       /orders/my-orders [get]
func (h *OrderHandler) MyOrders(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}
	orders, err := h.service.MyOrders(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderList(orders))
}

// Get handles GET /api/orders/:id. Only the owner or an admin may read it.
//
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  domain.Order
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}
	order, err := h.service.Get(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// Cancel handles PUT /api/orders/:id/cancel.
//
// @Summary      Cancel a pending order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  orderEnvelope
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /orders/{id}/cancel [put]
func (h *OrderHandler) Cancel(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}
	order, err := h.service.Cancel(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotPending) {
			return domain.NewFieldError("Can only cancel pending orders")
		}
		return err
	}
	return c.JSON(http.StatusOK, orderEnvelope{Message: "Order cancelled successfully", Order: order})
}

// UpdateStatus handles PUT /api/orders/:id/status.
//
// @Summary      Move an order through its lifecycle
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Order ID"
// @Param        body  body      updateStatusRequest  true  "Target status"
// @Success      200   {object}  orderEnvelope
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	status := domain.OrderStatus(req.Status)
	order, err := h.service.UpdateStatus(c.Request().Context(), caller, c.Param("id"), status)
	if err != nil {
		return err
	}
	metrics.OrderTransitionsTotal.WithLabelValues(req.Status).Inc()
	return c.JSON(http.StatusOK, orderEnvelope{Message: "Order status updated successfully", Order: order})
}

// List handles GET /api/orders.
//
// @Summary      List all orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Status filter"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Page size (default 10, max 100)"
// @Success      200     {object}  orderPageResponse
// @Failure      403     {object}  map[string]string
// @Router       /orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	// Non-numeric paging values fall back to the service defaults.
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.List(c.Request().Context(), domain.OrderFilter{
		Status: c.QueryParam("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderPageResponse(result))
}
