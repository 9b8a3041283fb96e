package handler

import (
	"github.com/foodhub/ordering-api/internal/core/domain"
	"github.com/foodhub/ordering-api/internal/core/ports"
)

// --- Request → Service input ---

func toOrderDraft(req createOrderRequest) domain.OrderDraft {
	lines := make([]domain.OrderLine, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, domain.OrderLine{FoodID: it.FoodID, Quantity: it.Quantity})
	}
	return domain.OrderDraft{
		Items:               lines,
		SpecialInstructions: req.SpecialInstructions,
		DeliveryAddress:     req.DeliveryAddress,
		Phone:               req.Phone,
	}
}

// --- Service output → Response ---

func orderList(orders []*domain.Order) []*domain.Order {
	if orders == nil {
		return []*domain.Order{}
	}
	return orders
}

func toOrderPageResponse(p *ports.OrderPage) orderPageResponse {
	return orderPageResponse{
		Orders:      orderList(p.Orders),
		TotalPages:  p.TotalPages,
		CurrentPage: p.Page,
		TotalOrders: p.Total,
	}
}

type dashboardResponse struct {
	Statistics   domain.DashboardStats `json:"statistics"`
	RecentOrders []*domain.Order       `json:"recentOrders"`
}

func toDashboardResponse(d *ports.Dashboard) dashboardResponse {
	return dashboardResponse{
		Statistics:   d.Statistics,
		RecentOrders: orderList(d.RecentOrders),
	}
}
