package domain

import (
	"errors"
	"time"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// validTransitions defines the allowed order state machine transitions.
var validTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderPreparing, OrderCancelled},
	OrderPreparing: {OrderReady},
	OrderReady:     {OrderDelivered},
}

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderNotPending   = errors.New("only pending orders can be changed")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// CanTransitionTo reports whether a transition from s to next is valid.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// RevenueStatuses are the states whose totals count as revenue.
var RevenueStatuses = []OrderStatus{OrderConfirmed, OrderPreparing, OrderReady, OrderDelivered}

// OrderItem is one line of an order. Price is the unit price at order time.
type OrderItem struct {
	FoodID   string  `json:"food"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	// PreparationTime is copied from the catalog so delivery estimates do not
	// need another lookup.
	PreparationTime int `json:"preparationTime"`
}

// Order is the aggregate root for a customer order.
type Order struct {
	ID                    string      `json:"_id"`
	UserID                string      `json:"user"`
	Items                 []OrderItem `json:"items"`
	TotalAmount           float64     `json:"totalAmount"`
	Status                OrderStatus `json:"status"`
	SpecialInstructions   string      `json:"specialInstructions,omitempty"`
	DeliveryAddress       string      `json:"deliveryAddress"`
	Phone                 string      `json:"phone"`
	EstimatedDeliveryTime *time.Time  `json:"estimatedDeliveryTime,omitempty"`
	ConfirmedBy           string      `json:"confirmedBy,omitempty"`
	ConfirmedAt           *time.Time  `json:"confirmedAt,omitempty"`
	CreatedAt             time.Time   `json:"createdAt"`
	UpdatedAt             time.Time   `json:"updatedAt"`
}

const (
	defaultPrepMinutes  = 20
	deliveryLeadMinutes = 30
)

// EstimateDelivery returns now plus the average item preparation time plus
// the fixed delivery lead.
func (o *Order) EstimateDelivery(now time.Time) time.Time {
	if len(o.Items) == 0 {
		return now.Add(time.Duration(defaultPrepMinutes+deliveryLeadMinutes) * time.Minute)
	}
	total := 0
	for _, it := range o.Items {
		p := it.PreparationTime
		if p <= 0 {
			p = defaultPrepMinutes
		}
		total += p
	}
	avg := float64(total) / float64(len(o.Items))
	return now.Add(time.Duration((avg + deliveryLeadMinutes) * float64(time.Minute)))
}

// Confirm moves a pending order to confirmed on behalf of adminID.
func (o *Order) Confirm(adminID string, now time.Time) error {
	if o.Status != OrderPending {
		return ErrOrderNotPending
	}
	o.applyConfirmation(adminID, now)
	return nil
}

func (o *Order) applyConfirmation(adminID string, now time.Time) {
	o.Status = OrderConfirmed
	o.ConfirmedBy = adminID
	o.ConfirmedAt = &now
	if o.EstimatedDeliveryTime == nil {
		eta := o.EstimateDelivery(now)
		o.EstimatedDeliveryTime = &eta
	}
}

// Transition applies an admin status change, enforcing the state machine.
func (o *Order) Transition(next OrderStatus, adminID string, now time.Time) error {
	if !o.Status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	if next == OrderConfirmed {
		o.applyConfirmation(adminID, now)
		return nil
	}
	o.Status = next
	return nil
}

// OrderFilter narrows admin order listings.
type OrderFilter struct {
	Status string
	Page   int
	Limit  int
}

// DashboardStats is the admin overview.
type DashboardStats struct {
	TotalUsers      int64   `json:"totalUsers"`
	TotalOrders     int64   `json:"totalOrders"`
	PendingOrders   int64   `json:"pendingOrders"`
	CompletedOrders int64   `json:"completedOrders"`
	TotalRevenue    float64 `json:"totalRevenue"`
}

// OrderLine is a requested catalog item and quantity.
type OrderLine struct {
	FoodID   string
	Quantity int
}

// OrderDraft is the unvalidated input for placing an order.
type OrderDraft struct {
	Items               []OrderLine
	SpecialInstructions string
	DeliveryAddress     string
	Phone               string
}
