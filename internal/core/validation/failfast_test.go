package validation

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodhub/ordering-api/internal/core/domain"
)

func ptr[T any](v T) *T { return &v }

func validDraft() domain.FoodDraft {
	return domain.FoodDraft{
		Name:            "Pizza",
		Description:     "Cheese and tomato",
		Price:           ptr(12.99),
		Category:        "Pizza",
		PreparationTime: ptr(20),
	}
}

func requireFieldError(t *testing.T, err error, msg string) {
	t.Helper()
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
	assert.Equal(t, []string{msg}, ve.Errors)
	assert.Equal(t, domain.ShapeSingle, ve.Shape)
}

func TestValidateFood_Valid(t *testing.T) {
	assert.NoError(t, NewFailFastValidator().ValidateFood(validDraft()))
}

func TestValidateFood_NegativePriceBeatsMissingFields(t *testing.T) {
	d := domain.FoodDraft{Name: "Pizza", Price: ptr(-5.99)}

	err := NewFailFastValidator().ValidateFood(d)

	requireFieldError(t, err, "Price must be greater than 0")
}

func TestValidateFood_PriceBoundary(t *testing.T) {
	v := NewFailFastValidator()
	for _, p := range []float64{0, -0.01, -100, math.Inf(-1), math.NaN()} {
		d := validDraft()
		d.Price = ptr(p)
		requireFieldError(t, v.ValidateFood(d), "Price must be greater than 0")
	}
	for _, p := range []float64{0.01, 1, 999.99} {
		d := validDraft()
		d.Price = ptr(p)
		assert.NoError(t, v.ValidateFood(d), p)
	}
}

func TestValidateFood_MissingFields(t *testing.T) {
	v := NewFailFastValidator()
	clears := []func(*domain.FoodDraft){
		func(d *domain.FoodDraft) { d.Name = " " },
		func(d *domain.FoodDraft) { d.Description = "" },
		func(d *domain.FoodDraft) { d.Price = nil },
		func(d *domain.FoodDraft) { d.Category = "" },
		func(d *domain.FoodDraft) { d.PreparationTime = nil },
	}
	for _, clear := range clears {
		d := validDraft()
		clear(&d)
		requireFieldError(t, v.ValidateFood(d), "Required fields are missing")
	}
}

func TestValidateFood_PreparationTime(t *testing.T) {
	v := NewFailFastValidator()
	for _, p := range []int{0, -1} {
		d := validDraft()
		d.PreparationTime = ptr(p)
		requireFieldError(t, v.ValidateFood(d), "Preparation time must be greater than 0")
	}
}

func TestValidateFood_NameLength(t *testing.T) {
	v := NewFailFastValidator()
	d := validDraft()
	d.Name = strings.Repeat("n", MaxFoodNameLength)
	assert.NoError(t, v.ValidateFood(d))

	d.Name = strings.Repeat("n", MaxFoodNameLength+1)
	requireFieldError(t, v.ValidateFood(d), "Food name is too long")
}

func TestValidateFood_Category(t *testing.T) {
	d := validDraft()
	d.Category = "Sushi"

	requireFieldError(t, NewFailFastValidator().ValidateFood(d), "Invalid food category")
}

func TestValidateFood_FirstFailureWins(t *testing.T) {
	d := validDraft()
	d.PreparationTime = ptr(0)
	d.Name = strings.Repeat("n", MaxFoodNameLength+1)
	d.Category = "Sushi"

	requireFieldError(t, NewFailFastValidator().ValidateFood(d), "Preparation time must be greater than 0")
}

func TestValidateFood_UpdateMergedDraft(t *testing.T) {
	v := NewFailFastValidator()
	existing := &domain.Food{Name: "Pizza", Description: "d", Price: 10, Category: "Pizza", PreparationTime: 15}

	merged := domain.DraftFrom(existing).Merge(domain.FoodDraft{Price: ptr(-1.0)})
	requireFieldError(t, v.ValidateFood(merged), "Price must be greater than 0")

	merged = domain.DraftFrom(existing).Merge(domain.FoodDraft{Name: strings.Repeat("x", 101)})
	requireFieldError(t, v.ValidateFood(merged), "Food name is too long")

	merged = domain.DraftFrom(existing).Merge(domain.FoodDraft{PreparationTime: ptr(25)})
	assert.NoError(t, v.ValidateFood(merged))
}

func validOrder() domain.OrderDraft {
	return domain.OrderDraft{
		Items:           []domain.OrderLine{{FoodID: "f1", Quantity: 2}},
		DeliveryAddress: "123 Main St",
		Phone:           "+15551234567",
	}
}

func TestValidateOrder(t *testing.T) {
	v := NewFailFastValidator()
	require.NoError(t, v.ValidateOrder(validOrder()))

	tests := []struct {
		name   string
		mutate func(*domain.OrderDraft)
		want   string
	}{
		{"no items", func(d *domain.OrderDraft) { d.Items = nil }, "Order must contain at least one item"},
		{"blank food id", func(d *domain.OrderDraft) { d.Items[0].FoodID = " " }, "Food ID is required for every item"},
		{"zero quantity", func(d *domain.OrderDraft) { d.Items[0].Quantity = 0 }, "Quantity must be at least 1"},
		{"long note", func(d *domain.OrderDraft) { d.SpecialInstructions = strings.Repeat("a", 501) }, "Special instructions are too long"},
		{"no address", func(d *domain.OrderDraft) { d.DeliveryAddress = "" }, "Delivery address and phone are required"},
		{"no phone", func(d *domain.OrderDraft) { d.Phone = "" }, "Delivery address and phone are required"},
		{"bad phone", func(d *domain.OrderDraft) { d.Phone = "0123" }, "Invalid phone number format"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := validOrder()
			d.Items = append([]domain.OrderLine(nil), d.Items...)
			tc.mutate(&d)
			requireFieldError(t, v.ValidateOrder(d), tc.want)
		})
	}
}

func TestValidateOrder_FirstViolationWins(t *testing.T) {
	d := domain.OrderDraft{Items: []domain.OrderLine{{FoodID: "f1", Quantity: 0}}}
	requireFieldError(t, NewFailFastValidator().ValidateOrder(d), "Quantity must be at least 1")
}
