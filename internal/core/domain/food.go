package domain

import (
	"errors"
	"time"
)

var (
	ErrFoodNotFound  = errors.New("food item not found")
	ErrInvalidFoodID = errors.New("invalid food ID format")
)

// Categories is the closed set of catalog categories.
var Categories = []string{
	"Appetizer", "Main Course", "Dessert", "Beverage",
	"Pizza", "Burger", "Pasta", "Salad",
}

// ValidCategory reports whether c belongs to Categories.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if known == c {
			return true
		}
	}
	return false
}

const DefaultFoodImage = "https://via.placeholder.com/300x200"

// Food is a persisted catalog item.
type Food struct {
	ID              string    `json:"_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Price           float64   `json:"price"`
	Category        string    `json:"category"`
	Image           string    `json:"image"`
	Available       bool      `json:"available"`
	PreparationTime int       `json:"preparationTime"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// FoodDraft is the unvalidated input for creating or updating a catalog item.
// Pointer fields distinguish "absent" from a zero value.
type FoodDraft struct {
	Name            string
	Description     string
	Price           *float64
	Category        string
	PreparationTime *int
	Image           string
	Available       *bool
}

// DraftFrom returns a draft holding every field of f.
func DraftFrom(f *Food) FoodDraft {
	price := f.Price
	prep := f.PreparationTime
	available := f.Available
	return FoodDraft{
		Name:            f.Name,
		Description:     f.Description,
		Price:           &price,
		Category:        f.Category,
		PreparationTime: &prep,
		Image:           f.Image,
		Available:       &available,
	}
}

// Merge overlays the fields present in patch on top of d.
func (d FoodDraft) Merge(patch FoodDraft) FoodDraft {
	if patch.Name != "" {
		d.Name = patch.Name
	}
	if patch.Description != "" {
		d.Description = patch.Description
	}
	if patch.Price != nil {
		d.Price = patch.Price
	}
	if patch.Category != "" {
		d.Category = patch.Category
	}
	if patch.PreparationTime != nil {
		d.PreparationTime = patch.PreparationTime
	}
	if patch.Image != "" {
		d.Image = patch.Image
	}
	if patch.Available != nil {
		d.Available = patch.Available
	}
	return d
}

// FoodFilter narrows catalog listings.
type FoodFilter struct {
	Category  string
	Available *bool
}

// FoodStatistics summarises the catalog.
type FoodStatistics struct {
	TotalItems     int            `json:"totalItems"`
	AvailableItems int            `json:"availableItems"`
	AveragePrice   float64        `json:"averagePrice"`
	CategoryCounts map[string]int `json:"categoryCounts"`
}
