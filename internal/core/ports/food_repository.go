package ports

import (
	"context"

	"github.com/foodhub/ordering-api/internal/core/domain"
)

// FoodRepository defines persistence operations for catalog items.
type FoodRepository interface {
	Create(ctx context.Context, food *domain.Food) (*domain.Food, error)
	FindByID(ctx context.Context, id string) (*domain.Food, error)
	// FindByIDs returns the items found; missing ids are simply absent.
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Food, error)
	List(ctx context.Context, filter domain.FoodFilter) ([]*domain.Food, error)
	// Search matches the literal query against name, description and category.
	Search(ctx context.Context, query string, limit int) ([]*domain.Food, error)
	Categories(ctx context.Context) ([]string, error)
	Replace(ctx context.Context, food *domain.Food) (*domain.Food, error)
	SetAvailability(ctx context.Context, id string, available bool) (*domain.Food, error)
	Delete(ctx context.Context, id string) error
}
