package ports

import (
	"context"

	"github.com/foodhub/ordering-api/internal/core/domain"
)

// FoodService defines catalog use cases.
type FoodService interface {
	List(ctx context.Context, filter domain.FoodFilter) ([]*domain.Food, error)
	Search(ctx context.Context, query string) ([]*domain.Food, error)
	Get(ctx context.Context, id string) (*domain.Food, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, draft domain.FoodDraft) (*domain.Food, error)
	Update(ctx context.Context, id string, patch domain.FoodDraft) (*domain.Food, error)
	SetAvailability(ctx context.Context, id string, available bool) (*domain.Food, error)
	Delete(ctx context.Context, id string) error
	Statistics(ctx context.Context) (*domain.FoodStatistics, error)
}
