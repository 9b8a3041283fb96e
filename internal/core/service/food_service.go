package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/foodhub/ordering-api/internal/core/domain"
	"github.com/foodhub/ordering-api/internal/core/ports"
	"github.com/foodhub/ordering-api/internal/core/validation"
)

const (
	minSearchLength = 2
	maxSearchLength = 100
	searchLimit     = 50
)

// FoodService implements the catalog use cases.
type FoodService struct {
	repo      ports.FoodRepository
	validator *validation.FailFastValidator
	sanitizer *validation.Sanitizer
	log       zerolog.Logger
}

func NewFoodService(repo ports.FoodRepository, log zerolog.Logger) *FoodService {
	return &FoodService{
		repo:      repo,
		validator: validation.NewFailFastValidator(),
		sanitizer: validation.NewSanitizer(),
		log:       log,
	}
}

func (s *FoodService) List(ctx context.Context, filter domain.FoodFilter) ([]*domain.Food, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	return s.repo.List(ctx, filter)
}

// Search rejects queries outside 2..100 characters before touching storage.
func (s *FoodService) Search(ctx context.Context, query string) ([]*domain.Food, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, domain.NewFieldError("Search query is required")
	}
	if n := len([]rune(q)); n < minSearchLength || n > maxSearchLength {
		return nil, domain.NewFieldError("Search query must be between 2 and 100 characters")
	}
	return s.repo.Search(ctx, q, searchLimit)
}

func (s *FoodService) Get(ctx context.Context, id string) (*domain.Food, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *FoodService) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

// Create sanitizes and validates the draft before persisting it. New items
// are available unless the draft says otherwise.
func (s *FoodService) Create(ctx context.Context, draft domain.FoodDraft) (*domain.Food, error) {
	draft = s.sanitizer.SanitizeFoodDraft(draft)
	if err := s.validator.ValidateFood(draft); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	food := &domain.Food{
		Name:            draft.Name,
		Description:     draft.Description,
		Price:           *draft.Price,
		Category:        draft.Category,
		Image:           draft.Image,
		Available:       true,
		PreparationTime: *draft.PreparationTime,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if food.Image == "" {
		food.Image = domain.DefaultFoodImage
	}
	if draft.Available != nil {
		food.Available = *draft.Available
	}

	created, err := s.repo.Create(ctx, food)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("food_id", created.ID).Str("name", created.Name).Msg("food item created")
	return created, nil
}

// Update merges patch into the stored item and re-runs every catalog rule on
// the result.
func (s *FoodService) Update(ctx context.Context, id string, patch domain.FoodDraft) (*domain.Food, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := domain.DraftFrom(current).Merge(s.sanitizer.SanitizeFoodDraft(patch))
	if err := s.validator.ValidateFood(merged); err != nil {
		return nil, err
	}

	next := *current
	next.Name = merged.Name
	next.Description = merged.Description
	next.Price = *merged.Price
	next.Category = merged.Category
	next.PreparationTime = *merged.PreparationTime
	next.Image = merged.Image
	next.Available = *merged.Available
	next.UpdatedAt = time.Now().UTC()

	return s.repo.Replace(ctx, &next)
}

func (s *FoodService) SetAvailability(ctx context.Context, id string, available bool) (*domain.Food, error) {
	return s.repo.SetAvailability(ctx, id, available)
}

func (s *FoodService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("food_id", id).Msg("food item deleted")
	return nil
}

// Statistics summarises the whole catalog, available or not.
func (s *FoodService) Statistics(ctx context.Context) (*domain.FoodStatistics, error) {
	all, err := s.repo.List(ctx, domain.FoodFilter{})
	if err != nil {
		return nil, err
	}

	stats := &domain.FoodStatistics{CategoryCounts: map[string]int{}}
	if len(all) == 0 {
		return stats, nil
	}

	var total float64
	for _, f := range all {
		if f.Available {
			stats.AvailableItems++
		}
		total += f.Price
		stats.CategoryCounts[f.Category]++
	}
	stats.TotalItems = len(all)
	stats.AveragePrice = total / float64(len(all))
	return stats, nil
}
