package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/foodhub/ordering-api/internal/core/domain"
)

const (
	MaxFoodNameLength           = 100
	MaxSpecialInstructionLength = 500
)

// FailFastValidator applies the catalog business rules and stops at the
// first violation. Registration uses AggregatingValidator instead; the two
// contracts are deliberately different.
type FailFastValidator struct{}

// NewFailFastValidator returns a FailFastValidator.
func NewFailFastValidator() *FailFastValidator {
	return &FailFastValidator{}
}

// ValidateFood checks a complete catalog draft. Creation and update both call
// it; updates pass the merged draft so no rule is skipped.
func (v *FailFastValidator) ValidateFood(d domain.FoodDraft) error {
	// Price is checked before the required sweep so a negative price is
	// reported as such and not as a missing field.
	if d.Price != nil && !(*d.Price > 0) {
		return domain.NewFieldError("Price must be greater than 0")
	}
	if foodFieldsMissing(d) {
		return domain.NewFieldError("Required fields are missing")
	}
	if *d.PreparationTime <= 0 {
		return domain.NewFieldError("Preparation time must be greater than 0")
	}
	if utf8.RuneCountInString(d.Name) > MaxFoodNameLength {
		return domain.NewFieldError("Food name is too long")
	}
	if !domain.ValidCategory(d.Category) {
		return domain.NewFieldError("Invalid food category")
	}
	return nil
}

func foodFieldsMissing(d domain.FoodDraft) bool {
	return strings.TrimSpace(d.Name) == "" ||
		strings.TrimSpace(d.Description) == "" ||
		d.Price == nil ||
		strings.TrimSpace(d.Category) == "" ||
		d.PreparationTime == nil
}

// ValidateOrder checks an order draft after the caller's profile defaults for
// address and phone have been applied.
func (v *FailFastValidator) ValidateOrder(d domain.OrderDraft) error {
	if len(d.Items) == 0 {
		return domain.NewFieldError("Order must contain at least one item")
	}
	for _, line := range d.Items {
		if strings.TrimSpace(line.FoodID) == "" {
			return domain.NewFieldError("Food ID is required for every item")
		}
		if line.Quantity < 1 {
			return domain.NewFieldError("Quantity must be at least 1")
		}
	}
	if utf8.RuneCountInString(d.SpecialInstructions) > MaxSpecialInstructionLength {
		return domain.NewFieldError("Special instructions are too long")
	}
	if strings.TrimSpace(d.DeliveryAddress) == "" || strings.TrimSpace(d.Phone) == "" {
		return domain.NewFieldError("Delivery address and phone are required")
	}
	if !phoneRegex.MatchString(d.Phone) {
		return domain.NewFieldError("Invalid phone number format")
	}
	return nil
}
