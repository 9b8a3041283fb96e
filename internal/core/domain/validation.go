package domain

// ValidationResult is the outcome of an aggregating validation pass.
// IsValid is true exactly when Errors is empty.
type ValidationResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// NewValidationResult derives IsValid from the collected messages.
func NewValidationResult(errs []string) ValidationResult {
	if errs == nil {
		errs = []string{}
	}
	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

// Err converts an invalid result into a list-shaped ValidationError.
func (r ValidationResult) Err() error {
	if r.IsValid {
		return nil
	}
	out := make([]string, len(r.Errors))
	copy(out, r.Errors)
	return &ValidationError{Errors: out, Shape: ShapeList}
}

// SingleErr converts an invalid result into a ValidationError rendered as one
// joined message.
func (r ValidationResult) SingleErr() error {
	if r.IsValid {
		return nil
	}
	out := make([]string, len(r.Errors))
	copy(out, r.Errors)
	return &ValidationError{Errors: out, Shape: ShapeSingle}
}
