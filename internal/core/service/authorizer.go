package service

import "github.com/foodhub/ordering-api/internal/core/domain"

// Authorizer grants access by exact role match. Roles form no hierarchy.
type Authorizer struct{}

func NewAuthorizer() *Authorizer {
	return &Authorizer{}
}

// Authorize must only be called after token verification succeeded. A nil
// identity means the pipeline is mis-wired and panics.
func (a *Authorizer) Authorize(id *domain.Identity, required domain.Role) error {
	if id == nil {
		panic("authorizer: Authorize called without a verified identity")
	}
	if id.Role != required {
		return domain.NewAuthorizationError(required)
	}
	return nil
}
