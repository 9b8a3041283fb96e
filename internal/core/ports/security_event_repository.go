package ports

import (
	"context"

	"github.com/foodhub/ordering-api/internal/core/domain"
)

// SecurityEventRepository persists the security audit trail.
type SecurityEventRepository interface {
	Insert(ctx context.Context, event *domain.SecurityEvent) error
}

// SecurityEventRecorder accepts audit events without blocking the caller.
type SecurityEventRecorder interface {
	Record(event domain.SecurityEvent)
}
