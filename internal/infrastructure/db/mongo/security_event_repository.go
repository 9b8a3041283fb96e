package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/foodhub/ordering-api/internal/core/domain"
	"github.com/foodhub/ordering-api/internal/core/ports"
)

const (
	collectionSecurityEvents = "security_events"
	securityEventRetention   = 90 * 24 * time.Hour
)

// SecurityEventRepository implements ports.SecurityEventRepository using MongoDB.
type SecurityEventRepository struct {
	col *mongo.Collection
}

// NewSecurityEventRepository creates a new SecurityEventRepository.
func NewSecurityEventRepository(db *mongo.Database) *SecurityEventRepository {
	return &SecurityEventRepository{col: db.Collection(collectionSecurityEvents)}
}

var _ ports.SecurityEventRepository = (*SecurityEventRepository)(nil)

// Insert appends one entry to the audit collection.
func (r *SecurityEventRepository) Insert(ctx context.Context, event *domain.SecurityEvent) error {
	doc := bson.M{
		"kind":        string(event.Kind),
		"client_ip":   event.ClientIP,
		"method":      event.Method,
		"path":        event.Path,
		"at":          event.At.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if event.Username != "" {
		doc["username"] = event.Username
	}
	if event.Detail != "" {
		doc["detail"] = event.Detail
	}
	if event.RequestID != "" {
		doc["request_id"] = event.RequestID
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert security event: %w", err)
	}
	return nil
}

// EnsureIndexes expires entries after the retention period and supports
// per-client lookups.
func (r *SecurityEventRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(securityEventRetention.Seconds())),
		},
		{Keys: bson.D{{Key: "client_ip", Value: 1}, {Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "kind", Value: 1}, {Key: "at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("security event indexes: %w", err)
	}
	return nil
}
