package ports

import (
	"context"

	"github.com/samirrijal/fieldmap/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishRecordSaved(ctx context.Context, event *domain.RecordSaved) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeRecordSaved(ctx context.Context, handler func(ctx context.Context, event *domain.RecordSaved) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
