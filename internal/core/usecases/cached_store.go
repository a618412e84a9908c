package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/samirrijal/fieldmap/internal/core/codec"
	"github.com/samirrijal/fieldmap/internal/core/domain"
	"github.com/samirrijal/fieldmap/internal/core/ports"
)

// CachedStore is a RecordStore that keeps recently read or written records in
// a CacheService. Listing always goes to the underlying store so name
// allocation sees every record.
type CachedStore struct {
	next  ports.RecordStore
	cache ports.CacheService
	ttl   int
}

// NewCachedStore wraps next. A nil cache disables caching.
func NewCachedStore(next ports.RecordStore, cache ports.CacheService, ttlSeconds int) *CachedStore {
	if ttlSeconds <= 0 {
		ttlSeconds = 300
	}
	return &CachedStore{next: next, cache: cache, ttl: ttlSeconds}
}

// cacheKey length-prefixes the namespace so no (namespace, name) pair can
// collide with another when either contains a colon.
func cacheKey(ns domain.Namespace, name string) string {
	return fmt.Sprintf("records:%d:%s:%s", len(ns), ns, name)
}

// List passes through to the underlying store.
func (s *CachedStore) List(ctx context.Context, ns domain.Namespace) ([]string, error) {
	return s.next.List(ctx, ns)
}

// Read serves from cache when possible.
func (s *CachedStore) Read(ctx context.Context, ns domain.Namespace, name string) (domain.Record, error) {
	key := cacheKey(ns, name)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key); err == nil {
			if rec, err := codec.Unmarshal(data); err == nil {
				return rec, nil
			}
			// Drop entries that no longer decode.
			_ = s.cache.Delete(ctx, key)
		}
	}

	rec, err := s.next.Read(ctx, ns, name)
	if err != nil {
		return domain.Record{}, err
	}

	if s.cache != nil {
		if data, err := codec.Marshal(rec); err == nil {
			_ = s.cache.Set(ctx, key, data, s.ttl)
		}
	}
	return rec, nil
}

// Write stores rec and refreshes the cached copy.
func (s *CachedStore) Write(ctx context.Context, ns domain.Namespace, name string, rec domain.Record) error {
	if err := s.next.Write(ctx, ns, name, rec); err != nil {
		if s.cache != nil && !errors.Is(err, domain.ErrInvalidNamespace) {
			_ = s.cache.Delete(ctx, cacheKey(ns, name))
		}
		return err
	}
	if s.cache != nil {
		if data, err := codec.Marshal(rec); err == nil {
			_ = s.cache.Set(ctx, cacheKey(ns, name), data, s.ttl)
		}
	}
	return nil
}
