package usecases_test

import (
	"context"
	"sync"

	"github.com/samirrijal/fieldmap/internal/core/domain"
)

// --- Mock RecordStore ---

type mockRecordStore struct {
	listFn  func(ctx context.Context, ns domain.Namespace) ([]string, error)
	readFn  func(ctx context.Context, ns domain.Namespace, name string) (domain.Record, error)
	writeFn func(ctx context.Context, ns domain.Namespace, name string, rec domain.Record) error

	mu    sync.Mutex
	calls []string
}

func (m *mockRecordStore) record(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, op)
}

func (m *mockRecordStore) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockRecordStore) List(ctx context.Context, ns domain.Namespace) ([]string, error) {
	m.record("list")
	if m.listFn != nil {
		return m.listFn(ctx, ns)
	}
	return nil, nil
}

func (m *mockRecordStore) Read(ctx context.Context, ns domain.Namespace, name string) (domain.Record, error) {
	m.record("read")
	if m.readFn != nil {
		return m.readFn(ctx, ns, name)
	}
	return domain.Record{}, domain.ErrNotFound
}

func (m *mockRecordStore) Write(ctx context.Context, ns domain.Namespace, name string, rec domain.Record) error {
	m.record("write")
	if m.writeFn != nil {
		return m.writeFn(ctx, ns, name, rec)
	}
	return nil
}

// --- In-memory RecordStore ---

type memStore struct {
	mu      sync.Mutex
	records map[domain.Namespace]map[string]domain.Record
}

func newMemStore() *memStore {
	return &memStore{records: make(map[domain.Namespace]map[string]domain.Record)}
}

func (m *memStore) List(ctx context.Context, ns domain.Namespace) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var names []string
	for name := range m.records[ns] {
		names = append(names, name)
	}
	return names, nil
}

func (m *memStore) Read(ctx context.Context, ns domain.Namespace, name string) (domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[ns][name]
	if !ok {
		return domain.Record{}, domain.ErrNotFound
	}
	return rec, nil
}

func (m *memStore) Write(ctx context.Context, ns domain.Namespace, name string, rec domain.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.records[ns] == nil {
		m.records[ns] = make(map[string]domain.Record)
	}
	m.records[ns][name] = rec
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu     sync.Mutex
	events []*domain.RecordSaved
	err    error
}

func (m *mockPublisher) PublishRecordSaved(ctx context.Context, event *domain.RecordSaved) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return m.err
}

// --- Mock CacheService ---

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
	gets int
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	v, ok := m.data[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
