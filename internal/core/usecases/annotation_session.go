package usecases

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/samirrijal/fieldmap/internal/core/codec"
	"github.com/samirrijal/fieldmap/internal/core/domain"
	"github.com/samirrijal/fieldmap/internal/core/naming"
	"github.com/samirrijal/fieldmap/internal/core/ports"
)

// SessionState is the lifecycle position of an AnnotationSession.
type SessionState int

const (
	StateEmpty SessionState = iota
	StateDrawing
	StateSaved
	StateLoaded
)

func (s SessionState) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateDrawing:
		return "drawing"
	case StateSaved:
		return "saved"
	case StateLoaded:
		return "loaded"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// AnnotationSession owns the boundary being drawn and moves it to and from a
// RecordStore.
//
// Save allocates the next farm<N> name by listing then writing. The two steps
// are not atomic: concurrent saves into one namespace can pick the same name
// and the later write replaces the earlier one.
type AnnotationSession struct {
	store     ports.RecordStore
	events    ports.EventPublisher
	namespace domain.Namespace
	now       func() time.Time

	mu       sync.Mutex
	polygon  *domain.BoundaryPolygon
	state    SessionState
	name     string
	revision uint64
}

// SessionOption configures an AnnotationSession.
type SessionOption func(*AnnotationSession)

// WithEventPublisher announces successful saves on p.
func WithEventPublisher(p ports.EventPublisher) SessionOption {
	return func(s *AnnotationSession) { s.events = p }
}

// WithClock overrides time.Now for event timestamps.
func WithClock(now func() time.Time) SessionOption {
	return func(s *AnnotationSession) { s.now = now }
}

// NewAnnotationSession creates an empty session bound to one namespace.
func NewAnnotationSession(store ports.RecordStore, ns domain.Namespace, opts ...SessionOption) *AnnotationSession {
	s := &AnnotationSession{
		store:     store,
		namespace: ns,
		now:       time.Now,
		polygon:   domain.NewBoundaryPolygon(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Namespace returns the namespace the session reads and writes.
func (s *AnnotationSession) Namespace() domain.Namespace {
	return s.namespace
}

// AddPoint appends p to the boundary.
func (s *AnnotationSession) AddPoint(p domain.GeoPoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.polygon.Append(p)
	s.state = StateDrawing
	s.revision++
}

// Refresh discards the boundary. It never touches the store.
func (s *AnnotationSession) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.polygon.Clear()
	s.state = StateEmpty
	s.name = ""
	s.revision++
}

// Points returns a copy of the current boundary.
func (s *AnnotationSession) Points() []domain.GeoPoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.polygon.Points()
}

// Area measures the current boundary.
func (s *AnnotationSession) Area() domain.Area {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.polygon.Area()
}

// Perimeter returns the current boundary length in meters.
func (s *AnnotationSession) Perimeter() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.polygon.Perimeter()
}

// State returns the lifecycle state.
func (s *AnnotationSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Name returns the record name last saved or loaded, or "".
func (s *AnnotationSession) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// Save writes the current boundary under the next free farm<N> name and
// returns that name. The in-memory boundary is not modified.
func (s *AnnotationSession) Save(ctx context.Context) (string, error) {
	if err := s.namespace.Validate(); err != nil {
		return "", err
	}

	s.mu.Lock()
	points := s.polygon.Points()
	area := s.polygon.Area()
	rev := s.revision
	s.mu.Unlock()

	rec := codec.Encode(points)

	names, err := s.store.List(ctx, s.namespace)
	if err != nil {
		return "", fmt.Errorf("list records: %w", err)
	}
	name := naming.NextName(names)

	if err := s.store.Write(ctx, s.namespace, name, rec); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}

	s.mu.Lock()
	if s.revision == rev {
		s.state = StateSaved
		s.name = name
	}
	s.mu.Unlock()

	if s.events != nil {
		_ = s.events.PublishRecordSaved(ctx, &domain.RecordSaved{
			Namespace:  s.namespace,
			Name:       name,
			PointCount: len(points),
			Area:       area,
			SavedAt:    s.now().UTC(),
		})
	}

	return name, nil
}

// Load replaces the boundary with the record stored under name. On any error
// the current boundary is left as it was.
func (s *AnnotationSession) Load(ctx context.Context, name string) error {
	if err := s.namespace.Validate(); err != nil {
		return err
	}

	rec, err := s.store.Read(ctx, s.namespace, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	points := codec.Decode(rec)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.polygon.Replace(points)
	s.state = StateLoaded
	s.name = name
	s.revision++
	return nil
}

// ListSaved returns the record names in the session's namespace, sequential
// names first in numeric order.
func (s *AnnotationSession) ListSaved(ctx context.Context) ([]string, error) {
	if err := s.namespace.Validate(); err != nil {
		return nil, err
	}
	names, err := s.store.List(ctx, s.namespace)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	naming.Sort(names)
	return names, nil
}

// SaveAsync runs Save without blocking the caller.
func (s *AnnotationSession) SaveAsync(ctx context.Context) *Future[string] {
	return Async(ctx, s.Save)
}

// LoadAsync runs Load without blocking the caller.
func (s *AnnotationSession) LoadAsync(ctx context.Context, name string) *Future[struct{}] {
	return Async(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.Load(ctx, name)
	})
}

// ListSavedAsync runs ListSaved without blocking the caller.
func (s *AnnotationSession) ListSavedAsync(ctx context.Context) *Future[[]string] {
	return Async(ctx, s.ListSaved)
}
