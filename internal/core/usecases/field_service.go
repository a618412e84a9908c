package usecases

import (
	"context"

	"github.com/samirrijal/fieldmap/internal/core/domain"
	"github.com/samirrijal/fieldmap/internal/core/ports"
)

// FieldService hands out sessions over a shared store and serves one-shot
// requests that do not keep a session around.
type FieldService struct {
	store  ports.RecordStore
	events ports.EventPublisher
}

// NewFieldService creates a new FieldService. events may be nil.
func NewFieldService(store ports.RecordStore, events ports.EventPublisher) *FieldService {
	return &FieldService{store: store, events: events}
}

// NewSession starts an empty session in ns.
func (s *FieldService) NewSession(ns domain.Namespace) *AnnotationSession {
	var opts []SessionOption
	if s.events != nil {
		opts = append(opts, WithEventPublisher(s.events))
	}
	return NewAnnotationSession(s.store, ns, opts...)
}

// List returns saved names in ns.
func (s *FieldService) List(ctx context.Context, ns domain.Namespace) ([]string, error) {
	return s.NewSession(ns).ListSaved(ctx)
}

// Get loads a saved boundary.
func (s *FieldService) Get(ctx context.Context, ns domain.Namespace, name string) (*domain.BoundaryPolygon, error) {
	sess := s.NewSession(ns)
	if err := sess.Load(ctx, name); err != nil {
		return nil, err
	}
	return domain.NewBoundaryPolygon(sess.Points()...), nil
}

// Create saves points as a new record and returns its name.
func (s *FieldService) Create(ctx context.Context, ns domain.Namespace, points []domain.GeoPoint) (string, error) {
	sess := s.NewSession(ns)
	for _, p := range points {
		sess.AddPoint(p)
	}
	return sess.Save(ctx)
}
