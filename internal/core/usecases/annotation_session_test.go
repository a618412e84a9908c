package usecases_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/samirrijal/fieldmap/internal/core/codec"
	"github.com/samirrijal/fieldmap/internal/core/domain"
	"github.com/samirrijal/fieldmap/internal/core/usecases"
)

func TestAnnotationSession_SaveThenLoadInNewSession(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	s1 := usecases.NewAnnotationSession(store, "arun")
	s1.AddPoint(domain.GeoPoint{Lat: 0, Lon: 0})
	s1.AddPoint(domain.GeoPoint{Lat: 0, Lon: 1})
	s1.AddPoint(domain.GeoPoint{Lat: 1, Lon: 1})
	before := s1.Area().SquareMeters

	name, err := s1.Save(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "farm1" {
		t.Fatalf("expected farm1, got %s", name)
	}
	if s1.State() != usecases.StateSaved {
		t.Errorf("expected saved state, got %s", s1.State())
	}
	if len(s1.Points()) != 3 {
		t.Errorf("save must not mutate the polygon, got %d points", len(s1.Points()))
	}

	s2 := usecases.NewAnnotationSession(store, "arun")
	if err := s2.Load(ctx, "farm1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []domain.GeoPoint{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}, {Lat: 1, Lon: 1}}
	got := s2.Points()
	if len(got) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("point %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
	if math.Abs(s2.Area().SquareMeters-before) > 1e-6 {
		t.Errorf("area changed across round trip: %v vs %v", s2.Area().SquareMeters, before)
	}
	if s2.State() != usecases.StateLoaded || s2.Name() != "farm1" {
		t.Errorf("expected loaded farm1, got %s %q", s2.State(), s2.Name())
	}
}

func TestAnnotationSession_SaveAllocatesNextName(t *testing.T) {
	var written string
	store := &mockRecordStore{
		listFn: func(ctx context.Context, ns domain.Namespace) ([]string, error) {
			return []string{"farm1", "farm3", "x"}, nil
		},
		writeFn: func(ctx context.Context, ns domain.Namespace, name string, rec domain.Record) error {
			written = name
			return nil
		},
	}

	s := usecases.NewAnnotationSession(store, "arun")
	name, err := s.Save(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "farm4" || written != "farm4" {
		t.Errorf("expected farm4, got returned=%s written=%s", name, written)
	}
}

func TestAnnotationSession_SavePropagatesStorageUnavailable(t *testing.T) {
	store := &mockRecordStore{
		writeFn: func(ctx context.Context, ns domain.Namespace, name string, rec domain.Record) error {
			return domain.ErrStorageUnavailable
		},
	}
	s := usecases.NewAnnotationSession(store, "arun")
	s.AddPoint(domain.GeoPoint{Lat: 1, Lon: 1})

	_, err := s.Save(context.Background())
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
	if s.State() != usecases.StateDrawing {
		t.Errorf("expected drawing state after failed save, got %s", s.State())
	}
	if len(s.Points()) != 1 {
		t.Errorf("expected polygon untouched, got %d points", len(s.Points()))
	}
}

func TestAnnotationSession_SaveListFailureSkipsWrite(t *testing.T) {
	wrote := false
	store := &mockRecordStore{
		listFn: func(ctx context.Context, ns domain.Namespace) ([]string, error) {
			return nil, domain.ErrStorageUnavailable
		},
		writeFn: func(ctx context.Context, ns domain.Namespace, name string, rec domain.Record) error {
			wrote = true
			return nil
		},
	}
	s := usecases.NewAnnotationSession(store, "arun")
	if _, err := s.Save(context.Background()); !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
	if wrote {
		t.Error("write must not run after a failed list")
	}
}

func TestAnnotationSession_LoadNotFoundKeepsPolygon(t *testing.T) {
	store := newMemStore()
	s := usecases.NewAnnotationSession(store, "arun")
	pts := []domain.GeoPoint{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}, {Lat: 3, Lon: 1}}
	for _, p := range pts {
		s.AddPoint(p)
	}

	err := s.Load(context.Background(), "farm9")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	got := s.Points()
	if len(got) != 3 {
		t.Fatalf("expected 3 points, got %d", len(got))
	}
	for i := range pts {
		if got[i] != pts[i] {
			t.Errorf("point %d changed: %+v", i, got[i])
		}
	}
	if s.State() != usecases.StateDrawing {
		t.Errorf("expected drawing state, got %s", s.State())
	}
}

func TestAnnotationSession_LoadMalformedKeepsPolygon(t *testing.T) {
	store := &mockRecordStore{
		readFn: func(ctx context.Context, ns domain.Namespace, name string) (domain.Record, error) {
			return codec.Unmarshal([]byte(`{"points":[{"latitude":1}]}`))
		},
	}
	s := usecases.NewAnnotationSession(store, "arun")
	s.AddPoint(domain.GeoPoint{Lat: 5, Lon: 5})

	if err := s.Load(context.Background(), "farm1"); !errors.Is(err, domain.ErrMalformedRecord) {
		t.Fatalf("expected ErrMalformedRecord, got %v", err)
	}
	if got := s.Points(); len(got) != 1 || got[0].Lat != 5 {
		t.Errorf("polygon changed: %+v", got)
	}
}

func TestAnnotationSession_RefreshNeverTouchesStore(t *testing.T) {
	store := &mockRecordStore{}
	s := usecases.NewAnnotationSession(store, "arun")
	for i := 0; i < 5; i++ {
		s.AddPoint(domain.GeoPoint{Lat: float64(i), Lon: float64(i)})
	}

	s.Refresh()

	if len(s.Points()) != 0 {
		t.Errorf("expected empty polygon, got %d points", len(s.Points()))
	}
	if s.State() != usecases.StateEmpty {
		t.Errorf("expected empty state, got %s", s.State())
	}
	if store.callCount() != 0 {
		t.Errorf("expected no store calls, got %d", store.callCount())
	}
}

func TestAnnotationSession_InvalidNamespaceAbortsBeforeStore(t *testing.T) {
	store := &mockRecordStore{}
	s := usecases.NewAnnotationSession(store, "a/b")
	ctx := context.Background()

	if _, err := s.Save(ctx); !errors.Is(err, domain.ErrInvalidNamespace) {
		t.Errorf("save: expected ErrInvalidNamespace, got %v", err)
	}
	if err := s.Load(ctx, "farm1"); !errors.Is(err, domain.ErrInvalidNamespace) {
		t.Errorf("load: expected ErrInvalidNamespace, got %v", err)
	}
	if _, err := s.ListSaved(ctx); !errors.Is(err, domain.ErrInvalidNamespace) {
		t.Errorf("list: expected ErrInvalidNamespace, got %v", err)
	}
	if store.callCount() != 0 {
		t.Errorf("expected no store calls, got %d", store.callCount())
	}
}

func TestAnnotationSession_ListSavedSortsNumerically(t *testing.T) {
	store := &mockRecordStore{
		listFn: func(ctx context.Context, ns domain.Namespace) ([]string, error) {
			return []string{"farm10", "farm2", "farm1"}, nil
		},
	}
	s := usecases.NewAnnotationSession(store, "arun")
	names, err := s.ListSaved(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 3 || names[0] != "farm1" || names[2] != "farm10" {
		t.Errorf("unexpected order: %v", names)
	}
}

func TestAnnotationSession_PublishesRecordSaved(t *testing.T) {
	pub := &mockPublisher{err: errors.New("broker down")}
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := usecases.NewAnnotationSession(newMemStore(), "arun",
		usecases.WithEventPublisher(pub),
		usecases.WithClock(func() time.Time { return fixed }),
	)
	s.AddPoint(domain.GeoPoint{Lat: 1, Lon: 1})

	name, err := s.Save(context.Background())
	if err != nil {
		t.Fatalf("publish failure must not fail the save: %v", err)
	}
	if len(pub.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(pub.events))
	}
	ev := pub.events[0]
	if ev.Name != name || ev.Namespace != "arun" || ev.PointCount != 1 || !ev.SavedAt.Equal(fixed) {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestAnnotationSession_AsyncOperations(t *testing.T) {
	store := newMemStore()
	s := usecases.NewAnnotationSession(store, "")
	s.AddPoint(domain.GeoPoint{Lat: 1, Lon: 2})
	ctx := context.Background()

	name, err := s.SaveAsync(ctx).Result()
	if err != nil || name != "farm1" {
		t.Fatalf("expected farm1, got %q %v", name, err)
	}

	names, err := s.ListSavedAsync(ctx).Await(ctx)
	if err != nil || len(names) != 1 {
		t.Fatalf("expected one name, got %v %v", names, err)
	}

	s.Refresh()
	if _, err := s.LoadAsync(ctx, "farm1").Result(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Points()) != 1 {
		t.Errorf("expected 1 point after load, got %d", len(s.Points()))
	}
}
