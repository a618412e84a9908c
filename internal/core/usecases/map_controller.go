package usecases

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/samirrijal/fieldmap/internal/core/domain"
)

// ErrLoadInFlight is returned by OnTap while a load is replacing the boundary.
var ErrLoadInFlight = errors.New("load in progress")

// Snapshot is what a map view needs to redraw after an event.
type Snapshot struct {
	Points    []domain.GeoPoint `json:"points"`
	Area      domain.Area       `json:"area"`
	Perimeter float64           `json:"perimeter_meters"`
	State     string            `json:"state"`
	Name      string            `json:"name,omitempty"`
}

// SaveResult is the outcome of OnSaveRequested.
type SaveResult struct {
	Name     string   `json:"name"`
	Snapshot Snapshot `json:"snapshot"`
}

// MapController translates map UI events into session calls. Every call
// returns data or a Future; presenting results is left to the caller.
type MapController struct {
	session *AnnotationSession
	loading atomic.Int32
}

// NewMapController wraps a session.
func NewMapController(session *AnnotationSession) *MapController {
	return &MapController{session: session}
}

// OnTap adds a point unless a load is pending.
func (c *MapController) OnTap(p domain.GeoPoint) (Snapshot, error) {
	if c.loading.Load() > 0 {
		return c.snapshot(), ErrLoadInFlight
	}
	c.session.AddPoint(p)
	return c.snapshot(), nil
}

// OnSaveRequested saves the boundary.
func (c *MapController) OnSaveRequested(ctx context.Context) *Future[SaveResult] {
	return Async(ctx, func(ctx context.Context) (SaveResult, error) {
		name, err := c.session.Save(ctx)
		if err != nil {
			return SaveResult{}, err
		}
		return SaveResult{Name: name, Snapshot: c.snapshot()}, nil
	})
}

// OnOpenRequested lists saved names for a picker.
func (c *MapController) OnOpenRequested(ctx context.Context) *Future[[]string] {
	return c.session.ListSavedAsync(ctx)
}

// OnNameChosen loads the chosen record. Taps are rejected until it completes.
func (c *MapController) OnNameChosen(ctx context.Context, name string) *Future[Snapshot] {
	c.loading.Add(1)
	return Async(ctx, func(ctx context.Context) (Snapshot, error) {
		defer c.loading.Add(-1)
		if err := c.session.Load(ctx, name); err != nil {
			return c.snapshot(), err
		}
		return c.snapshot(), nil
	})
}

// OnRefreshRequested clears the boundary.
func (c *MapController) OnRefreshRequested() Snapshot {
	c.session.Refresh()
	return c.snapshot()
}

func (c *MapController) snapshot() Snapshot {
	s := c.session
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Points:    s.polygon.Points(),
		Area:      s.polygon.Area(),
		Perimeter: s.polygon.Perimeter(),
		State:     s.state.String(),
		Name:      s.name,
	}
}
