// Package instrumented wraps a RecordStore with Prometheus metrics and
// OpenTelemetry spans.
package instrumented

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/fieldmap/internal/core/domain"
	"github.com/samirrijal/fieldmap/internal/core/ports"
	"github.com/samirrijal/fieldmap/internal/pkg/metrics"
	"github.com/samirrijal/fieldmap/internal/pkg/telemetry"
)

// Store implements ports.RecordStore around another store.
type Store struct {
	next    ports.RecordStore
	backend string
}

// New wraps next. backend labels every metric and span.
func New(next ports.RecordStore, backend string) *Store {
	return &Store{next: next, backend: backend}
}

func (s *Store) start(ctx context.Context, span, op string, ns domain.Namespace, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	ctx, sp := telemetry.Tracer().Start(ctx, span, trace.WithAttributes(append(attrs,
		attribute.String(telemetry.AttrBackend, s.backend),
		attribute.String(telemetry.AttrNamespace, string(ns)),
	)...))
	begin := time.Now()

	return ctx, func(err error) {
		metrics.StoreDuration.WithLabelValues(s.backend, op).Observe(time.Since(begin).Seconds())
		metrics.StoreOperations.WithLabelValues(s.backend, op, metrics.Outcome(err)).Inc()
		if err != nil {
			sp.RecordError(err)
			sp.SetStatus(codes.Error, err.Error())
		}
		sp.End()
	}
}

func (s *Store) List(ctx context.Context, ns domain.Namespace) ([]string, error) {
	ctx, done := s.start(ctx, telemetry.SpanStoreList, "list", ns)
	names, err := s.next.List(ctx, ns)
	done(err)
	return names, err
}

func (s *Store) Read(ctx context.Context, ns domain.Namespace, name string) (domain.Record, error) {
	ctx, done := s.start(ctx, telemetry.SpanStoreRead, "read", ns, attribute.String(telemetry.AttrRecord, name))
	rec, err := s.next.Read(ctx, ns, name)
	done(err)
	return rec, err
}

func (s *Store) Write(ctx context.Context, ns domain.Namespace, name string, rec domain.Record) error {
	ctx, done := s.start(ctx, telemetry.SpanStoreWrite, "write", ns,
		attribute.String(telemetry.AttrRecord, name),
		attribute.Int(telemetry.AttrPoints, len(rec.Points)),
	)
	err := s.next.Write(ctx, ns, name, rec)
	done(err)
	if err == nil {
		metrics.RecordPoints.Observe(float64(len(rec.Points)))
	}
	return err
}
