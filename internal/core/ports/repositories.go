package ports

import (
	"context"

	"github.com/samirrijal/fieldmap/internal/core/domain"
)

// RecordStore persists named records inside a namespace.
//
// Implementations report failures with the domain error kinds:
// ErrNotFound for a missing name, ErrMalformedRecord for stored bytes that do
// not decode, ErrStorageUnavailable for transport or IO failures, and
// ErrInvalidNamespace when the namespace cannot be used by the backend, and
// ErrInvalidName for a name the backend cannot store.
type RecordStore interface {
	// List returns the names stored in ns, in no particular order.
	List(ctx context.Context, ns domain.Namespace) ([]string, error)
	// Read returns the record stored under name.
	Read(ctx context.Context, ns domain.Namespace, name string) (domain.Record, error)
	// Write stores rec under name, replacing any existing record.
	Write(ctx context.Context, ns domain.Namespace, name string, rec domain.Record) error
}
