package http

import (
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/fieldmap/internal/adapters/postgres"
	"github.com/samirrijal/fieldmap/internal/adapters/valkey"
	"github.com/samirrijal/fieldmap/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers. Everything but
// Fields is optional.
type Dependencies struct {
	Fields *usecases.FieldService
	NATS   *nats.Conn
	DB     *postgres.DB
	Cache  *valkey.Cache

	// SpecFile is the OpenAPI document served under /docs.
	SpecFile string
}
