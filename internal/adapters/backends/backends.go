// Package backends assembles the record store selected by configuration.
package backends

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/fieldmap/internal/adapters/instrumented"
	"github.com/samirrijal/fieldmap/internal/adapters/localfs"
	natsadapter "github.com/samirrijal/fieldmap/internal/adapters/nats"
	"github.com/samirrijal/fieldmap/internal/adapters/postgres"
	"github.com/samirrijal/fieldmap/internal/adapters/valkey"
	"github.com/samirrijal/fieldmap/internal/core/ports"
	"github.com/samirrijal/fieldmap/internal/core/usecases"
	"github.com/samirrijal/fieldmap/internal/pkg/config"
)

// Stack is the storage side of a running process. Optional parts are nil
// when unconfigured or unreachable.
type Stack struct {
	Store     ports.RecordStore
	Publisher ports.EventPublisher
	DB        *postgres.DB
	Cache     *valkey.Cache
	NATS      *nats.Conn
	JetStream nats.JetStreamContext
}

// Open builds the configured backend, wrapped with metrics and, when
// enabled, the Valkey read-through cache. NATS is required for the object
// backend and optional otherwise (events are then not published).
func Open(ctx context.Context, cfg *config.Config) (*Stack, error) {
	st := &Stack{}

	var store ports.RecordStore
	switch cfg.Storage.Backend {
	case config.BackendLocal:
		s, err := localfs.New(cfg.Storage.LocalDir)
		if err != nil {
			return nil, err
		}
		store = s

	case config.BackendDocument:
		db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		st.DB = db
		store = postgres.NewRecordRepo(db)

	case config.BackendObject:
		if err := st.connectNATS(cfg.NATS.URL); err != nil {
			return nil, err
		}
		s, err := natsadapter.NewObjectStore(st.JetStream, cfg.NATS.Bucket)
		if err != nil {
			st.Close()
			return nil, err
		}
		store = s

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	store = instrumented.New(store, cfg.Storage.Backend)

	if cfg.Storage.CacheEnabled {
		cache, err := valkey.New(cfg.Valkey.Addr)
		if err != nil {
			slog.Warn("valkey unavailable, caching disabled", "error", err)
		} else {
			st.Cache = cache
			store = usecases.NewCachedStore(store, cache, cfg.Storage.CacheTTL)
		}
	}
	st.Store = store

	if st.NATS == nil && cfg.NATS.URL != "" {
		if err := st.connectNATS(cfg.NATS.URL); err != nil {
			slog.Warn("nats unavailable, record events disabled", "error", err)
		}
	}
	if st.JetStream != nil {
		pub, err := natsadapter.NewPublisher(st.JetStream)
		if err != nil {
			slog.Warn("record events stream unavailable", "error", err)
		} else {
			st.Publisher = pub
		}
	}

	slog.Info("record store ready",
		"backend", cfg.Storage.Backend,
		"cache", st.Cache != nil,
		"events", st.Publisher != nil,
	)
	return st, nil
}

func (st *Stack) connectNATS(url string) error {
	conn, js, err := natsadapter.Connect(url)
	if err != nil {
		return err
	}
	st.NATS, st.JetStream = conn, js
	return nil
}

// Ping reports the first unreachable dependency.
func (st *Stack) Ping(ctx context.Context) error {
	var errs []error
	if st.DB != nil {
		if err := st.DB.Pool.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("database: %w", err))
		}
	}
	if st.NATS != nil && !st.NATS.IsConnected() {
		errs = append(errs, errors.New("nats: not connected"))
	}
	if st.Cache != nil {
		if err := st.Cache.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("valkey: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Close releases every open connection.
func (st *Stack) Close() {
	if st.Cache != nil {
		st.Cache.Close()
	}
	if st.NATS != nil {
		st.NATS.Close()
	}
	if st.DB != nil {
		st.DB.Close()
	}
}
