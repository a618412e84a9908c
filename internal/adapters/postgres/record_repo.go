package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/fieldmap/internal/core/codec"
	"github.com/samirrijal/fieldmap/internal/core/domain"
)

// RecordRepo implements ports.RecordStore as a document store: each record is
// a JSONB document keyed by name inside a collection named after the
// namespace. The anonymous namespace is not accepted.
type RecordRepo struct {
	db *DB
}

func NewRecordRepo(db *DB) *RecordRepo {
	return &RecordRepo{db: db}
}

func collection(ns domain.Namespace) (string, error) {
	if ns.IsAnonymous() {
		return "", fmt.Errorf("%w: document store requires a signed-in user", domain.ErrInvalidNamespace)
	}
	if err := ns.Validate(); err != nil {
		return "", err
	}
	return string(ns), nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrStorageUnavailable, op, err)
}

func (r *RecordRepo) List(ctx context.Context, ns domain.Namespace) ([]string, error) {
	coll, err := collection(ns)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT name FROM farm_records WHERE collection = $1
	`, coll)
	if err != nil {
		return nil, unavailable("list records", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, unavailable("scan record name", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list records", err)
	}
	return names, nil
}

func (r *RecordRepo) Read(ctx context.Context, ns domain.Namespace, name string) (domain.Record, error) {
	coll, err := collection(ns)
	if err != nil {
		return domain.Record{}, err
	}

	var doc []byte
	err = r.db.Pool.QueryRow(ctx, `
		SELECT document FROM farm_records WHERE collection = $1 AND name = $2
	`, coll, name).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Record{}, fmt.Errorf("%w: %s", domain.ErrNotFound, name)
		}
		return domain.Record{}, unavailable("read record", err)
	}
	return codec.Unmarshal(doc)
}

func (r *RecordRepo) Write(ctx context.Context, ns domain.Namespace, name string, rec domain.Record) error {
	coll, err := collection(ns)
	if err != nil {
		return err
	}
	doc, err := codec.Marshal(rec)
	if err != nil {
		return err
	}

	_, err = r.db.Pool.Exec(ctx, `
		INSERT INTO farm_records (collection, name, document, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (collection, name) DO UPDATE SET document = EXCLUDED.document, updated_at = now()
	`, coll, name, doc)
	if err != nil {
		return unavailable("write record", err)
	}
	return nil
}
