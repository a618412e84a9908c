package natsadapter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/fieldmap/internal/core/codec"
	"github.com/samirrijal/fieldmap/internal/core/domain"
)

const objectExt = ".json"

// bucket is the part of nats.ObjectStore the record store needs.
type bucket interface {
	PutBytes(name string, data []byte, opts ...nats.ObjectOpt) (*nats.ObjectInfo, error)
	GetBytes(name string, opts ...nats.GetObjectOpt) ([]byte, error)
	List(opts ...nats.ListObjectsOpt) ([]*nats.ObjectInfo, error)
}

// ObjectStore implements ports.RecordStore on a JetStream object store bucket.
// Records live at <namespace>/<name>.json. The anonymous namespace is not
// accepted.
type ObjectStore struct {
	bucket bucket
}

// NewObjectStore opens the bucket, creating it if needed.
func NewObjectStore(js nats.JetStreamContext, bucketName string) (*ObjectStore, error) {
	obs, err := js.ObjectStore(bucketName)
	if err != nil {
		// Bucket may not exist yet
		obs, err = js.CreateObjectStore(&nats.ObjectStoreConfig{
			Bucket:      bucketName,
			Description: "fieldmap boundary records",
			Storage:     nats.FileStorage,
		})
		if err != nil {
			return nil, fmt.Errorf("ensure object store %s: %w", bucketName, err)
		}
	}
	return &ObjectStore{bucket: obs}, nil
}

func prefix(ns domain.Namespace) (string, error) {
	if ns.IsAnonymous() {
		return "", fmt.Errorf("%w: object store requires a signed-in user", domain.ErrInvalidNamespace)
	}
	if err := ns.Validate(); err != nil {
		return "", err
	}
	return string(ns) + "/", nil
}

func (s *ObjectStore) List(ctx context.Context, ns domain.Namespace) ([]string, error) {
	p, err := prefix(ns)
	if err != nil {
		return nil, err
	}

	infos, err := s.bucket.List(nats.Context(ctx))
	if err != nil {
		if errors.Is(err, nats.ErrNoObjectsFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: list objects: %v", domain.ErrStorageUnavailable, err)
	}

	var names []string
	for _, info := range infos {
		if info == nil || info.Deleted {
			continue
		}
		rest, ok := strings.CutPrefix(info.Name, p)
		if !ok || strings.Contains(rest, "/") || !strings.HasSuffix(rest, objectExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(rest, objectExt))
	}
	return names, nil
}

func (s *ObjectStore) Read(ctx context.Context, ns domain.Namespace, name string) (domain.Record, error) {
	p, err := prefix(ns)
	if err != nil {
		return domain.Record{}, err
	}

	data, err := s.bucket.GetBytes(p+name+objectExt, nats.Context(ctx))
	if err != nil {
		if errors.Is(err, nats.ErrObjectNotFound) {
			return domain.Record{}, fmt.Errorf("%w: %s", domain.ErrNotFound, name)
		}
		return domain.Record{}, fmt.Errorf("%w: get object %s: %v", domain.ErrStorageUnavailable, name, err)
	}
	return codec.Unmarshal(data)
}

func (s *ObjectStore) Write(ctx context.Context, ns domain.Namespace, name string, rec domain.Record) error {
	p, err := prefix(ns)
	if err != nil {
		return err
	}
	data, err := codec.Marshal(rec)
	if err != nil {
		return err
	}

	if _, err := s.bucket.PutBytes(p+name+objectExt, data, nats.Context(ctx)); err != nil {
		return fmt.Errorf("%w: put object %s: %v", domain.ErrStorageUnavailable, name, err)
	}
	return nil
}
