// Package localfs stores records as <name>.json files in an app-private
// directory. Named namespaces get their own subdirectory; the anonymous
// namespace uses the directory itself.
package localfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/samirrijal/fieldmap/internal/core/codec"
	"github.com/samirrijal/fieldmap/internal/core/domain"
)

const ext = ".json"

// Store implements ports.RecordStore on an afero filesystem.
type Store struct {
	fs   afero.Fs
	root string
}

// New creates a Store rooted at dir on the OS filesystem.
func New(dir string) (*Store, error) {
	return NewWithFs(afero.NewOsFs(), dir)
}

// NewWithFs creates a Store on an arbitrary filesystem. The root directory is
// created if missing.
func NewWithFs(fsys afero.Fs, dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("localfs: directory is required")
	}
	if err := fsys.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("localfs: create %s: %w", dir, err)
	}
	return &Store{fs: fsys, root: dir}, nil
}

func (s *Store) dir(ns domain.Namespace) (string, error) {
	if err := ns.Validate(); err != nil {
		return "", err
	}
	if ns.IsAnonymous() {
		return s.root, nil
	}
	return filepath.Join(s.root, string(ns)), nil
}

func validName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, "/\\\x00")
}

// List returns the names of all *.json files in the namespace directory.
func (s *Store) List(ctx context.Context, ns domain.Namespace) ([]string, error) {
	dir, err := s.dir(ns)
	if err != nil {
		return nil, err
	}
	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: list %s: %v", domain.ErrStorageUnavailable, dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ext))
	}
	return names, nil
}

// Read loads and validates <name>.json.
func (s *Store) Read(ctx context.Context, ns domain.Namespace, name string) (domain.Record, error) {
	dir, err := s.dir(ns)
	if err != nil {
		return domain.Record{}, err
	}
	if !validName(name) {
		return domain.Record{}, fmt.Errorf("%w: %q", domain.ErrNotFound, name)
	}

	data, err := afero.ReadFile(s.fs, filepath.Join(dir, name+ext))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Record{}, fmt.Errorf("%w: %s", domain.ErrNotFound, name)
		}
		return domain.Record{}, fmt.Errorf("%w: read %s: %v", domain.ErrStorageUnavailable, name, err)
	}
	return codec.Unmarshal(data)
}

// Write replaces <name>.json. The file is written to a temporary name first
// and renamed into place so readers never see a partial record.
func (s *Store) Write(ctx context.Context, ns domain.Namespace, name string, rec domain.Record) error {
	dir, err := s.dir(ns)
	if err != nil {
		return err
	}
	if !validName(name) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidName, name)
	}
	data, err := codec.Marshal(rec)
	if err != nil {
		return err
	}

	if err := s.fs.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("%w: create %s: %v", domain.ErrStorageUnavailable, dir, err)
	}
	final := filepath.Join(dir, name+ext)
	tmp := final + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0o600); err != nil {
		return fmt.Errorf("%w: write %s: %v", domain.ErrStorageUnavailable, name, err)
	}
	if err := s.fs.Rename(tmp, final); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("%w: rename %s: %v", domain.ErrStorageUnavailable, name, err)
	}
	return nil
}

// ReadFile decodes a record file outside any store, such as one picked by the
// user for import.
func ReadFile(fsys afero.Fs, filename string) ([]domain.GeoPoint, error) {
	data, err := afero.ReadFile(fsys, filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, filename)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return codec.DecodeBytes(data)
}
