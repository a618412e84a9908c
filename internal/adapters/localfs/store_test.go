package localfs

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/fieldmap/internal/core/codec"
	"github.com/samirrijal/fieldmap/internal/core/domain"
)

func newTestStore(t *testing.T) (*Store, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	s, err := NewWithFs(fsys, "/data/files")
	require.NoError(t, err)
	return s, fsys
}

func sampleRecord() domain.Record {
	return codec.Encode([]domain.GeoPoint{{Lat: 1, Lon: 2}, {Lat: 3, Lon: 4}})
}

func TestStore_WriteReadRoundTrip(t *testing.T) {
	s, fsys := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, domain.Anonymous, "farm1", sampleRecord()))

	data, err := afero.ReadFile(fsys, "/data/files/farm1.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"points":[{"point_number":1,"latitude":1,"longitude":2},{"point_number":2,"latitude":3,"longitude":4}]}`, string(data))

	got, err := s.Read(ctx, domain.Anonymous, "farm1")
	require.NoError(t, err)
	assert.Equal(t, sampleRecord(), got)
}

func TestStore_ListIgnoresForeignFiles(t *testing.T) {
	s, fsys := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, domain.Anonymous, "farm1", sampleRecord()))
	require.NoError(t, s.Write(ctx, domain.Anonymous, "farm2", sampleRecord()))
	require.NoError(t, afero.WriteFile(fsys, "/data/files/notes.txt", []byte("x"), 0o600))
	require.NoError(t, fsys.MkdirAll("/data/files/sub.json", 0o700))

	names, err := s.List(ctx, domain.Anonymous)
	require.NoError(t, err)
	sort.Strings(names)
	assert.Equal(t, []string{"farm1", "farm2"}, names)
}

func TestStore_NamespacesAreIsolated(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "arun", "farm1", sampleRecord()))

	names, err := s.List(ctx, "priya")
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = s.Read(ctx, "priya", "farm1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	anon, err := s.List(ctx, domain.Anonymous)
	require.NoError(t, err)
	assert.Empty(t, anon)
}

func TestStore_ReadMissing(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Read(context.Background(), domain.Anonymous, "farm9")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = s.Read(context.Background(), domain.Anonymous, "../secret")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestStore_ReadMalformed(t *testing.T) {
	s, fsys := newTestStore(t)
	require.NoError(t, afero.WriteFile(fsys, "/data/files/farm1.json", []byte(`{"points":[{"latitude":1}]}`), 0o600))

	_, err := s.Read(context.Background(), domain.Anonymous, "farm1")
	assert.True(t, errors.Is(err, domain.ErrMalformedRecord))
}

func TestStore_WriteOverwrites(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, domain.Anonymous, "farm1", sampleRecord()))
	replacement := codec.Encode([]domain.GeoPoint{{Lat: 9, Lon: 9}})
	require.NoError(t, s.Write(ctx, domain.Anonymous, "farm1", replacement))

	got, err := s.Read(ctx, domain.Anonymous, "farm1")
	require.NoError(t, err)
	assert.Equal(t, replacement, got)
}

func TestStore_WriteFailureIsStorageUnavailable(t *testing.T) {
	fsys := afero.NewMemMapFs()
	s, err := NewWithFs(fsys, "/data")
	require.NoError(t, err)
	s.fs = afero.NewReadOnlyFs(fsys)

	err = s.Write(context.Background(), domain.Anonymous, "farm1", sampleRecord())
	assert.True(t, errors.Is(err, domain.ErrStorageUnavailable), "got %v", err)
}

func TestStore_InvalidNamespace(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.List(context.Background(), "../up")
	assert.True(t, errors.Is(err, domain.ErrInvalidNamespace))
}

func TestStore_WriteInvalidName(t *testing.T) {
	s, _ := newTestStore(t)
	for _, name := range []string{"", "..", "a/b", `a\b`} {
		err := s.Write(context.Background(), "arun", name, sampleRecord())
		assert.True(t, errors.Is(err, domain.ErrInvalidName), "name %q: got %v", name, err)
	}
}

func TestReadFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/picked.json", []byte(`{"points":[{"latitude":5,"longitude":6}]}`), 0o600))

	pts, err := ReadFile(fsys, "/picked.json")
	require.NoError(t, err)
	assert.Equal(t, []domain.GeoPoint{{Lat: 5, Lon: 6}}, pts)

	_, err = ReadFile(fsys, "/missing.json")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
