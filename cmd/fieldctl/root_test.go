package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/fieldmap/internal/adapters/localfs"
	"github.com/samirrijal/fieldmap/internal/core/codec"
	"github.com/samirrijal/fieldmap/internal/core/domain"
	"github.com/samirrijal/fieldmap/internal/core/usecases"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"list", "show", "import", "area", "watch"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Flags(t *testing.T) {
	require.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
	require.NotNil(t, rootCmd.PersistentFlags().Lookup("user"))

	flag := importCmd.Flags().Lookup("workers")
	require.NotNil(t, flag)
	assert.Equal(t, "8", flag.DefValue)
}

func TestNamespace(t *testing.T) {
	defer func() { userEmail = "" }()

	userEmail = ""
	ns, err := namespace()
	require.NoError(t, err)
	assert.True(t, ns.IsAnonymous())

	userEmail = "Arun@example.com"
	ns, err = namespace()
	require.NoError(t, err)
	assert.Equal(t, domain.Namespace("arun"), ns)

	userEmail = "nobody"
	_, err = namespace()
	assert.ErrorIs(t, err, domain.ErrInvalidNamespace)
}

// memFields returns a service over a local store on fsys.
func memFields(t *testing.T, fsys afero.Fs) *usecases.FieldService {
	t.Helper()
	store, err := localfs.NewWithFs(fsys, "/store")
	require.NoError(t, err)
	return usecases.NewFieldService(store, nil)
}

func writeRecordFile(t *testing.T, fsys afero.Fs, path string, points []domain.GeoPoint) {
	t.Helper()
	data, err := codec.EncodeBytes(points)
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fsys, path, data, 0o644))
}

var triangle = []domain.GeoPoint{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 0.01}, {Lat: 0.01, Lon: 0.01}}

func TestRunImport_SavesInFileOrder(t *testing.T) {
	fsys := afero.NewMemMapFs()
	svc := memFields(t, fsys)
	ctx := context.Background()

	writeRecordFile(t, fsys, "/in/b.json", triangle[:2])
	writeRecordFile(t, fsys, "/in/a.json", triangle)
	require.NoError(t, afero.WriteFile(fsys, "/in/notes.txt", []byte("skip"), 0o644))

	var out bytes.Buffer
	n, err := runImport(ctx, svc, fsys, "arun", "/in", 2, &out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "a.json -> farm1\nb.json -> farm2\n", out.String())

	bp, err := svc.Get(ctx, "arun", "farm1")
	require.NoError(t, err)
	assert.Equal(t, triangle, bp.Points())

	bp, err = svc.Get(ctx, "arun", "farm2")
	require.NoError(t, err)
	assert.Equal(t, 2, bp.Len())
}

func TestRunImport_MalformedFileSavesNothing(t *testing.T) {
	fsys := afero.NewMemMapFs()
	svc := memFields(t, fsys)

	writeRecordFile(t, fsys, "/in/a.json", triangle)
	require.NoError(t, afero.WriteFile(fsys, "/in/b.json", []byte(`{"points":"nope"}`), 0o644))

	n, err := runImport(context.Background(), svc, fsys, domain.Anonymous, "/in", 0, &bytes.Buffer{})
	assert.ErrorIs(t, err, domain.ErrMalformedRecord)
	assert.Equal(t, 0, n)

	names, err := svc.List(context.Background(), domain.Anonymous)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestRunListAndShow(t *testing.T) {
	fsys := afero.NewMemMapFs()
	svc := memFields(t, fsys)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := svc.Create(ctx, "arun", triangle)
		require.NoError(t, err)
	}

	var out bytes.Buffer
	require.NoError(t, runList(ctx, svc, "arun", &out))
	lines := strings.Fields(out.String())
	require.Len(t, lines, 10)
	assert.Equal(t, "farm1", lines[0])
	assert.Equal(t, "farm10", lines[9])

	out.Reset()
	require.NoError(t, runShow(ctx, svc, "arun", "farm3", false, &out))
	assert.Contains(t, out.String(), "farm3\n")
	assert.Contains(t, out.String(), "Area: ")

	out.Reset()
	require.NoError(t, runShow(ctx, svc, "arun", "farm3", true, &out))
	assert.Contains(t, out.String(), `"type":"Feature"`)

	err := runShow(ctx, svc, "arun", "farm99", false, &out)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunArea(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeRecordFile(t, fsys, "/f.json", triangle)

	var out bytes.Buffer
	require.NoError(t, runArea(fsys, "/f.json", &out))
	assert.Contains(t, out.String(), "Points: 3\n")
	// Half of a ~1112 m square.
	assert.Contains(t, out.String(), "Area: 61")

	assert.Error(t, runArea(fsys, "/missing.json", &out))
}

type stubSubscriber struct {
	events []*domain.RecordSaved
}

func (s *stubSubscriber) SubscribeRecordSaved(ctx context.Context, handler func(ctx context.Context, event *domain.RecordSaved) error) error {
	for _, ev := range s.events {
		if err := handler(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

func TestRunWatch_FiltersNamespace(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	sub := &stubSubscriber{events: []*domain.RecordSaved{
		{Namespace: "arun", Name: "farm4", PointCount: 5, Area: domain.Area{SquareMeters: 1234.5}, SavedAt: at},
		{Namespace: "priya", Name: "farm1", PointCount: 3, SavedAt: at},
	}}

	var out bytes.Buffer
	require.NoError(t, runWatch(context.Background(), sub, "arun", &out))
	assert.Equal(t, "2026-03-01 09:30:00  farm4  5 points  Area: 1234.50 sq m\n", out.String())

	assert.Error(t, runWatch(context.Background(), nil, "arun", &out))
}
