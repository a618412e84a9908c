package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/samirrijal/fieldmap/internal/adapters/localfs"
	"github.com/samirrijal/fieldmap/internal/core/domain"
	"github.com/samirrijal/fieldmap/internal/core/usecases"
	"github.com/samirrijal/fieldmap/internal/pkg/metrics"
)

var importWorkers int

var importCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Save every *.json record file in a directory as a new record",
	Long:  "Decodes the record files found in dir and saves each one under the next free farm<N> name, in file name order.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ns, err := namespace()
		if err != nil {
			return err
		}
		svc, stack, err := openFields(cmd.Context())
		if err != nil {
			return err
		}
		defer stack.Close()

		imported, err := runImport(cmd.Context(), svc, afero.NewOsFs(), ns, args[0], importWorkers, cmd.OutOrStdout())
		slog.Info("import complete", "imported", imported, "dir", args[0])
		return err
	},
}

// runImport decodes files concurrently and saves them one at a time, since
// each save allocates the next name from the current listing. Nothing is
// saved if any file fails to decode.
func runImport(ctx context.Context, svc *usecases.FieldService, fsys afero.Fs, ns domain.Namespace, dir string, workers int, out io.Writer) (int, error) {
	files, err := afero.Glob(fsys, filepath.Join(dir, "*.json"))
	if err != nil {
		return 0, err
	}
	sort.Strings(files)

	boundaries := make([][]domain.GeoPoint, len(files))
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			points, err := localfs.ReadFile(fsys, file)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			boundaries[i] = points
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	for i, points := range boundaries {
		name, err := svc.Create(ctx, ns, points)
		if err != nil {
			return i, fmt.Errorf("save %s: %w", files[i], err)
		}
		metrics.RecordsSaved.WithLabelValues("import").Inc()
		fmt.Fprintf(out, "%s -> %s\n", filepath.Base(files[i]), name)
	}
	return len(boundaries), nil
}

func init() {
	importCmd.Flags().IntVar(&importWorkers, "workers", 8, "files decoded in parallel")
	rootCmd.AddCommand(importCmd)
}
