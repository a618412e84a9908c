package main

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/samirrijal/fieldmap/internal/adapters/localfs"
	"github.com/samirrijal/fieldmap/internal/core/domain"
)

var areaCmd = &cobra.Command{
	Use:   "area <file>",
	Short: "Measure a record file without storing it",
	Args:  cobra.ExactArgs(1),
	// No store needed.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		return runArea(afero.NewOsFs(), args[0], cmd.OutOrStdout())
	},
}

func runArea(fsys afero.Fs, file string, out io.Writer) error {
	points, err := localfs.ReadFile(fsys, file)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	fmt.Fprintf(out, "Points: %d\n", len(points))
	printMeasures(out, domain.NewBoundaryPolygon(points...))
	return nil
}

func init() {
	rootCmd.AddCommand(areaCmd)
}
