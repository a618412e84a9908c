package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/samirrijal/fieldmap/internal/core/domain"
	"github.com/samirrijal/fieldmap/internal/core/usecases"
	"github.com/samirrijal/fieldmap/internal/pkg/geospatial"
)

var showGeoJSON bool

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a saved record with its area",
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

		return runShow(cmd.Context(), svc, ns, args[0], showGeoJSON, cmd.OutOrStdout())
	},
}

func runShow(ctx context.Context, svc *usecases.FieldService, ns domain.Namespace, name string, asGeoJSON bool, out io.Writer) error {
	bp, err := svc.Get(ctx, ns, name)
	if err != nil {
		return err
	}

	if asGeoJSON {
		data, err := geospatial.Feature(name, domain.Coords(bp.Points()), map[string]interface{}{"name": name})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	fmt.Fprintf(out, "%s\n", name)
	for i, p := range bp.Points() {
		fmt.Fprintf(out, "  %3d  %.7f, %.7f\n", i+1, p.Lat, p.Lon)
	}
	printMeasures(out, bp)
	return nil
}

func printMeasures(out io.Writer, bp *domain.BoundaryPolygon) {
	area := bp.Area()
	fmt.Fprintf(out, "Area: %.2f sq m (%.4f ha)\n", area.SquareMeters, area.Hectares)
	fmt.Fprintf(out, "Perimeter: %.2f m\n", bp.Perimeter())
}

func init() {
	showCmd.Flags().BoolVar(&showGeoJSON, "geojson", false, "print as a GeoJSON Feature")
	rootCmd.AddCommand(showCmd)
}
