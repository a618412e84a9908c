package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/samirrijal/fieldmap/internal/core/domain"
	"github.com/samirrijal/fieldmap/internal/core/usecases"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved records",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ns, err := namespace()
		if err != nil {
			return err
		}
		svc, stack, err := openFields(cmd.Context())
		if err != nil {
			return err
		}
		defer stack.Close()

		return runList(cmd.Context(), svc, ns, cmd.OutOrStdout())
	},
}

func runList(ctx context.Context, svc *usecases.FieldService, ns domain.Namespace, out io.Writer) error {
	names, err := svc.List(ctx, ns)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(out, name)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(listCmd)
}
