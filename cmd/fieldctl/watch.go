package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	natsadapter "github.com/samirrijal/fieldmap/internal/adapters/nats"
	"github.com/samirrijal/fieldmap/internal/core/domain"
	"github.com/samirrijal/fieldmap/internal/core/ports"
)

var watchDurable string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print records as they are saved",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		ns, err := namespace()
		if err != nil {
			return err
		}

		conn, js, err := natsadapter.Connect(cfg.NATS.URL)
		if err != nil {
			return err
		}
		defer conn.Close()
		// Make sure the stream exists before subscribing.
		if _, err := natsadapter.NewPublisher(js); err != nil {
			return err
		}

		sub := natsadapter.NewSubscriber(js, watchDurable)
		defer sub.Close()

		if err := runWatch(ctx, sub, ns, cmd.OutOrStdout()); err != nil {
			return err
		}
		<-ctx.Done()
		return nil
	},
}

// runWatch prints RecordSaved events of ns until ctx ends.
func runWatch(ctx context.Context, sub ports.EventSubscriber, ns domain.Namespace, out io.Writer) error {
	if sub == nil {
		return errors.New("no event source")
	}
	return sub.SubscribeRecordSaved(ctx, func(_ context.Context, ev *domain.RecordSaved) error {
		if ev.Namespace != ns {
			return nil
		}
		_, err := fmt.Fprintf(out, "%s  %s  %d points  Area: %.2f sq m\n",
			ev.SavedAt.Format("2006-01-02 15:04:05"), ev.Name, ev.PointCount, ev.Area.SquareMeters)
		return err
	})
}

func init() {
	watchCmd.Flags().StringVar(&watchDurable, "durable", "", "durable consumer name; empty follows new events only")
	rootCmd.AddCommand(watchCmd)
}
