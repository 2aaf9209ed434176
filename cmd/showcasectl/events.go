package main

import (
	"context"
	"encoding/json"
	"errors"
	"os/signal"
	"syscall"

	"github.com/phambaophuc/showcase/internal/services/events"
	"github.com/spf13/cobra"
)

func newEventsCmd(opts *rootOptions) *cobra.Command {
	var (
		consumer string
		stats    bool
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print showcase events from the queue as JSON lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.open()
			if err != nil {
				return err
			}
			defer a.Close()

			if a.Queue == nil {
				return errors.New("events are not configured, set RABBITMQ_URL")
			}

			if stats {
				return printQueueStats(cmd, a.Queue)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			enc := json.NewEncoder(cmd.OutOrStdout())
			return a.Queue.Consume(ctx, consumer, func(_ context.Context, event events.ShowcaseEvent) error {
				return enc.Encode(event)
			})
		},
	}

	cmd.Flags().StringVar(&consumer, "consumer", "showcasectl", "AMQP consumer tag")
	cmd.Flags().BoolVar(&stats, "stats", false, "print queue depth and consumer count, then exit")
	return cmd
}

type queueStatter interface {
	GetQueueStats() (map[string]any, error)
}

func printQueueStats(cmd *cobra.Command, q queueStatter) error {
	stats, err := q.GetQueueStats()
	if err != nil {
		return err
	}
	return json.NewEncoder(cmd.OutOrStdout()).Encode(stats)
}
