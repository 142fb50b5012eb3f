package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/hsuehlab/shopline-middleware/internal/events"
	"github.com/hsuehlab/shopline-middleware/internal/ui"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Tail ingested events from the event bus",
	GroupID: "events",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		natsURL, _ := cmd.Flags().GetString("nats")
		eventType, _ := cmd.Flags().GetString("type")
		source, _ := cmd.Flags().GetString("source")

		if natsURL == "" {
			natsURL = os.Getenv("SLMW_NATS_URL")
		}
		if natsURL == "" {
			natsURL = activeProfileNATSURL()
		}
		if natsURL == "" {
			return fmt.Errorf("no NATS URL; pass --nats, set SLMW_NATS_URL, or configure a profile")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		sub, err := events.NewNATSSubscriber(natsURL,
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				log.Printf("nats: disconnected: %v", err)
			}),
			nats.ReconnectHandler(func(_ *nats.Conn) {
				log.Printf("nats: reconnected")
			}),
		)
		if err != nil {
			return fmt.Errorf("connecting to NATS: %w", err)
		}
		defer sub.Close()

		ch, cancel, err := sub.Subscribe(events.TopicEventIngested)
		if err != nil {
			return fmt.Errorf("subscribing to events: %w", err)
		}
		defer cancel()

		fmt.Fprintf(os.Stderr, "watching %s (ctrl-c to stop)\n", events.TopicEventIngested)

		for {
			select {
			case <-ctx.Done():
				return nil
			case payload, ok := <-ch:
				if !ok {
					return nil
				}
				printWatched(payload, eventType, source)
			}
		}
	},
}

func printWatched(payload []byte, typeFilter, sourceFilter string) {
	var msg events.EventIngested
	if err := json.Unmarshal(payload, &msg); err != nil || msg.Event == nil {
		// Unknown payload shape; show it raw rather than dropping it.
		fmt.Println(string(payload))
		return
	}
	e := msg.Event
	if typeFilter != "" && e.Type != typeFilter {
		return
	}
	if sourceFilter != "" && e.Source != sourceFilter {
		return
	}

	if jsonOutput {
		line, err := json.Marshal(e)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
			return
		}
		fmt.Println(string(line))
		return
	}
	fmt.Printf("%s  %s  %s  %s\n",
		e.Timestamp.Format("15:04:05"),
		ui.RenderAccent(e.ID),
		e.Type,
		ui.RenderMuted(e.Source),
	)
}

func init() {
	watchCmd.Flags().String("nats", "", "NATS server URL")
	watchCmd.Flags().StringP("type", "t", "", "only show events of this type")
	watchCmd.Flags().StringP("source", "s", "", "only show events from this source")
}
