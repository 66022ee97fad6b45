package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/relay/internal/events"
	"github.com/alfredjeanlab/relay/internal/model"
	"github.com/alfredjeanlab/relay/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Stream change events from the broker as they happen",
	GroupID: "system",
	Args:    cobra.NoArgs,
	// Watching talks to NATS directly, no HTTP client needed.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		natsURL, _ := cmd.Flags().GetString("nats")
		if natsURL == "" {
			natsURL = os.Getenv("RELAY_NATS_URL")
		}
		if natsURL == "" {
			natsURL = activeRemoteNATSURL()
		}
		if natsURL == "" {
			return fmt.Errorf("no NATS URL configured (use --nats, RELAY_NATS_URL, or a remote profile)")
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

		ch, cancel, err := sub.Subscribe("relay.>")
		if err != nil {
			return fmt.Errorf("subscribing to events: %w", err)
		}
		defer cancel()

		for {
			select {
			case <-ctx.Done():
				return nil
			case data, ok := <-ch:
				if !ok {
					return nil
				}
				printEvent(data)
			}
		}
	},
}

// watchEvent is the union shape of channel and message event payloads.
type watchEvent struct {
	Type         string         `json:"type"`
	Channel      *model.Channel `json:"channel,omitempty"`
	ChannelID    string         `json:"channelID,omitempty"`
	Message      *model.Message `json:"message,omitempty"`
	MessageID    string         `json:"messageID,omitempty"`
	RecipientIDs []string       `json:"recipientIDs"`
}

func printEvent(data []byte) {
	if jsonOutput {
		fmt.Println(string(data))
		return
	}

	var ev watchEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		fmt.Fprintf(os.Stderr, "undecodable event: %v\n", err)
		return
	}

	recipients := "broadcast"
	if len(ev.RecipientIDs) > 0 {
		recipients = fmt.Sprintf("%d recipients", len(ev.RecipientIDs))
	}

	switch {
	case ev.Message != nil:
		fmt.Printf("%s %s in %s %s\n",
			ui.RenderAccent(ev.Type),
			formatMessageLine(ev.Message),
			ui.RenderMuted(ev.Message.ChannelID),
			ui.RenderMuted("("+recipients+")"),
		)
	case ev.MessageID != "":
		fmt.Printf("%s %s %s\n", ui.RenderAccent(ev.Type), ev.MessageID, ui.RenderMuted("("+recipients+")"))
	case ev.Channel != nil:
		fmt.Printf("%s %s %s %s\n",
			ui.RenderAccent(ev.Type),
			ui.RenderChannel(ev.Channel.Name),
			ui.RenderMuted(ev.Channel.ID),
			ui.RenderMuted("("+recipients+")"),
		)
	case ev.ChannelID != "":
		fmt.Printf("%s %s %s\n", ui.RenderAccent(ev.Type), ev.ChannelID, ui.RenderMuted("("+recipients+")"))
	default:
		fmt.Println(string(data))
	}
}

func init() {
	watchCmd.Flags().String("nats", "", "NATS URL to subscribe to")
}
