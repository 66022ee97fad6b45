package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/alfredjeanlab/relay/internal/model"
	"github.com/alfredjeanlab/relay/internal/store"
)

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version      string    `json:"version"`
	Type         string    `json:"type"`
	Timestamp    time.Time `json:"timestamp"`
	ChannelCount int       `json:"channelCount"`
	MessageCount int       `json:"messageCount"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ExportJSONL writes every channel and message as JSONL to w. Channels are
// sorted by id; each channel's history is walked oldest page last through
// the same cursor mechanism readers use.
func ExportJSONL(ctx context.Context, channels store.Channels, messages store.Messages, w io.Writer) error {
	chans, err := channels.ListChannels(ctx)
	if err != nil {
		return fmt.Errorf("list channels: %w", err)
	}
	sort.Slice(chans, func(i, j int) bool {
		return chans[i].ID < chans[j].ID
	})

	byChannel := make(map[string][]*model.Message, len(chans))
	total := 0
	for _, ch := range chans {
		history, err := collectHistory(ctx, messages, ch.ID)
		if err != nil {
			return fmt.Errorf("collect messages for %s: %w", ch.ID, err)
		}
		byChannel[ch.ID] = history
		total += len(history)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:      "1",
		Type:         "header",
		Timestamp:    time.Now().UTC(),
		ChannelCount: len(chans),
		MessageCount: total,
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, ch := range chans {
		if err := enc.Encode(record{Type: "channel", Data: ch}); err != nil {
			return fmt.Errorf("encode channel %s: %w", ch.ID, err)
		}
		for _, m := range byChannel[ch.ID] {
			if err := enc.Encode(record{Type: "message", Data: m}); err != nil {
				return fmt.Errorf("encode message %s: %w", m.ID, err)
			}
		}
	}

	return nil
}

// collectHistory pages through a channel's messages newest-first until the
// cursor is exhausted.
func collectHistory(ctx context.Context, messages store.Messages, channelID string) ([]*model.Message, error) {
	var all []*model.Message
	before := ""
	for {
		page, err := messages.ListMessages(ctx, store.MessageQuery{ChannelID: channelID, BeforeID: before})
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			return all, nil
		}
		all = append(all, page...)
		before = page[len(page)-1].ID
	}
}
