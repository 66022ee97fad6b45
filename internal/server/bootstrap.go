package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alfredjeanlab/relay/internal/events"
	"github.com/alfredjeanlab/relay/internal/idgen"
	"github.com/alfredjeanlab/relay/internal/model"
	"github.com/alfredjeanlab/relay/internal/store"
)

// EnsureGeneralChannel guarantees the "general" public channel exists,
// creating it if absent. Safe to run concurrently: the store's unique name
// constraint makes a losing racer observe a duplicate, which is treated as
// success. Runs before the server accepts any operation.
func (s *Server) EnsureGeneralChannel(ctx context.Context) error {
	existing, err := s.channels.GetChannelByName(ctx, model.GeneralChannelName)
	if err != nil {
		return fmt.Errorf("failed to look up %s channel: %w", model.GeneralChannelName, err)
	}
	if existing != nil {
		return nil
	}

	id, err := idgen.Channel()
	if err != nil {
		return fmt.Errorf("failed to generate id: %w", err)
	}

	ch := &model.Channel{
		ID:          id,
		Name:        model.GeneralChannelName,
		Description: "default public channel for all",
		Visibility:  model.VisibilityPublic,
		Members:     []string{},
		Creator:     model.Identity{ID: "system"},
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.channels.CreateChannel(ctx, ch); err != nil {
		if errors.Is(err, store.ErrDuplicateName) {
			// Another instance created it first.
			return nil
		}
		return fmt.Errorf("failed to create %s channel: %w", model.GeneralChannelName, err)
	}

	slog.Info("created bootstrap channel", "channel", ch.ID, "name", ch.Name)

	s.publish(ctx, events.TopicChannelNew, events.ChannelEvent{
		Type:         events.TypeChannelNew,
		Channel:      ch,
		RecipientIDs: recipients(ch),
	})

	return nil
}
