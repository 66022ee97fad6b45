package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alfredjeanlab/relay/internal/access"
	"github.com/alfredjeanlab/relay/internal/events"
	"github.com/alfredjeanlab/relay/internal/idgen"
	"github.com/alfredjeanlab/relay/internal/model"
	"github.com/alfredjeanlab/relay/internal/store"
)

// createChannelInput holds transport-agnostic parameters for creating a channel.
type createChannelInput struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Visibility  string           `json:"visibility"`
	Members     []model.Identity `json:"members"`
}

// updateChannelInput holds transport-agnostic parameters for renaming or
// redescribing a channel. A nil Description leaves the current one in place.
type updateChannelInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// ListChannels returns every channel the identity may read: all public
// channels plus the private ones it belongs to or created. Order follows
// store insertion order.
func (s *Server) ListChannels(ctx context.Context, who model.Identity) ([]*model.Channel, error) {
	all, err := s.channels.ListChannels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}

	visible := make([]*model.Channel, 0, len(all))
	for _, ch := range all {
		if access.CanRead(ch, who) {
			visible = append(visible, ch)
		}
	}
	return visible, nil
}

// CreateChannel validates input, persists a new channel, and publishes a
// channel-new event. The store's unique constraint on the name is the
// authoritative conflict check; the lookup below is a fast-path rejection.
func (s *Server) CreateChannel(ctx context.Context, who model.Identity, in createChannelInput) (*model.Channel, error) {
	if in.Visibility == "" {
		in.Visibility = string(model.VisibilityPublic)
	}

	id, err := idgen.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to generate id: %w", err)
	}

	ch := &model.Channel{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Visibility:  model.Visibility(in.Visibility),
		Members:     []string{},
		Creator:     who.Ref(),
		CreatedAt:   time.Now().UTC(),
	}
	if ch.IsPrivate() {
		for _, m := range in.Members {
			ch.Members = append(ch.Members, m.ID)
		}
	}

	if err := model.ValidateChannel(ch); err != nil {
		return nil, inputError("invalid channel: " + err.Error())
	}

	if existing, err := s.channels.GetChannelByName(ctx, ch.Name); err == nil && existing != nil {
		return nil, conflictError("channel name already taken: " + ch.Name)
	}

	if err := s.channels.CreateChannel(ctx, ch); err != nil {
		if errors.Is(err, store.ErrDuplicateName) {
			return nil, conflictError("channel name already taken: " + ch.Name)
		}
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	s.publish(ctx, events.TopicChannelNew, events.ChannelEvent{
		Type:         events.TypeChannelNew,
		Channel:      ch,
		RecipientIDs: recipients(ch),
	})

	return ch, nil
}

// GetChannel returns the channel and a page of its newest messages. The
// page honors the beforeID cursor the same way ListMessages does.
func (s *Server) GetChannel(ctx context.Context, who model.Identity, id, beforeID string) (*model.Channel, []*model.Message, error) {
	ch, err := s.resolveChannel(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !access.CanRead(ch, who) {
		return nil, nil, forbiddenError("not a member of channel " + id)
	}

	msgs, err := s.messages.ListMessages(ctx, store.MessageQuery{ChannelID: id, BeforeID: beforeID})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list messages: %w", err)
	}
	if msgs == nil {
		msgs = []*model.Message{}
	}
	return ch, msgs, nil
}

// UpdateChannel renames a channel and, when provided, replaces its
// description. Only the creator may update.
func (s *Server) UpdateChannel(ctx context.Context, who model.Identity, id string, in updateChannelInput) (*model.Channel, error) {
	if in.Name == "" {
		return nil, inputError("name is required")
	}

	ch, err := s.resolveChannel(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.IsCreator(ch.Creator, who) {
		return nil, forbiddenError("only the creator may update channel " + id)
	}

	now := time.Now().UTC()
	ch.Name = in.Name
	if in.Description != nil {
		ch.Description = *in.Description
	}
	ch.EditedAt = &now

	if err := model.ValidateChannel(ch); err != nil {
		return nil, inputError("invalid channel: " + err.Error())
	}

	if err := s.channels.UpdateChannel(ctx, ch); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateName):
			return nil, conflictError("channel name already taken: " + ch.Name)
		case errors.Is(err, store.ErrNotFound):
			return nil, notFoundError("channel not found: " + id)
		}
		return nil, fmt.Errorf("failed to update channel: %w", err)
	}

	s.publish(ctx, events.TopicChannelUpdate, events.ChannelEvent{
		Type:         events.TypeChannelUpdate,
		Channel:      ch,
		RecipientIDs: recipients(ch),
	})

	return ch, nil
}

// DeleteChannel removes a channel and cascades to its messages. The cascade
// is best-effort: a failure there is logged and the channel deletion still
// proceeds, accepting a transient window of orphaned messages.
func (s *Server) DeleteChannel(ctx context.Context, who model.Identity, id string) error {
	ch, err := s.resolveChannel(ctx, id)
	if err != nil {
		return err
	}
	if !access.IsCreator(ch.Creator, who) {
		return forbiddenError("only the creator may delete channel " + id)
	}

	// Recipient set is captured before the mutation removes it.
	targets := recipients(ch)

	if n, err := s.messages.DeleteChannelMessages(ctx, id); err != nil {
		slog.Warn("failed to cascade message delete", "channel", id, "error", err)
	} else if n > 0 {
		slog.Info("cascaded message delete", "channel", id, "count", n)
	}

	deleted, err := s.channels.DeleteChannel(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete channel: %w", err)
	}
	if !deleted {
		return notFoundError("channel not found: " + id)
	}

	s.publish(ctx, events.TopicChannelDelete, events.ChannelEvent{
		Type:         events.TypeChannelDelete,
		ChannelID:    id,
		RecipientIDs: targets,
	})

	return nil
}

// AddMember adds an identity to the channel's member set. Adding a present
// member is a no-op success. Membership changes publish no events.
// Public channels carry no member set; mutating one is rejected before it
// can reach the store.
func (s *Server) AddMember(ctx context.Context, who model.Identity, channelID string, member model.Identity) error {
	if member.ID == "" {
		return inputError("member id is required")
	}

	ch, err := s.resolveChannel(ctx, channelID)
	if err != nil {
		return err
	}
	if !access.IsCreator(ch.Creator, who) {
		return forbiddenError("only the creator may manage members of channel " + channelID)
	}
	if !ch.IsPrivate() {
		return inputError("channel is public, membership applies to private channels only: " + channelID)
	}

	if err := s.channels.AddMember(ctx, channelID, member.ID); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

// RemoveMember removes an identity from the channel's member set. Removing
// an absent member is a no-op success. Like AddMember, public channels are
// rejected.
func (s *Server) RemoveMember(ctx context.Context, who model.Identity, channelID, memberID string) error {
	if memberID == "" {
		return inputError("member id is required")
	}

	ch, err := s.resolveChannel(ctx, channelID)
	if err != nil {
		return err
	}
	if !access.IsCreator(ch.Creator, who) {
		return forbiddenError("only the creator may manage members of channel " + channelID)
	}
	if !ch.IsPrivate() {
		return inputError("channel is public, membership applies to private channels only: " + channelID)
	}

	if err := s.channels.RemoveMember(ctx, channelID, memberID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}

// resolveChannel fetches a channel or reports notFoundError.
func (s *Server) resolveChannel(ctx context.Context, id string) (*model.Channel, error) {
	ch, err := s.channels.GetChannel(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}
	if ch == nil {
		return nil, notFoundError("channel not found: " + id)
	}
	return ch, nil
}
