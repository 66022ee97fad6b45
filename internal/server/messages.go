package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alfredjeanlab/relay/internal/access"
	"github.com/alfredjeanlab/relay/internal/events"
	"github.com/alfredjeanlab/relay/internal/idgen"
	"github.com/alfredjeanlab/relay/internal/model"
	"github.com/alfredjeanlab/relay/internal/store"
)

// ListMessages returns up to a page of the channel's messages, newest
// first. A beforeID cursor restricts results to messages with a strictly
// smaller id; message ids order lexicographically by creation time, so the
// cursor walks backward through history.
func (s *Server) ListMessages(ctx context.Context, who model.Identity, channelID, beforeID string) ([]*model.Message, error) {
	ch, err := s.resolveChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if !access.CanRead(ch, who) {
		return nil, forbiddenError("not a member of channel " + channelID)
	}

	msgs, err := s.messages.ListMessages(ctx, store.MessageQuery{ChannelID: channelID, BeforeID: beforeID})
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	if msgs == nil {
		msgs = []*model.Message{}
	}
	return msgs, nil
}

// PostMessage persists a new message in the channel and publishes a
// message-new event targeting the channel's current members.
func (s *Server) PostMessage(ctx context.Context, who model.Identity, channelID, body string) (*model.Message, error) {
	ch, err := s.resolveChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if !access.CanWrite(ch, who) {
		return nil, forbiddenError("not a member of channel " + channelID)
	}

	id, err := idgen.Message()
	if err != nil {
		return nil, fmt.Errorf("failed to generate id: %w", err)
	}

	m := &model.Message{
		ID:        id,
		ChannelID: channelID,
		Body:      body,
		Creator:   who.Ref(),
		CreatedAt: time.Now().UTC(),
	}
	if err := model.ValidateMessage(m); err != nil {
		return nil, inputError("invalid message: " + err.Error())
	}

	if err := s.messages.CreateMessage(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	s.publish(ctx, events.TopicMessageNew, events.MessageEvent{
		Type:         events.TypeMessageNew,
		Message:      m,
		RecipientIDs: recipients(ch),
	})

	return m, nil
}

// EditMessage replaces a message's body. Only the message creator may edit.
// A message whose channel no longer exists is a hard inconsistency and is
// reported as not found, never silently repaired.
func (s *Server) EditMessage(ctx context.Context, who model.Identity, messageID, newBody string) (*model.Message, error) {
	m, ch, err := s.resolveMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if !access.IsCreator(m.Creator, who) {
		return nil, forbiddenError("only the creator may edit message " + messageID)
	}

	now := time.Now().UTC()
	m.Body = newBody
	m.EditedAt = &now

	if err := model.ValidateMessage(m); err != nil {
		return nil, inputError("invalid message: " + err.Error())
	}

	if err := s.messages.UpdateMessage(ctx, m); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFoundError("message not found: " + messageID)
		}
		return nil, fmt.Errorf("failed to update message: %w", err)
	}

	s.publish(ctx, events.TopicMessageUpdate, events.MessageEvent{
		Type:         events.TypeMessageUpdate,
		Message:      m,
		RecipientIDs: recipients(ch),
	})

	return m, nil
}

// DeleteMessage removes a message. Guards match EditMessage.
func (s *Server) DeleteMessage(ctx context.Context, who model.Identity, messageID string) error {
	m, ch, err := s.resolveMessage(ctx, messageID)
	if err != nil {
		return err
	}
	if !access.IsCreator(m.Creator, who) {
		return forbiddenError("only the creator may delete message " + messageID)
	}

	deleted, err := s.messages.DeleteMessage(ctx, messageID)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	if !deleted {
		return notFoundError("message not found: " + messageID)
	}

	s.publish(ctx, events.TopicMessageDelete, events.MessageEvent{
		Type:         events.TypeMessageDelete,
		MessageID:    messageID,
		RecipientIDs: recipients(ch),
	})

	return nil
}

// resolveMessage fetches a message and its containing channel. An absent
// message or an orphaned one (channel gone) both report notFoundError.
func (s *Server) resolveMessage(ctx context.Context, id string) (*model.Message, *model.Channel, error) {
	m, err := s.messages.GetMessage(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get message: %w", err)
	}
	if m == nil {
		return nil, nil, notFoundError("message not found: " + id)
	}

	ch, err := s.channels.GetChannel(ctx, m.ChannelID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get channel: %w", err)
	}
	if ch == nil {
		return nil, nil, notFoundError("channel not found for message: " + id)
	}
	return m, ch, nil
}
