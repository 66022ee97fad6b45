// Package events defines the change events published after every accepted
// mutation, and the transports that carry them. Exactly one event is
// published per successful mutation; none on failure. Delivery is
// at-least-once and never rolls back the mutation it describes.
package events

import (
	"context"

	"github.com/alfredjeanlab/relay/internal/model"
)

// Event type names carried in the payload "type" field. Downstream
// subscribers dispatch on these.
const (
	TypeChannelNew    = "channel-new"
	TypeChannelUpdate = "channel-update"
	TypeChannelDelete = "channel-delete"
	TypeMessageNew    = "message-new"
	TypeMessageUpdate = "message-update"
	TypeMessageDelete = "message-delete"
)

// NATS subjects, one per event type.
const (
	TopicChannelNew    = "relay.channel.new"
	TopicChannelUpdate = "relay.channel.update"
	TopicChannelDelete = "relay.channel.delete"
	TopicMessageNew    = "relay.message.new"
	TopicMessageUpdate = "relay.message.update"
	TopicMessageDelete = "relay.message.delete"
)

// ChannelEvent describes a mutation to a channel. For deletes only
// ChannelID is set; otherwise the full channel rides along.
//
// RecipientIDs is the set of identities to notify. An empty list means the
// event concerns a public channel and needs no targeted filtering.
type ChannelEvent struct {
	Type         string         `json:"type"`
	Channel      *model.Channel `json:"channel,omitempty"`
	ChannelID    string         `json:"channelID,omitempty"`
	RecipientIDs []string       `json:"recipientIDs"`
}

// MessageEvent describes a mutation to a message. For deletes only
// MessageID is set.
type MessageEvent struct {
	Type         string         `json:"type"`
	Message      *model.Message `json:"message,omitempty"`
	MessageID    string         `json:"messageID,omitempty"`
	RecipientIDs []string       `json:"recipientIDs"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
