// Package client provides a transport-agnostic interface for the relay
// service and an HTTP/JSON implementation that talks to the relay REST API.
package client

import (
	"context"

	"github.com/alfredjeanlab/relay/internal/model"
)

// RelayClient is the interface that all relay CLI commands use to communicate
// with the relay server. It is implemented by HTTPClient and can be backed by
// any transport.
type RelayClient interface {
	// Channels
	ListChannels(ctx context.Context) ([]*model.Channel, error)
	CreateChannel(ctx context.Context, req *CreateChannelRequest) (*model.Channel, error)
	GetChannel(ctx context.Context, id, before string) (*ChannelPage, error)
	UpdateChannel(ctx context.Context, id string, req *UpdateChannelRequest) (*model.Channel, error)
	DeleteChannel(ctx context.Context, id string) error

	// Membership
	AddMember(ctx context.Context, channelID string, member model.Identity) error
	RemoveMember(ctx context.Context, channelID, memberID string) error

	// Messages
	ListMessages(ctx context.Context, channelID, before string) ([]*model.Message, error)
	PostMessage(ctx context.Context, channelID, body string) (*model.Message, error)
	EditMessage(ctx context.Context, messageID, body string) (*model.Message, error)
	DeleteMessage(ctx context.Context, messageID string) error

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// CreateChannelRequest holds parameters for creating a channel.
type CreateChannelRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Visibility  string           `json:"visibility,omitempty"`
	Members     []model.Identity `json:"members,omitempty"`
}

// UpdateChannelRequest holds parameters for updating a channel. A nil
// Description means "don't change".
type UpdateChannelRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// ChannelPage is a channel together with a page of its newest messages.
type ChannelPage struct {
	Channel  *model.Channel   `json:"channel"`
	Messages []*model.Message `json:"messages"`
}
