// Package store defines the persistence contracts for channels and
// messages. Adapters are the sole arbiter of per-entity consistency:
// name uniqueness is a storage-level constraint, and membership mutation
// is an atomic set update, never a read-modify-write in the service layer.
package store

import (
	"context"
	"errors"

	"github.com/alfredjeanlab/relay/internal/model"
)

// ErrDuplicateName is returned by CreateChannel when another channel
// already holds the requested name.
var ErrDuplicateName = errors.New("store: duplicate channel name")

// ErrNotFound is returned by update operations when the target row or
// document no longer exists. Lookups signal absence with (nil, nil)
// instead.
var ErrNotFound = errors.New("store: not found")

// DefaultPageSize is the maximum number of messages returned per page.
const DefaultPageSize = 100

// Channels is the persistence interface for channel documents.
// Lookups return (nil, nil) when the channel does not exist.
type Channels interface {
	// CreateChannel persists a new channel, enforcing name uniqueness atomically.
	CreateChannel(ctx context.Context, ch *model.Channel) error
	GetChannel(ctx context.Context, id string) (*model.Channel, error)
	GetChannelByName(ctx context.Context, name string) (*model.Channel, error)
	// ListChannels returns all channels in stable insertion order.
	ListChannels(ctx context.Context) ([]*model.Channel, error)
	// UpdateChannel rewrites name, description, and editedAt.
	UpdateChannel(ctx context.Context, ch *model.Channel) error
	// DeleteChannel removes the channel, reporting whether it existed.
	DeleteChannel(ctx context.Context, id string) (bool, error)

	// AddMember and RemoveMember mutate the member set atomically and
	// idempotently: adding a present member or removing an absent one
	// succeeds without effect.
	AddMember(ctx context.Context, channelID, memberID string) error
	RemoveMember(ctx context.Context, channelID, memberID string) error

	Close() error
}

// MessageQuery selects a page of a channel's history.
type MessageQuery struct {
	ChannelID string
	// BeforeID, when set, restricts results to messages with id strictly
	// less than it. Message ids order lexicographically by creation time.
	BeforeID string
	// Limit caps the page size; adapters fall back to DefaultPageSize
	// when it is zero.
	Limit int
}

// Messages is the persistence interface for message documents.
// Lookups return (nil, nil) when the message does not exist.
type Messages interface {
	CreateMessage(ctx context.Context, m *model.Message) error
	GetMessage(ctx context.Context, id string) (*model.Message, error)
	// ListMessages returns a page of messages ordered newest-first by
	// creation time.
	ListMessages(ctx context.Context, q MessageQuery) ([]*model.Message, error)
	// UpdateMessage rewrites body and editedAt.
	UpdateMessage(ctx context.Context, m *model.Message) error
	// DeleteMessage removes the message, reporting whether it existed.
	DeleteMessage(ctx context.Context, id string) (bool, error)
	// DeleteChannelMessages removes every message in the channel,
	// returning the number deleted. Used by the cascade step of channel
	// deletion.
	DeleteChannelMessages(ctx context.Context, channelID string) (int64, error)

	Close() error
}
