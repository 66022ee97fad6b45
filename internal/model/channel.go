package model

import (
	"time"
)

// Visibility controls who may read and write a channel.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// String returns the string representation of the visibility.
func (v Visibility) String() string {
	return string(v)
}

// IsValid checks whether the visibility is a known value.
func (v Visibility) IsValid() bool {
	switch v {
	case VisibilityPublic, VisibilityPrivate:
		return true
	}
	return false
}

// GeneralChannelName is the distinguished public channel that must exist
// before the service accepts any operation.
const GeneralChannelName = "general"

// Channel is a named container for messages.
//
// Members holds id-only references and is meaningful only when the channel
// is private; a public channel's member set is stored empty and ignored for
// access decisions. Name is unique across all channels.
type Channel struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Visibility  Visibility `json:"visibility"`
	Members     []string   `json:"members"`
	Creator     Identity   `json:"creator"`
	CreatedAt   time.Time  `json:"createdAt"`
	EditedAt    *time.Time `json:"editedAt,omitempty"`
}

// IsPrivate reports whether access to the channel is restricted to its
// member set plus its creator.
func (c *Channel) IsPrivate() bool {
	return c.Visibility == VisibilityPrivate
}

// HasMember reports whether id is in the channel's member set.
func (c *Channel) HasMember(id string) bool {
	for _, m := range c.Members {
		if m == id {
			return true
		}
	}
	return false
}
