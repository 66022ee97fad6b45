package model

import (
	"time"
)

// Message is a single post inside a channel. ChannelID and Creator are
// immutable after creation; only the creator may edit or delete it.
type Message struct {
	ID        string     `json:"id"`
	ChannelID string     `json:"channelID"`
	Body      string     `json:"body"`
	Creator   Identity   `json:"creator"`
	CreatedAt time.Time  `json:"createdAt"`
	EditedAt  *time.Time `json:"editedAt,omitempty"`
}
