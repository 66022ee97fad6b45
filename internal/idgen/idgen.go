// Package idgen generates entity identifiers.
//
// Channel IDs are short random nanoids. Message IDs come from a snowflake
// sequence rendered as fixed-width hex, so lexicographic order on the id
// string equals creation order. Cursor pagination relies on that property.
package idgen

import (
	"fmt"
	"sync"

	nanoid "github.com/matoous/go-nanoid/v2"
	sf "github.com/tinode/snowflake"
)

// ChannelPrefix is prepended to every generated channel ID.
var ChannelPrefix = "ch-"

// MessagePrefix is prepended to every generated message ID.
var MessagePrefix = "msg-"

// Alphabet defines the character set used for the random portion of a channel ID.
var Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the number of random characters in a channel ID (excluding the prefix).
var Length = 10

var (
	seqMu sync.Mutex
	seq   *sf.SnowFlake
)

// Init sets up the snowflake sequence for message IDs. workerID must be
// unique per process instance sharing a store (0-1023).
func Init(workerID uint32) error {
	seqMu.Lock()
	defer seqMu.Unlock()
	s, err := sf.NewSnowFlake(workerID)
	if err != nil {
		return fmt.Errorf("idgen: %w", err)
	}
	seq = s
	return nil
}

// Channel returns a new unique channel ID.
func Channel() (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return ChannelPrefix + id, nil
}

// Message returns a new message ID, strictly increasing with creation time.
// Init must have been called first.
func Message() (string, error) {
	seqMu.Lock()
	s := seq
	seqMu.Unlock()
	if s == nil {
		return "", fmt.Errorf("idgen: Init not called")
	}
	n, err := s.Next()
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return fmt.Sprintf("%s%016x", MessagePrefix, n), nil
}
