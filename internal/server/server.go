// Package server implements the channel and message services: it resolves
// the target entity, authorizes the caller, mutates state through the store
// adapters, and publishes exactly one change event per accepted mutation.
package server

import (
	"context"
	"log/slog"

	"github.com/alfredjeanlab/relay/internal/events"
	"github.com/alfredjeanlab/relay/internal/model"
	"github.com/alfredjeanlab/relay/internal/store"
)

// Server orchestrates channel and message lifecycle on top of the store
// adapters and the event publisher.
type Server struct {
	channels  store.Channels
	messages  store.Messages
	publisher events.Publisher
}

// New returns a Server backed by the given stores and publisher.
func New(channels store.Channels, messages store.Messages, p events.Publisher) *Server {
	return &Server{
		channels:  channels,
		messages:  messages,
		publisher: p,
	}
}

// publish sends a change event to the broker. Publication is best-effort:
// the triggering mutation is already durable and is never rolled back, so a
// failure is logged and the operation still reports success.
func (s *Server) publish(ctx context.Context, topic string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "error", err)
	}
}

// recipients computes the notification target set for an event on the
// channel: all current member ids when the channel is private, empty for
// public channels (broadcast semantics). The result is never nil.
func recipients(ch *model.Channel) []string {
	if !ch.IsPrivate() {
		return []string{}
	}
	ids := make([]string, 0, len(ch.Members))
	ids = append(ids, ch.Members...)
	return ids
}

// inputError indicates invalid user input.
// Transport layers map this to 400.
type inputError string

func (e inputError) Error() string { return string(e) }

// conflictError indicates a uniqueness violation on the channel name.
// Transport layers map this to 409.
type conflictError string

func (e conflictError) Error() string { return string(e) }

// notFoundError indicates the referenced channel or message does not exist.
// Transport layers map this to 404.
type notFoundError string

func (e notFoundError) Error() string { return string(e) }

// forbiddenError indicates the caller lacks the required membership or
// ownership relation. Transport layers map this to 403.
type forbiddenError string

func (e forbiddenError) Error() string { return string(e) }
