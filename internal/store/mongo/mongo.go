// Package mongo provides a MongoDB implementation of the store interfaces.
package mongo

import (
	"context"
	"fmt"
	"time"

	b "go.mongodb.org/mongo-driver/bson"
	mdb "go.mongodb.org/mongo-driver/mongo"
	mdbopts "go.mongodb.org/mongo-driver/mongo/options"

	"github.com/alfredjeanlab/relay/internal/store"
)

const connectTimeout = 10 * time.Second

// Store implements store.Channels and store.Messages backed by MongoDB.
type Store struct {
	conn     *mdb.Client
	channels *mdb.Collection
	messages *mdb.Collection
}

var (
	_ store.Channels = (*Store)(nil)
	_ store.Messages = (*Store)(nil)
)

// New connects to MongoDB, pings it, and ensures the indexes the adapter
// relies on: a unique index on channel names and a pagination index on
// messages.
func New(uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	conn, err := mdb.Connect(ctx, mdbopts.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := conn.Ping(ctx, nil); err != nil {
		conn.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := conn.Database(dbName)
	s := &Store{
		conn:     conn,
		channels: db.Collection("channels"),
		messages: db.Collection("messages"),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		conn.Disconnect(ctx)
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.channels.Indexes().CreateOne(ctx, mdb.IndexModel{
		Keys:    b.M{"name": 1},
		Options: mdbopts.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = s.messages.Indexes().CreateOne(ctx, mdb.IndexModel{
		Keys: b.D{{Key: "channelid", Value: 1}, {Key: "createdat", Value: -1}, {Key: "_id", Value: -1}},
	})
	return err
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return s.conn.Disconnect(ctx)
}
