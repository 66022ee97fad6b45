package mongo

import (
	"context"
	"errors"

	b "go.mongodb.org/mongo-driver/bson"
	mdb "go.mongodb.org/mongo-driver/mongo"
	mdbopts "go.mongodb.org/mongo-driver/mongo/options"

	"github.com/alfredjeanlab/relay/internal/model"
	"github.com/alfredjeanlab/relay/internal/store"
)

func (s *Store) CreateChannel(ctx context.Context, ch *model.Channel) error {
	doc, err := newChannelDoc(ch)
	if err != nil {
		return err
	}
	if _, err := s.channels.InsertOne(ctx, doc); err != nil {
		if mdb.IsDuplicateKeyError(err) {
			return store.ErrDuplicateName
		}
		return err
	}
	return nil
}

func (s *Store) GetChannel(ctx context.Context, id string) (*model.Channel, error) {
	return s.findChannel(ctx, b.M{"_id": id})
}

func (s *Store) GetChannelByName(ctx context.Context, name string) (*model.Channel, error) {
	return s.findChannel(ctx, b.M{"name": name})
}

func (s *Store) findChannel(ctx context.Context, filter b.M) (*model.Channel, error) {
	var doc channelDoc
	err := s.channels.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mdb.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.channel()
}

func (s *Store) ListChannels(ctx context.Context) ([]*model.Channel, error) {
	opts := mdbopts.Find().SetSort(b.D{{Key: "createdat", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.channels.Find(ctx, b.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var channels []*model.Channel
	for cur.Next(ctx) {
		var doc channelDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		ch, err := doc.channel()
		if err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}
	return channels, cur.Err()
}

func (s *Store) UpdateChannel(ctx context.Context, ch *model.Channel) error {
	update := b.M{"$set": b.M{
		"name":        ch.Name,
		"description": ch.Description,
		"editedat":    ch.EditedAt,
	}}
	res, err := s.channels.UpdateOne(ctx, b.M{"_id": ch.ID}, update)
	if err != nil {
		if mdb.IsDuplicateKeyError(err) {
			return store.ErrDuplicateName
		}
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteChannel(ctx context.Context, id string) (bool, error) {
	res, err := s.channels.DeleteOne(ctx, b.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// AddMember relies on $addToSet for atomic set semantics under concurrent
// membership changes.
func (s *Store) AddMember(ctx context.Context, channelID, memberID string) error {
	_, err := s.channels.UpdateOne(ctx, b.M{"_id": channelID},
		b.M{"$addToSet": b.M{"members": memberID}})
	return err
}

// RemoveMember drops memberID from the set. Removing an absent member is a no-op.
func (s *Store) RemoveMember(ctx context.Context, channelID, memberID string) error {
	_, err := s.channels.UpdateOne(ctx, b.M{"_id": channelID},
		b.M{"$pull": b.M{"members": memberID}})
	return err
}
