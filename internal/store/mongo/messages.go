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

func (s *Store) CreateMessage(ctx context.Context, m *model.Message) error {
	doc, err := newMessageDoc(m)
	if err != nil {
		return err
	}
	_, err = s.messages.InsertOne(ctx, doc)
	return err
}

func (s *Store) GetMessage(ctx context.Context, id string) (*model.Message, error) {
	var doc messageDoc
	err := s.messages.FindOne(ctx, b.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mdb.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.message()
}

// ListMessages pages newest-first. The cursor filter compares on _id, which
// sorts the same way creation time does.
func (s *Store) ListMessages(ctx context.Context, q store.MessageQuery) ([]*model.Message, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = store.DefaultPageSize
	}

	filter := b.M{"channelid": q.ChannelID}
	if q.BeforeID != "" {
		filter["_id"] = b.M{"$lt": q.BeforeID}
	}

	opts := mdbopts.Find().
		SetSort(b.D{{Key: "createdat", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := s.messages.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var messages []*model.Message
	for cur.Next(ctx) {
		var doc messageDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		m, err := doc.message()
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, cur.Err()
}

func (s *Store) UpdateMessage(ctx context.Context, m *model.Message) error {
	update := b.M{"$set": b.M{
		"body":     m.Body,
		"editedat": m.EditedAt,
	}}
	res, err := s.messages.UpdateOne(ctx, b.M{"_id": m.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteMessage(ctx context.Context, id string) (bool, error) {
	res, err := s.messages.DeleteOne(ctx, b.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (s *Store) DeleteChannelMessages(ctx context.Context, channelID string) (int64, error) {
	res, err := s.messages.DeleteMany(ctx, b.M{"channelid": channelID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
