package mongo

import (
	"encoding/json"
	"fmt"
	"time"

	b "go.mongodb.org/mongo-driver/bson"

	"github.com/alfredjeanlab/relay/internal/model"
)

// channelDoc is the channels collection shape. The channel id doubles as the
// document key.
type channelDoc struct {
	ID          string     `bson:"_id"`
	Name        string     `bson:"name"`
	Description string     `bson:"description"`
	Visibility  string     `bson:"visibility"`
	Members     []string   `bson:"members"`
	Creator     b.M        `bson:"creator"`
	CreatedAt   time.Time  `bson:"createdat"`
	EditedAt    *time.Time `bson:"editedat,omitempty"`
}

type messageDoc struct {
	ID        string     `bson:"_id"`
	ChannelID string     `bson:"channelid"`
	Body      string     `bson:"body"`
	Creator   b.M        `bson:"creator"`
	CreatedAt time.Time  `bson:"createdat"`
	EditedAt  *time.Time `bson:"editedat,omitempty"`
}

// identityDoc converts an identity into a subdocument, keeping any extra
// attributes the client supplied.
func identityDoc(who model.Identity) (b.M, error) {
	raw, err := json.Marshal(who)
	if err != nil {
		return nil, fmt.Errorf("marshal identity: %w", err)
	}
	var doc b.M
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("identity doc: %w", err)
	}
	return doc, nil
}

func docIdentity(doc b.M) (model.Identity, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return model.Identity{}, fmt.Errorf("identity doc: %w", err)
	}
	var who model.Identity
	if err := json.Unmarshal(raw, &who); err != nil {
		return model.Identity{}, fmt.Errorf("unmarshal identity: %w", err)
	}
	return who, nil
}

func newChannelDoc(ch *model.Channel) (*channelDoc, error) {
	creator, err := identityDoc(ch.Creator)
	if err != nil {
		return nil, err
	}
	members := ch.Members
	if members == nil {
		members = []string{}
	}
	return &channelDoc{
		ID:          ch.ID,
		Name:        ch.Name,
		Description: ch.Description,
		Visibility:  string(ch.Visibility),
		Members:     members,
		Creator:     creator,
		CreatedAt:   ch.CreatedAt,
		EditedAt:    ch.EditedAt,
	}, nil
}

func (d *channelDoc) channel() (*model.Channel, error) {
	creator, err := docIdentity(d.Creator)
	if err != nil {
		return nil, err
	}
	members := d.Members
	if members == nil {
		members = []string{}
	}
	return &model.Channel{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Visibility:  model.Visibility(d.Visibility),
		Members:     members,
		Creator:     creator,
		CreatedAt:   d.CreatedAt,
		EditedAt:    d.EditedAt,
	}, nil
}

func newMessageDoc(m *model.Message) (*messageDoc, error) {
	creator, err := identityDoc(m.Creator)
	if err != nil {
		return nil, err
	}
	return &messageDoc{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		Body:      m.Body,
		Creator:   creator,
		CreatedAt: m.CreatedAt,
		EditedAt:  m.EditedAt,
	}, nil
}

func (d *messageDoc) message() (*model.Message, error) {
	creator, err := docIdentity(d.Creator)
	if err != nil {
		return nil, err
	}
	return &model.Message{
		ID:        d.ID,
		ChannelID: d.ChannelID,
		Body:      d.Body,
		Creator:   creator,
		CreatedAt: d.CreatedAt,
		EditedAt:  d.EditedAt,
	}, nil
}
