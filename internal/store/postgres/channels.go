package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/alfredjeanlab/relay/internal/model"
	"github.com/alfredjeanlab/relay/internal/store"
)

// channelColumns is the column list used for SELECT statements on the channels table.
const channelColumns = `id, name, description, visibility, members, creator, created_at, edited_at`

// uniqueViolation is the PostgreSQL error code for unique-constraint violations.
const uniqueViolation = "23505"

func (s *Store) CreateChannel(ctx context.Context, ch *model.Channel) error {
	creator, err := json.Marshal(ch.Creator)
	if err != nil {
		return fmt.Errorf("marshal creator: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO channels (id, name, description, visibility, members, creator, created_at, edited_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		ch.ID,
		ch.Name,
		ch.Description,
		string(ch.Visibility),
		pq.Array(ch.Members),
		creator,
		ch.CreatedAt,
		nullTimePtr(ch.EditedAt),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return store.ErrDuplicateName
		}
		return err
	}
	return nil
}

func (s *Store) GetChannel(ctx context.Context, id string) (*model.Channel, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+channelColumns+` FROM channels WHERE id = $1`, id)
	return scanChannelRow(row)
}

func (s *Store) GetChannelByName(ctx context.Context, name string) (*model.Channel, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+channelColumns+` FROM channels WHERE name = $1`, name)
	return scanChannelRow(row)
}

func (s *Store) ListChannels(ctx context.Context) ([]*model.Channel, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+channelColumns+` FROM channels ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var channels []*model.Channel
	for rows.Next() {
		ch, err := scanChannel(rows)
		if err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}
	return channels, rows.Err()
}

func (s *Store) UpdateChannel(ctx context.Context, ch *model.Channel) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE channels SET name = $2, description = $3, edited_at = $4 WHERE id = $1`,
		ch.ID, ch.Name, ch.Description, nullTimePtr(ch.EditedAt),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return store.ErrDuplicateName
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteChannel(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM channels WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// AddMember appends memberID unless it is already present. The guarded
// single-statement update keeps the set semantics atomic under concurrent
// membership changes.
func (s *Store) AddMember(ctx context.Context, channelID, memberID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE channels SET members = array_append(members, $2)
		WHERE id = $1 AND NOT (members @> ARRAY[$2])`,
		channelID, memberID,
	)
	return err
}

// RemoveMember drops memberID from the set. Removing an absent member is a no-op.
func (s *Store) RemoveMember(ctx context.Context, channelID, memberID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE channels SET members = array_remove(members, $2) WHERE id = $1`,
		channelID, memberID,
	)
	return err
}
