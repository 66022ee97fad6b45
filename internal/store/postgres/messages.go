package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/alfredjeanlab/relay/internal/model"
	"github.com/alfredjeanlab/relay/internal/store"
)

// messageColumns is the column list used for SELECT statements on the messages table.
const messageColumns = `id, channel_id, body, creator, created_at, edited_at`

func (s *Store) CreateMessage(ctx context.Context, m *model.Message) error {
	creator, err := json.Marshal(m.Creator)
	if err != nil {
		return fmt.Errorf("marshal creator: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO messages (id, channel_id, body, creator, created_at, edited_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.ChannelID, m.Body, creator, m.CreatedAt, nullTimePtr(m.EditedAt),
	)
	return err
}

func (s *Store) GetMessage(ctx context.Context, id string) (*model.Message, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = $1`, id)
	return scanMessageRow(row)
}

func (s *Store) ListMessages(ctx context.Context, q store.MessageQuery) ([]*model.Message, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = store.DefaultPageSize
	}

	var (
		rows *sql.Rows
		err  error
	)
	if q.BeforeID != "" {
		rows, err = s.db.QueryContext(ctx, `
			SELECT `+messageColumns+` FROM messages
			WHERE channel_id = $1 AND id < $2
			ORDER BY created_at DESC, id DESC
			LIMIT $3`,
			q.ChannelID, q.BeforeID, limit,
		)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT `+messageColumns+` FROM messages
			WHERE channel_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2`,
			q.ChannelID, limit,
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []*model.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (s *Store) UpdateMessage(ctx context.Context, m *model.Message) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE messages SET body = $2, edited_at = $3 WHERE id = $1`,
		m.ID, m.Body, nullTimePtr(m.EditedAt),
	)
	if err != nil {
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

func (s *Store) DeleteMessage(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) DeleteChannelMessages(ctx context.Context, channelID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE channel_id = $1`, channelID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
