package postgres

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/alfredjeanlab/relay/internal/model"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanChannel(r rowScanner) (*model.Channel, error) {
	var (
		ch       model.Channel
		vis      string
		members  pq.StringArray
		creator  []byte
		editedAt sql.NullTime
	)
	if err := r.Scan(&ch.ID, &ch.Name, &ch.Description, &vis, &members, &creator, &ch.CreatedAt, &editedAt); err != nil {
		return nil, err
	}
	ch.Visibility = model.Visibility(vis)
	ch.Members = []string(members)
	if ch.Members == nil {
		ch.Members = []string{}
	}
	if err := json.Unmarshal(creator, &ch.Creator); err != nil {
		return nil, fmt.Errorf("unmarshal creator: %w", err)
	}
	if editedAt.Valid {
		t := editedAt.Time
		ch.EditedAt = &t
	}
	return &ch, nil
}

// scanChannelRow wraps scanChannel for single-row lookups, translating
// sql.ErrNoRows into the (nil, nil) absence convention.
func scanChannelRow(row *sql.Row) (*model.Channel, error) {
	ch, err := scanChannel(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ch, nil
}

func scanMessage(r rowScanner) (*model.Message, error) {
	var (
		m        model.Message
		creator  []byte
		editedAt sql.NullTime
	)
	if err := r.Scan(&m.ID, &m.ChannelID, &m.Body, &creator, &m.CreatedAt, &editedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(creator, &m.Creator); err != nil {
		return nil, fmt.Errorf("unmarshal creator: %w", err)
	}
	if editedAt.Valid {
		t := editedAt.Time
		m.EditedAt = &t
	}
	return &m, nil
}

func scanMessageRow(row *sql.Row) (*model.Message, error) {
	m, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func nullTimePtr(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
