package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

const (
	TypeSessionCreated   = "SessionCreated"
	TypeSessionCompleted = "SessionCompleted"
)

type Event struct {
	Offset    int64
	Type      string
	Key       string // natural key: session id
	DataJSON  string
	CreatedAt int64
}

// Repo appends diagnostic events to the append-only event_log table.
type Repo struct{ db *sql.DB }

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Append(ctx context.Context, typ, key string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO event_log (typ, key, data, created_at) VALUES ($1,$2,$3,$4)`,
		typ, key, string(payload), time.Now().Unix())
	return err
}

func (r *Repo) List(ctx context.Context, typ string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT "offset", typ, key, data, created_at FROM event_log WHERE typ=$1 ORDER BY "offset" DESC LIMIT $2`,
		typ, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Offset, &e.Type, &e.Key, &e.DataJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
