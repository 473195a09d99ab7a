package repo

import (
	"context"
	"database/sql"
	"errors"

	"jobline/internal/domain"
)

var ErrNotFound = errors.New("not found")

// Repo reads the event journal.
type Repo struct {
	DB *sql.DB
}

// ListEvents returns journal rows newest-last, optionally scoped to a
// session, at most limit rows (0 means no limit).
func (r Repo) ListEvents(ctx context.Context, sessionID string, limit int) ([]domain.Event, error) {
	query := `SELECT id,ts,type,COALESCE(session_id,''),entity_kind,COALESCE(entity_id,''),actor_id,payload_json FROM events`
	var args []any
	if sessionID != "" {
		query += ` WHERE session_id=?`
		args = append(args, sessionID)
	}
	query += ` ORDER BY id ASC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.TS, &e.Type, &e.SessionID, &e.EntityKind, &e.EntityID, &e.ActorID, &e.Payload); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CountEventsByType returns journal row counts grouped by event type.
func (r Repo) CountEventsByType(ctx context.Context, sessionID string) (map[string]int, error) {
	query := `SELECT type, COUNT(*) FROM events`
	var args []any
	if sessionID != "" {
		query += ` WHERE session_id=?`
		args = append(args, sessionID)
	}
	query += ` GROUP BY type`
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, err
		}
		out[t] = n
	}
	return out, rows.Err()
}
