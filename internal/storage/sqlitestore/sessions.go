package sqlitestore

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/gymbuddy/internal/workout"
)

const sessionColumns = `id, owner_id, program_id, created_at, name, notes`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*workout.Session, error) {
	var (
		s       workout.Session
		created int64
	)
	if err := row.Scan(&s.ID, &s.OwnerID, &s.ProgramID, &created, &s.Name, &s.Notes); err != nil {
		return nil, err
	}
	s.CreatedAt = fromMicros(created)
	return &s, nil
}

// InsertSession inserts s and sets its ID.
func (q *Queries) InsertSession(ctx context.Context, s *workout.Session) error {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO sessions (owner_id, program_id, created_at, name, notes) VALUES (?, ?, ?, ?, ?)`,
		s.OwnerID, s.ProgramID, toMicros(s.CreatedAt), s.Name, s.Notes)
	if err != nil {
		return mapError(err, "inserting session")
	}
	s.ID, err = res.LastInsertId()
	return err
}

// Session returns a session owned by owner.
func (q *Queries) Session(ctx context.Context, owner, id int64) (*workout.Session, error) {
	s, err := scanSession(q.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = ? AND owner_id = ?`, id, owner))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("session %d", id))
	}
	return s, nil
}

// UpdateSession writes the name and notes of s.
func (q *Queries) UpdateSession(ctx context.Context, s *workout.Session) error {
	what := fmt.Sprintf("session %d", s.ID)
	res, err := q.db.ExecContext(ctx,
		`UPDATE sessions SET name = ?, notes = ? WHERE id = ? AND owner_id = ?`,
		s.Name, s.Notes, s.ID, s.OwnerID)
	if err != nil {
		return mapError(err, what)
	}
	return affected(res, what)
}

// ListSessions returns the owner's sessions, newest first.
func (q *Queries) ListSessions(ctx context.Context, owner int64) ([]workout.Session, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE owner_id = ?
		 ORDER BY created_at DESC, id DESC`, owner)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var result []workout.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}

// LatestSession returns the owner's newest session.
func (q *Queries) LatestSession(ctx context.Context, owner int64) (*workout.Session, error) {
	s, err := scanSession(q.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE owner_id = ?
		 ORDER BY created_at DESC, id DESC LIMIT 1`, owner))
	if err != nil {
		return nil, mapError(err, "latest session")
	}
	return s, nil
}

// SessionBefore returns the newest session ordered strictly before
// (createdAt, id).
func (q *Queries) SessionBefore(ctx context.Context, owner int64, createdAt time.Time, id int64) (*workout.Session, error) {
	ts := toMicros(createdAt)
	s, err := scanSession(q.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE owner_id = ? AND (created_at < ? OR (created_at = ? AND id < ?))
		 ORDER BY created_at DESC, id DESC LIMIT 1`, owner, ts, ts, id))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("session before %d", id))
	}
	return s, nil
}

// DeleteSession deletes a session; exercises and sets cascade.
func (q *Queries) DeleteSession(ctx context.Context, owner, id int64) error {
	what := fmt.Sprintf("session %d", id)
	res, err := q.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ? AND owner_id = ?`, id, owner)
	if err != nil {
		return mapError(err, what)
	}
	return affected(res, what)
}
