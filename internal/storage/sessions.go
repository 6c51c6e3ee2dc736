package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/gymbuddy/internal/workout"
	"github.com/jackc/pgx/v5"
)

const sessionColumns = `id, owner_id, program_id, created_at, name, notes`

func scanSession(row pgx.Row) (*workout.Session, error) {
	var s workout.Session
	if err := row.Scan(&s.ID, &s.OwnerID, &s.ProgramID, &s.CreatedAt, &s.Name, &s.Notes); err != nil {
		return nil, err
	}
	s.CreatedAt = s.CreatedAt.UTC()
	return &s, nil
}

// InsertSession inserts s and sets its ID.
func (q *Queries) InsertSession(ctx context.Context, s *workout.Session) error {
	err := q.db.QueryRow(ctx,
		`INSERT INTO sessions (owner_id, program_id, created_at, name, notes)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		s.OwnerID, s.ProgramID, s.CreatedAt, s.Name, s.Notes,
	).Scan(&s.ID)
	return mapError(err, "inserting session")
}

// Session returns a session owned by owner.
func (q *Queries) Session(ctx context.Context, owner, id int64) (*workout.Session, error) {
	s, err := scanSession(q.db.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = $1 AND owner_id = $2`, id, owner))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("session %d", id))
	}
	return s, nil
}

// UpdateSession writes the name and notes of s.
func (q *Queries) UpdateSession(ctx context.Context, s *workout.Session) error {
	what := fmt.Sprintf("session %d", s.ID)
	tag, err := q.db.Exec(ctx,
		`UPDATE sessions SET name = $3, notes = $4 WHERE id = $1 AND owner_id = $2`,
		s.ID, s.OwnerID, s.Name, s.Notes)
	if err != nil {
		return mapError(err, what)
	}
	return affected(tag, what)
}

// ListSessions returns the owner's sessions, newest first.
func (q *Queries) ListSessions(ctx context.Context, owner int64) ([]workout.Session, error) {
	rows, err := q.db.Query(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE owner_id = $1
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
	s, err := scanSession(q.db.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE owner_id = $1
		 ORDER BY created_at DESC, id DESC LIMIT 1`, owner))
	if err != nil {
		return nil, mapError(err, "latest session")
	}
	return s, nil
}

// SessionBefore returns the newest session ordered strictly before
// (createdAt, id).
func (q *Queries) SessionBefore(ctx context.Context, owner int64, createdAt time.Time, id int64) (*workout.Session, error) {
	s, err := scanSession(q.db.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE owner_id = $1 AND (created_at, id) < ($2, $3)
		 ORDER BY created_at DESC, id DESC LIMIT 1`, owner, createdAt, id))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("session before %d", id))
	}
	return s, nil
}

// DeleteSession deletes a session; exercises and sets cascade.
func (q *Queries) DeleteSession(ctx context.Context, owner, id int64) error {
	what := fmt.Sprintf("session %d", id)
	tag, err := q.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1 AND owner_id = $2`, id, owner)
	if err != nil {
		return mapError(err, what)
	}
	return affected(tag, what)
}
