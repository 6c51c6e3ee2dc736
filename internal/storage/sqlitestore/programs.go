package sqlitestore

import (
	"context"
	"fmt"

	"github.com/claude/gymbuddy/internal/workout"
)

// InsertProgram inserts p and sets its ID.
func (q *Queries) InsertProgram(ctx context.Context, p *workout.Program) error {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO programs (owner_id, name, description, created_at) VALUES (?, ?, ?, ?)`,
		p.OwnerID, p.Name, p.Description, toMicros(p.CreatedAt))
	if err != nil {
		return mapError(err, "inserting program")
	}
	p.ID, err = res.LastInsertId()
	return err
}

// Program returns a program owned by owner.
func (q *Queries) Program(ctx context.Context, owner, id int64) (*workout.Program, error) {
	var (
		p       workout.Program
		created int64
	)
	err := q.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, description, created_at
		 FROM programs WHERE id = ? AND owner_id = ?`, id, owner,
	).Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &created)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("program %d", id))
	}
	p.CreatedAt = fromMicros(created)
	return &p, nil
}

// ListPrograms returns the owner's programs, newest first.
func (q *Queries) ListPrograms(ctx context.Context, owner int64) ([]workout.Program, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, owner_id, name, description, created_at
		 FROM programs WHERE owner_id = ?
		 ORDER BY created_at DESC, id DESC`, owner)
	if err != nil {
		return nil, fmt.Errorf("querying programs: %w", err)
	}
	defer rows.Close()

	var result []workout.Program
	for rows.Next() {
		var (
			p       workout.Program
			created int64
		)
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &created); err != nil {
			return nil, fmt.Errorf("scanning program: %w", err)
		}
		p.CreatedAt = fromMicros(created)
		result = append(result, p)
	}
	return result, rows.Err()
}

// DeleteProgram deletes a program owned by owner.
func (q *Queries) DeleteProgram(ctx context.Context, owner, id int64) error {
	what := fmt.Sprintf("program %d", id)
	res, err := q.db.ExecContext(ctx, `DELETE FROM programs WHERE id = ? AND owner_id = ?`, id, owner)
	if err != nil {
		return mapError(err, what)
	}
	return affected(res, what)
}
