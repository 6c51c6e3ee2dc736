package storage

import (
	"context"
	"fmt"

	"github.com/claude/gymbuddy/internal/workout"
)

// InsertProgram inserts p and sets its ID.
func (q *Queries) InsertProgram(ctx context.Context, p *workout.Program) error {
	err := q.db.QueryRow(ctx,
		`INSERT INTO programs (owner_id, name, description, created_at)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		p.OwnerID, p.Name, p.Description, p.CreatedAt,
	).Scan(&p.ID)
	return mapError(err, "inserting program")
}

// Program returns a program owned by owner.
func (q *Queries) Program(ctx context.Context, owner, id int64) (*workout.Program, error) {
	var p workout.Program
	err := q.db.QueryRow(ctx,
		`SELECT id, owner_id, name, description, created_at
		 FROM programs WHERE id = $1 AND owner_id = $2`, id, owner,
	).Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.CreatedAt)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("program %d", id))
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return &p, nil
}

// ListPrograms returns the owner's programs, newest first.
func (q *Queries) ListPrograms(ctx context.Context, owner int64) ([]workout.Program, error) {
	rows, err := q.db.Query(ctx,
		`SELECT id, owner_id, name, description, created_at
		 FROM programs WHERE owner_id = $1
		 ORDER BY created_at DESC, id DESC`, owner)
	if err != nil {
		return nil, fmt.Errorf("querying programs: %w", err)
	}
	defer rows.Close()

	var result []workout.Program
	for rows.Next() {
		var p workout.Program
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning program: %w", err)
		}
		p.CreatedAt = p.CreatedAt.UTC()
		result = append(result, p)
	}
	return result, rows.Err()
}

// DeleteProgram deletes a program owned by owner.
func (q *Queries) DeleteProgram(ctx context.Context, owner, id int64) error {
	what := fmt.Sprintf("program %d", id)
	tag, err := q.db.Exec(ctx, `DELETE FROM programs WHERE id = $1 AND owner_id = $2`, id, owner)
	if err != nil {
		return mapError(err, what)
	}
	return affected(tag, what)
}
