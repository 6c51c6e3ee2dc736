package storage

import (
	"context"
	"fmt"

	"github.com/claude/gymbuddy/internal/workout"
	"github.com/jackc/pgx/v5"
)

const setColumns = `se.id, se.performed_exercise_id, se.position, se.reps, se.weight::text, se.notes`

func scanSet(row pgx.Row) (*workout.SetEntry, error) {
	var (
		s      workout.SetEntry
		weight *string
	)
	if err := row.Scan(&s.ID, &s.PerformedExerciseID, &s.Position, &s.Reps, &weight, &s.Notes); err != nil {
		return nil, err
	}
	if weight != nil {
		w, err := workout.ParseWeight(*weight)
		if err != nil {
			return nil, fmt.Errorf("set %d weight: %w", s.ID, err)
		}
		s.Weight = &w
	}
	return &s, nil
}

// weightParam renders a weight for a NUMERIC(5,2) parameter.
func weightParam(w *workout.Weight) *string {
	if w == nil {
		return nil
	}
	s := w.String()
	return &s
}

// InsertSet inserts s and sets its ID.
func (q *Queries) InsertSet(ctx context.Context, s *workout.SetEntry) error {
	err := q.db.QueryRow(ctx,
		`INSERT INTO set_entries (performed_exercise_id, position, reps, weight, notes)
		 VALUES ($1, $2, $3, $4::text::numeric, $5) RETURNING id`,
		s.PerformedExerciseID, s.Position, s.Reps, weightParam(s.Weight), s.Notes,
	).Scan(&s.ID)
	return mapError(err, fmt.Sprintf("set at position %d", s.Position))
}

// Set returns a set whose session belongs to owner.
func (q *Queries) Set(ctx context.Context, owner, id int64) (*workout.SetEntry, error) {
	s, err := scanSet(q.db.QueryRow(ctx,
		`SELECT `+setColumns+`
		 FROM set_entries se
		 JOIN performed_exercises pe ON pe.id = se.performed_exercise_id
		 JOIN sessions s ON s.id = pe.session_id
		 WHERE se.id = $1 AND s.owner_id = $2`, id, owner))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("set %d", id))
	}
	return s, nil
}

// UpdateSet writes reps, weight and notes of s.
func (q *Queries) UpdateSet(ctx context.Context, owner int64, s *workout.SetEntry) error {
	what := fmt.Sprintf("set %d", s.ID)
	tag, err := q.db.Exec(ctx,
		`UPDATE set_entries SET reps = $3, weight = $4::text::numeric, notes = $5
		 WHERE id = $1
		   AND performed_exercise_id IN (
		     SELECT pe.id FROM performed_exercises pe
		     JOIN sessions s ON s.id = pe.session_id
		     WHERE s.owner_id = $2)`,
		s.ID, owner, s.Reps, weightParam(s.Weight), s.Notes)
	if err != nil {
		return mapError(err, what)
	}
	return affected(tag, what)
}

// ListSets returns the sets of a performed exercise ordered by position.
func (q *Queries) ListSets(ctx context.Context, performedExerciseID int64) ([]workout.SetEntry, error) {
	rows, err := q.db.Query(ctx,
		`SELECT `+setColumns+`
		 FROM set_entries se
		 WHERE se.performed_exercise_id = $1
		 ORDER BY se.position, se.id`, performedExerciseID)
	if err != nil {
		return nil, fmt.Errorf("querying sets: %w", err)
	}
	defer rows.Close()

	var result []workout.SetEntry
	for rows.Next() {
		s, err := scanSet(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}

// DeleteSet deletes a set whose session belongs to owner.
func (q *Queries) DeleteSet(ctx context.Context, owner, id int64) error {
	what := fmt.Sprintf("set %d", id)
	tag, err := q.db.Exec(ctx,
		`DELETE FROM set_entries
		 WHERE id = $1
		   AND performed_exercise_id IN (
		     SELECT pe.id FROM performed_exercises pe
		     JOIN sessions s ON s.id = pe.session_id
		     WHERE s.owner_id = $2)`, id, owner)
	if err != nil {
		return mapError(err, what)
	}
	return affected(tag, what)
}
