package sqlitestore

import (
	"context"
	"fmt"

	"github.com/claude/gymbuddy/internal/workout"
)

const setColumns = `se.id, se.performed_exercise_id, se.position, se.reps, se.weight_hundredths, se.notes`

func scanSet(row rowScanner) (*workout.SetEntry, error) {
	var (
		s      workout.SetEntry
		weight *int64
	)
	if err := row.Scan(&s.ID, &s.PerformedExerciseID, &s.Position, &s.Reps, &weight, &s.Notes); err != nil {
		return nil, err
	}
	if weight != nil {
		w := workout.Weight(*weight)
		s.Weight = &w
	}
	return &s, nil
}

func weightParam(w *workout.Weight) *int64 {
	if w == nil {
		return nil
	}
	v := int64(*w)
	return &v
}

// InsertSet inserts s and sets its ID.
func (q *Queries) InsertSet(ctx context.Context, s *workout.SetEntry) error {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO set_entries (performed_exercise_id, position, reps, weight_hundredths, notes)
		 VALUES (?, ?, ?, ?, ?)`,
		s.PerformedExerciseID, s.Position, s.Reps, weightParam(s.Weight), s.Notes)
	if err != nil {
		return mapError(err, fmt.Sprintf("set at position %d", s.Position))
	}
	s.ID, err = res.LastInsertId()
	return err
}

// Set returns a set whose session belongs to owner.
func (q *Queries) Set(ctx context.Context, owner, id int64) (*workout.SetEntry, error) {
	s, err := scanSet(q.db.QueryRowContext(ctx,
		`SELECT `+setColumns+`
		 FROM set_entries se
		 JOIN performed_exercises pe ON pe.id = se.performed_exercise_id
		 JOIN sessions s ON s.id = pe.session_id
		 WHERE se.id = ? AND s.owner_id = ?`, id, owner))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("set %d", id))
	}
	return s, nil
}

// UpdateSet writes reps, weight and notes of s.
func (q *Queries) UpdateSet(ctx context.Context, owner int64, s *workout.SetEntry) error {
	what := fmt.Sprintf("set %d", s.ID)
	res, err := q.db.ExecContext(ctx,
		`UPDATE set_entries SET reps = ?, weight_hundredths = ?, notes = ?
		 WHERE id = ?
		   AND performed_exercise_id IN (
		     SELECT pe.id FROM performed_exercises pe
		     JOIN sessions s ON s.id = pe.session_id
		     WHERE s.owner_id = ?)`,
		s.Reps, weightParam(s.Weight), s.Notes, s.ID, owner)
	if err != nil {
		return mapError(err, what)
	}
	return affected(res, what)
}

// ListSets returns the sets of a performed exercise ordered by position.
func (q *Queries) ListSets(ctx context.Context, performedExerciseID int64) ([]workout.SetEntry, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+setColumns+`
		 FROM set_entries se
		 WHERE se.performed_exercise_id = ?
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
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM set_entries
		 WHERE id = ?
		   AND performed_exercise_id IN (
		     SELECT pe.id FROM performed_exercises pe
		     JOIN sessions s ON s.id = pe.session_id
		     WHERE s.owner_id = ?)`, id, owner)
	if err != nil {
		return mapError(err, what)
	}
	return affected(res, what)
}
