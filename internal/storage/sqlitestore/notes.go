package sqlitestore

import (
	"context"
	"fmt"

	"github.com/claude/gymbuddy/internal/workout"
)

// UpsertNote inserts or replaces the owner's note for an exercise type.
func (q *Queries) UpsertNote(ctx context.Context, n *workout.ExerciseNote) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO exercise_notes (owner_id, exercise_type_id, note, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (owner_id, exercise_type_id) DO UPDATE
		   SET note = excluded.note, updated_at = excluded.updated_at`,
		n.OwnerID, n.ExerciseTypeID, n.Note, toMicros(n.UpdatedAt))
	return mapError(err, fmt.Sprintf("note for exercise type %d", n.ExerciseTypeID))
}

// Note returns the owner's note for an exercise type.
func (q *Queries) Note(ctx context.Context, owner, exerciseTypeID int64) (*workout.ExerciseNote, error) {
	var (
		n       workout.ExerciseNote
		updated int64
	)
	err := q.db.QueryRowContext(ctx,
		`SELECT owner_id, exercise_type_id, note, updated_at
		 FROM exercise_notes WHERE owner_id = ? AND exercise_type_id = ?`,
		owner, exerciseTypeID,
	).Scan(&n.OwnerID, &n.ExerciseTypeID, &n.Note, &updated)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("note for exercise type %d", exerciseTypeID))
	}
	n.UpdatedAt = fromMicros(updated)
	return &n, nil
}
