package storage

import (
	"context"
	"fmt"

	"github.com/claude/gymbuddy/internal/workout"
)

// UpsertNote inserts or replaces the owner's note for an exercise type.
func (q *Queries) UpsertNote(ctx context.Context, n *workout.ExerciseNote) error {
	_, err := q.db.Exec(ctx,
		`INSERT INTO exercise_notes (owner_id, exercise_type_id, note, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (owner_id, exercise_type_id) DO UPDATE
		   SET note = EXCLUDED.note, updated_at = EXCLUDED.updated_at`,
		n.OwnerID, n.ExerciseTypeID, n.Note, n.UpdatedAt)
	return mapError(err, fmt.Sprintf("note for exercise type %d", n.ExerciseTypeID))
}

// Note returns the owner's note for an exercise type.
func (q *Queries) Note(ctx context.Context, owner, exerciseTypeID int64) (*workout.ExerciseNote, error) {
	var n workout.ExerciseNote
	err := q.db.QueryRow(ctx,
		`SELECT owner_id, exercise_type_id, note, updated_at
		 FROM exercise_notes WHERE owner_id = $1 AND exercise_type_id = $2`,
		owner, exerciseTypeID,
	).Scan(&n.OwnerID, &n.ExerciseTypeID, &n.Note, &n.UpdatedAt)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("note for exercise type %d", exerciseTypeID))
	}
	n.UpdatedAt = n.UpdatedAt.UTC()
	return &n, nil
}
