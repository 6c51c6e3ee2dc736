package storage

import (
	"context"
	"fmt"

	"github.com/claude/gymbuddy/internal/workout"
	"github.com/jackc/pgx/v5"
)

const performedExerciseSelect = `
	SELECT pe.id, pe.session_id, et.id, et.name, et.description, pe.preferred_name, pe.position
	FROM performed_exercises pe
	JOIN exercise_types et ON et.id = pe.exercise_type_id`

func scanPerformedExercise(row pgx.Row) (*workout.PerformedExercise, error) {
	var pe workout.PerformedExercise
	err := row.Scan(&pe.ID, &pe.SessionID,
		&pe.ExerciseType.ID, &pe.ExerciseType.Name, &pe.ExerciseType.Description,
		&pe.PreferredName, &pe.Position)
	if err != nil {
		return nil, err
	}
	return &pe, nil
}

// InsertPerformedExercise inserts pe and sets its ID.
func (q *Queries) InsertPerformedExercise(ctx context.Context, pe *workout.PerformedExercise) error {
	err := q.db.QueryRow(ctx,
		`INSERT INTO performed_exercises (session_id, exercise_type_id, preferred_name, position)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		pe.SessionID, pe.ExerciseType.ID, pe.PreferredName, pe.Position,
	).Scan(&pe.ID)
	return mapError(err, fmt.Sprintf("performed exercise at position %d", pe.Position))
}

// PerformedExercise returns a performed exercise whose session belongs to owner.
func (q *Queries) PerformedExercise(ctx context.Context, owner, id int64) (*workout.PerformedExercise, error) {
	pe, err := scanPerformedExercise(q.db.QueryRow(ctx, performedExerciseSelect+`
		JOIN sessions s ON s.id = pe.session_id
		WHERE pe.id = $1 AND s.owner_id = $2`, id, owner))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("performed exercise %d", id))
	}
	return pe, nil
}

// UpdatePerformedExercise writes the preferred name and position of pe.
func (q *Queries) UpdatePerformedExercise(ctx context.Context, owner int64, pe *workout.PerformedExercise) error {
	what := fmt.Sprintf("performed exercise %d", pe.ID)
	tag, err := q.db.Exec(ctx,
		`UPDATE performed_exercises SET preferred_name = $3, position = $4
		 WHERE id = $1
		   AND session_id IN (SELECT id FROM sessions WHERE owner_id = $2)`,
		pe.ID, owner, pe.PreferredName, pe.Position)
	if err != nil {
		return mapError(err, what)
	}
	return affected(tag, what)
}

// ListPerformedExercises returns a session's exercises ordered by position.
func (q *Queries) ListPerformedExercises(ctx context.Context, sessionID int64) ([]workout.PerformedExercise, error) {
	rows, err := q.db.Query(ctx, performedExerciseSelect+`
		WHERE pe.session_id = $1
		ORDER BY pe.position, pe.id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying performed exercises: %w", err)
	}
	defer rows.Close()

	var result []workout.PerformedExercise
	for rows.Next() {
		pe, err := scanPerformedExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning performed exercise: %w", err)
		}
		result = append(result, *pe)
	}
	return result, rows.Err()
}

// LatestPerformance returns the owner's most recent performance of an
// exercise type. Within one session the lowest position wins.
func (q *Queries) LatestPerformance(ctx context.Context, owner, exerciseTypeID int64) (*workout.PerformedExercise, error) {
	pe, err := scanPerformedExercise(q.db.QueryRow(ctx, performedExerciseSelect+`
		JOIN sessions s ON s.id = pe.session_id
		WHERE s.owner_id = $1 AND pe.exercise_type_id = $2
		ORDER BY s.created_at DESC, s.id DESC, pe.position, pe.id
		LIMIT 1`, owner, exerciseTypeID))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("performance of exercise type %d", exerciseTypeID))
	}
	return pe, nil
}

// DeletePerformedExercise deletes a performed exercise; its sets cascade.
func (q *Queries) DeletePerformedExercise(ctx context.Context, owner, id int64) error {
	what := fmt.Sprintf("performed exercise %d", id)
	tag, err := q.db.Exec(ctx,
		`DELETE FROM performed_exercises
		 WHERE id = $1
		   AND session_id IN (SELECT id FROM sessions WHERE owner_id = $2)`, id, owner)
	if err != nil {
		return mapError(err, what)
	}
	return affected(tag, what)
}
