package storage

import (
	"context"
	"fmt"

	"github.com/claude/gymbuddy/internal/workout"
	"github.com/jackc/pgx/v5"
)

// ExerciseTypeByID returns one catalog entry.
func (q *Queries) ExerciseTypeByID(ctx context.Context, id int64) (*workout.ExerciseType, error) {
	var et workout.ExerciseType
	err := q.db.QueryRow(ctx,
		`SELECT id, name, description FROM exercise_types WHERE id = $1`, id,
	).Scan(&et.ID, &et.Name, &et.Description)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("exercise type %d", id))
	}
	return &et, nil
}

// ExerciseTypeByName returns the catalog entry with the exact name.
func (q *Queries) ExerciseTypeByName(ctx context.Context, name string) (*workout.ExerciseType, error) {
	var et workout.ExerciseType
	err := q.db.QueryRow(ctx,
		`SELECT id, name, description FROM exercise_types WHERE name = $1`, name,
	).Scan(&et.ID, &et.Name, &et.Description)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("exercise type %q", name))
	}
	return &et, nil
}

// InsertExerciseTypeIfAbsent inserts a catalog entry unless the name is taken.
func (q *Queries) InsertExerciseTypeIfAbsent(ctx context.Context, name, description string) (bool, error) {
	tag, err := q.db.Exec(ctx,
		`INSERT INTO exercise_types (name, description) VALUES ($1, $2)
		 ON CONFLICT (name) DO NOTHING`,
		name, description)
	if err != nil {
		return false, mapError(err, "inserting exercise type")
	}
	return tag.RowsAffected() > 0, nil
}

// ListExerciseTypes returns the catalog ordered by name.
func (q *Queries) ListExerciseTypes(ctx context.Context) ([]workout.ExerciseType, error) {
	rows, err := q.db.Query(ctx,
		`SELECT id, name, description FROM exercise_types ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("querying exercise types: %w", err)
	}
	return collectExerciseTypes(rows)
}

// ExerciseTypesPerformedBy returns the types the owner performed at least once.
func (q *Queries) ExerciseTypesPerformedBy(ctx context.Context, owner int64) ([]workout.ExerciseType, error) {
	rows, err := q.db.Query(ctx,
		`SELECT DISTINCT et.id, et.name, et.description
		 FROM exercise_types et
		 JOIN performed_exercises pe ON pe.exercise_type_id = et.id
		 JOIN sessions s ON s.id = pe.session_id
		 WHERE s.owner_id = $1
		 ORDER BY et.name, et.id`, owner)
	if err != nil {
		return nil, fmt.Errorf("querying performed exercise types: %w", err)
	}
	return collectExerciseTypes(rows)
}

func collectExerciseTypes(rows pgx.Rows) ([]workout.ExerciseType, error) {
	defer rows.Close()
	result := []workout.ExerciseType{}
	for rows.Next() {
		var et workout.ExerciseType
		if err := rows.Scan(&et.ID, &et.Name, &et.Description); err != nil {
			return nil, fmt.Errorf("scanning exercise type: %w", err)
		}
		result = append(result, et)
	}
	return result, rows.Err()
}
