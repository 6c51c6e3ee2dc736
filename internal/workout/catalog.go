package workout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ResolveExerciseType returns the catalog entry ref points at. An unknown
// name is added to the catalog with an empty description.
func (s *Service) ResolveExerciseType(ctx context.Context, ref ExerciseRef) (*ExerciseType, error) {
	return resolveExerciseType(ctx, s.store, ref)
}

// CreateExerciseType returns the entry named name, creating it with the given
// description if it does not exist yet. The boolean reports creation.
func (s *Service) CreateExerciseType(ctx context.Context, name, description string) (*ExerciseType, bool, error) {
	name, err := normalizeExerciseName(name)
	if err != nil {
		return nil, false, err
	}
	created, err := s.store.InsertExerciseTypeIfAbsent(ctx, name, strings.TrimSpace(description))
	if err != nil {
		return nil, false, err
	}
	et, err := s.store.ExerciseTypeByName(ctx, name)
	if err != nil {
		return nil, false, err
	}
	if created {
		s.log.Info("exercise type created", "id", et.ID, "name", et.Name)
	}
	return et, created, nil
}

// GetExerciseType returns one catalog entry.
func (s *Service) GetExerciseType(ctx context.Context, id int64) (*ExerciseType, error) {
	return s.store.ExerciseTypeByID(ctx, id)
}

// ListExerciseTypes returns the whole catalog ordered by name.
func (s *Service) ListExerciseTypes(ctx context.Context) ([]ExerciseType, error) {
	return s.store.ListExerciseTypes(ctx)
}

// UserExercises returns the exercise types the owner has performed at least
// once, ordered by name.
func (s *Service) UserExercises(ctx context.Context, owner int64) ([]ExerciseType, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	return s.store.ExerciseTypesPerformedBy(ctx, owner)
}

func resolveExerciseType(ctx context.Context, q Querier, ref ExerciseRef) (*ExerciseType, error) {
	if ref.ID != nil {
		return q.ExerciseTypeByID(ctx, *ref.ID)
	}

	name, err := normalizeExerciseName(ref.Name)
	if err != nil {
		return nil, err
	}
	et, err := q.ExerciseTypeByName(ctx, name)
	if err == nil {
		return et, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	// A concurrent writer may win the insert; either way the row exists now.
	if _, err := q.InsertExerciseTypeIfAbsent(ctx, name, ""); err != nil {
		return nil, fmt.Errorf("creating exercise type %q: %w", name, err)
	}
	return q.ExerciseTypeByName(ctx, name)
}

func normalizeExerciseName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalidf("exercise name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLen {
		return "", invalidf("exercise name exceeds %d characters", MaxNameLen)
	}
	return name, nil
}
