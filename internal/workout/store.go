package workout

import (
	"context"
	"time"
)

// Querier is the row-level persistence contract of the service.
//
// Methods taking an owner filter by the ownership chain before checking
// existence, so a row owned by someone else reports ErrNotFound exactly like
// a missing one. Methods listing children by parent id (ListPerformedExercises,
// ListSets) are unscoped: the service checks the parent first.
//
// Implementations report unique violations as ErrConflict, missing rows and
// dangling references as ErrNotFound and check violations as ErrInvalidInput.
type Querier interface {
	ExerciseTypeByID(ctx context.Context, id int64) (*ExerciseType, error)
	ExerciseTypeByName(ctx context.Context, name string) (*ExerciseType, error)
	// InsertExerciseTypeIfAbsent reports whether a new row was created.
	InsertExerciseTypeIfAbsent(ctx context.Context, name, description string) (bool, error)
	ListExerciseTypes(ctx context.Context) ([]ExerciseType, error)
	ExerciseTypesPerformedBy(ctx context.Context, owner int64) ([]ExerciseType, error)

	InsertProgram(ctx context.Context, p *Program) error
	Program(ctx context.Context, owner, id int64) (*Program, error)
	ListPrograms(ctx context.Context, owner int64) ([]Program, error)
	DeleteProgram(ctx context.Context, owner, id int64) error

	InsertSession(ctx context.Context, s *Session) error
	Session(ctx context.Context, owner, id int64) (*Session, error)
	UpdateSession(ctx context.Context, s *Session) error
	// ListSessions orders by created_at then id, newest first.
	ListSessions(ctx context.Context, owner int64) ([]Session, error)
	LatestSession(ctx context.Context, owner int64) (*Session, error)
	// SessionBefore returns the newest session whose (created_at, id) is
	// strictly lower than the given key.
	SessionBefore(ctx context.Context, owner int64, createdAt time.Time, id int64) (*Session, error)
	DeleteSession(ctx context.Context, owner, id int64) error

	InsertPerformedExercise(ctx context.Context, pe *PerformedExercise) error
	PerformedExercise(ctx context.Context, owner, id int64) (*PerformedExercise, error)
	UpdatePerformedExercise(ctx context.Context, owner int64, pe *PerformedExercise) error
	ListPerformedExercises(ctx context.Context, sessionID int64) ([]PerformedExercise, error)
	// LatestPerformance returns the owner's most recent performed exercise of
	// the given type.
	LatestPerformance(ctx context.Context, owner, exerciseTypeID int64) (*PerformedExercise, error)
	DeletePerformedExercise(ctx context.Context, owner, id int64) error

	InsertSet(ctx context.Context, s *SetEntry) error
	Set(ctx context.Context, owner, id int64) (*SetEntry, error)
	UpdateSet(ctx context.Context, owner int64, s *SetEntry) error
	ListSets(ctx context.Context, performedExerciseID int64) ([]SetEntry, error)
	DeleteSet(ctx context.Context, owner, id int64) error

	UpsertNote(ctx context.Context, n *ExerciseNote) error
	Note(ctx context.Context, owner, exerciseTypeID int64) (*ExerciseNote, error)
}

// Store is a Querier that can also run a function atomically. If fn returns
// an error nothing it wrote is kept.
type Store interface {
	Querier
	InTx(ctx context.Context, fn func(q Querier) error) error
}
