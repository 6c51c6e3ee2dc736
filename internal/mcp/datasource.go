package mcp

import (
	"context"

	"github.com/claude/gymbuddy/internal/workout"
)

// DataSource is the read side of the workout service the MCP tools expose.
type DataSource interface {
	ListSessions(ctx context.Context, owner int64) ([]workout.Session, error)
	GetSession(ctx context.Context, owner, id int64) (*workout.SessionDetail, error)
	Template(ctx context.Context, owner int64) ([]workout.TemplateExercise, error)
	PreviousExercises(ctx context.Context, owner, sessionID int64) ([]workout.TemplateExercise, error)
	UserExercises(ctx context.Context, owner int64) ([]workout.ExerciseType, error)
	LastExercisePerformance(ctx context.Context, owner, exerciseTypeID int64) (*workout.TemplateExercise, error)
	Note(ctx context.Context, owner, exerciseTypeID int64) (string, bool, error)
}

// Compile-time check: *workout.Service satisfies DataSource.
var _ DataSource = (*workout.Service)(nil)
