package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/claude/gymbuddy/internal/workout"
	"github.com/mark3labs/mcp-go/mcp"
)

// defaultTimeRange returns start/end defaulting to the last 30 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -30)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// sessionsBetween keeps the sessions created in [start, end]. The input is
// newest first and so is the output.
func sessionsBetween(sessions []workout.Session, start, end time.Time) []workout.Session {
	out := []workout.Session{}
	for _, s := range sessions {
		if s.CreatedAt.Before(start) || s.CreatedAt.After(end) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// --- Tool definitions ---

var toolListWorkouts = mcp.NewTool("list_workouts",
	mcp.WithDescription("List the user's workout sessions, newest first. Returns id, name, notes, program and creation time; use get_workout for the exercises."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
	mcp.WithNumber("limit", mcp.Description("Maximum number of sessions to return. Defaults to 20.")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("Get one workout session with its exercises in order, each with its sets (reps, weight in the user's unit, notes) and the user's note for next time."),
	mcp.WithNumber("workout_id", mcp.Required(), mcp.Description("Workout session id from list_workouts")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var toolGetTemplate = mcp.NewTool("get_template",
	mcp.WithDescription("Get the exercises and sets of the user's most recent workout, the usual starting point for the next one. Empty if the user has no workouts."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var toolGetPreviousExercises = mcp.NewTool("get_previous_exercises",
	mcp.WithDescription("Get the exercises and sets of the workout that came right before the given one. Empty if it is the user's first workout."),
	mcp.WithNumber("workout_id", mcp.Required(), mcp.Description("Workout session id")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var toolListUserExercises = mcp.NewTool("list_user_exercises",
	mcp.WithDescription("List the exercise types the user has performed at least once, by name."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var toolGetLastExercisePerformance = mcp.NewTool("get_last_exercise_performance",
	mcp.WithDescription("Get the sets of the user's most recent performance of one exercise type."),
	mcp.WithNumber("exercise_id", mcp.Required(), mcp.Description("Exercise type id from list_user_exercises")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var toolGetExerciseNote = mcp.NewTool("get_exercise_note",
	mcp.WithDescription("Get the note the user left for the next time they do an exercise type."),
	mcp.WithNumber("exercise_id", mcp.Required(), mcp.Description("Exercise type id")),
	mcp.WithReadOnlyHintAnnotation(true),
)

// --- Tool handlers ---

func (h *handlers) listWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}
	limit := req.GetInt("limit", 20)
	if limit <= 0 {
		return mcp.NewToolResultError("limit must be positive"), nil
	}

	sessions, err := h.ds.ListSessions(ctx, UserIDFromContext(ctx))
	if err != nil {
		return h.toolError("list_workouts", err), nil
	}
	sessions = sessionsBetween(sessions, start, end)
	if len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return jsonResult(sessions), nil
}

func (h *handlers) getWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("workout_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detail, err := h.ds.GetSession(ctx, UserIDFromContext(ctx), int64(id))
	if err != nil {
		return h.toolError("get_workout", err), nil
	}
	return jsonResult(detail), nil
}

func (h *handlers) getTemplate(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	view, err := h.ds.Template(ctx, UserIDFromContext(ctx))
	if err != nil {
		return h.toolError("get_template", err), nil
	}
	return jsonResult(view), nil
}

func (h *handlers) getPreviousExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("workout_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	view, err := h.ds.PreviousExercises(ctx, UserIDFromContext(ctx), int64(id))
	if err != nil {
		return h.toolError("get_previous_exercises", err), nil
	}
	return jsonResult(view), nil
}

func (h *handlers) listUserExercises(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	types, err := h.ds.UserExercises(ctx, UserIDFromContext(ctx))
	if err != nil {
		return h.toolError("list_user_exercises", err), nil
	}
	return jsonResult(types), nil
}

func (h *handlers) getLastExercisePerformance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("exercise_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	perf, err := h.ds.LastExercisePerformance(ctx, UserIDFromContext(ctx), int64(id))
	if err != nil {
		return h.toolError("get_last_exercise_performance", err), nil
	}
	return jsonResult(perf), nil
}

func (h *handlers) getExerciseNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("exercise_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, ok, err := h.ds.Note(ctx, UserIDFromContext(ctx), int64(id))
	if err != nil {
		return h.toolError("get_exercise_note", err), nil
	}
	if !ok {
		return mcp.NewToolResultText("No note saved for this exercise."), nil
	}
	return jsonResult(map[string]any{"exercise_id": id, "note": text}), nil
}

// toolError turns a service error into a tool result. Domain errors are
// reported to the model as is; anything else is logged.
func (h *handlers) toolError(tool string, err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, workout.ErrNotFound),
		errors.Is(err, workout.ErrInvalidInput),
		errors.Is(err, workout.ErrUnauthenticated):
		return mcp.NewToolResultError(err.Error())
	default:
		h.log.Error("mcp "+tool, "error", err)
		return mcp.NewToolResultError("query failed")
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed")
	}
	return result
}
