package workout

import "time"

// Field limits mirrored by the database schema.
const (
	MaxNameLen     = 100
	MaxSetNotesLen = 200
	MaxPosition    = 32767
	MaxReps        = 32767
)

// ExerciseType is a catalog entry shared by all users.
type ExerciseType struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Program groups sessions of one user (e.g. Push/Pull/Legs).
type Program struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"-"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Session is one logged workout.
type Session struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"-"`
	ProgramID *int64    `json:"program"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `json:"name"`
	Notes     string    `json:"notes"`
}

// PerformedExercise is one exercise done within a session.
type PerformedExercise struct {
	ID            int64        `json:"id"`
	SessionID     int64        `json:"session_id"`
	ExerciseType  ExerciseType `json:"exercise"`
	PreferredName string       `json:"user_preferred_name"`
	Position      int          `json:"position"`
}

// SetEntry is one set of a performed exercise. A nil Weight means the load
// was not tracked, which is different from a zero load.
type SetEntry struct {
	ID                  int64   `json:"id"`
	PerformedExerciseID int64   `json:"performed_exercise_id"`
	Position            int     `json:"position"`
	Reps                int     `json:"reps"`
	Weight              *Weight `json:"weight"`
	Notes               string  `json:"notes"`
}

// ExerciseNote is a user's reminder for the next time they do an exercise.
type ExerciseNote struct {
	OwnerID        int64     `json:"-"`
	ExerciseTypeID int64     `json:"exercise_id"`
	Note           string    `json:"note"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PerformedExerciseView is a performed exercise with its sets and the
// owner's note for that exercise type.
type PerformedExerciseView struct {
	PerformedExercise
	Sets            []SetEntry `json:"sets"`
	NoteForNextTime string     `json:"note_for_next_time"`
}

// SessionDetail is a session with its exercise list.
type SessionDetail struct {
	Session
	Exercises []PerformedExerciseView `json:"exercises"`
}

// TemplateExercise is the read-only "what you did last time" view of a
// performed exercise.
type TemplateExercise struct {
	ExerciseType  ExerciseType `json:"exercise"`
	PreferredName string       `json:"user_preferred_name"`
	Position      int          `json:"position"`
	LastSets      []SetEntry   `json:"last_sets"`
}

// ExerciseRef names an exercise type either by id or by name. When both are
// set the id wins.
type ExerciseRef struct {
	ID   *int64
	Name string
}

// NewSession holds the inputs of CreateSession.
type NewSession struct {
	Name              string
	Notes             string
	ProgramID         *int64
	TemplateSessionID *int64
}

// SessionPatch holds a partial session update.
type SessionPatch struct {
	Name  *string
	Notes *string
}

// NewPerformedExercise holds the inputs of AddExercise.
type NewPerformedExercise struct {
	Exercise      ExerciseRef
	Position      int
	PreferredName string
}

// PerformedExercisePatch holds a partial performed exercise update.
type PerformedExercisePatch struct {
	PreferredName *string
	Position      *int
}

// NewSet holds the inputs of AddSet.
type NewSet struct {
	Position int
	Reps     int
	Weight   *Weight
	Notes    string
}

// SetPatch holds a partial set update. ClearWeight sets the weight to
// "not tracked" and takes precedence over Weight.
type SetPatch struct {
	Reps        *int
	Weight      *Weight
	ClearWeight bool
	Notes       *string
}

// SessionImport describes a complete session created in one step.
type SessionImport struct {
	Name      string
	Notes     string
	Exercises []ImportedExercise
}

// ImportedExercise is an exercise of a SessionImport, referenced by name.
type ImportedExercise struct {
	Name          string
	PreferredName string
	Position      int
	Sets          []NewSet
}
