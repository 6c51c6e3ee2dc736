package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/claude/gymbuddy/internal/ingest/alpha"
	"github.com/claude/gymbuddy/internal/storage/sqlitestore"
	"github.com/claude/gymbuddy/internal/workout"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userHeader = "X-Test-User"

type apiFixture struct {
	srv   *Server
	h     http.Handler
	clock *clockwork.FakeClock
}

// setupAPI builds a server over a temporary SQLite store that trusts the
// login in userHeader.
func setupAPI(t *testing.T) *apiFixture {
	t.Helper()
	store := sqlitestore.NewTestStore(t)
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	svc := workout.NewService(store, clock, discardLog)
	srv := New(svc, store, alpha.NewProvider(svc, discardLog), HeaderIdentity(userHeader, store, discardLog), discardLog)
	return &apiFixture{srv: srv, h: srv.Handler(), clock: clock}
}

// call sends a request as user and returns the recorder. body is encoded as
// JSON unless it is a string.
func (f *apiFixture) call(t *testing.T, user, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	if user != "" {
		req.Header.Set(userHeader, user)
	}
	rec := httptest.NewRecorder()
	f.h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

// TestHandleMe verifies the /api/v1/me endpoint returns the identity stored
// by the middleware.
func TestHandleMe(t *testing.T) {
	s := &Server{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	ctx := context.WithValue(req.Context(), userInfoKey, UserInfo{Login: "alice@example.com", DisplayName: "Alice"})
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	s.handleMe(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var info UserInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if info.Login != "alice@example.com" {
		t.Errorf("login = %q, want %q", info.Login, "alice@example.com")
	}
	if info.DisplayName != "Alice" {
		t.Errorf("display_name = %q, want %q", info.DisplayName, "Alice")
	}
}

func TestUnauthenticated(t *testing.T) {
	f := setupAPI(t)
	rec := f.call(t, "", http.MethodGet, "/api/v1/workouts", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.call(t, "", http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWorkoutFlow(t *testing.T) {
	f := setupAPI(t)
	const alice = "alice@example.com"

	rec := f.call(t, alice, http.MethodPost, "/api/v1/workouts", map[string]any{"name": "Push", "notes": "felt strong"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := decode[workout.SessionDetail](t, rec)
	assert.Equal(t, "Push", first.Name)
	assert.Empty(t, first.Exercises)

	rec = f.call(t, alice, http.MethodPost, fmt.Sprintf("/api/v1/workouts/%d/exercises", first.ID),
		map[string]any{"exercise_name": "  Bench Press ", "position": 1})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	pe := decode[workout.PerformedExerciseView](t, rec)
	assert.Equal(t, "Bench Press", pe.ExerciseType.Name)

	rec = f.call(t, alice, http.MethodPost, fmt.Sprintf("/api/v1/performed-exercises/%d/sets", pe.ID),
		`{"position": 1, "reps": 10, "weight": "135"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = f.call(t, alice, http.MethodPost, fmt.Sprintf("/api/v1/performed-exercises/%d/sets", pe.ID),
		`{"position": 2, "reps": 12, "weight": null, "notes": "bodyweight"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.call(t, alice, http.MethodGet, fmt.Sprintf("/api/v1/workouts/%d/exercises", first.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var raw []map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&raw))
	require.Len(t, raw, 1)
	assert.Equal(t, "", raw[0]["note_for_next_time"])
	sets := raw[0]["sets"].([]any)
	require.Len(t, sets, 2)
	assert.Equal(t, "135.00", sets[0].(map[string]any)["weight"])
	assert.Nil(t, sets[1].(map[string]any)["weight"])

	rec = f.call(t, alice, http.MethodGet, "/api/v1/workouts/template", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tmpl := decode[[]workout.TemplateExercise](t, rec)
	require.Len(t, tmpl, 1)
	assert.Len(t, tmpl[0].LastSets, 2)

	f.clock.Advance(24 * time.Hour)
	rec = f.call(t, alice, http.MethodPost, "/api/v1/workouts", map[string]any{"name": "Push again", "template_session_id": first.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	second := decode[workout.SessionDetail](t, rec)
	assert.Equal(t, "", second.Notes)
	require.Len(t, second.Exercises, 1)
	assert.NotEqual(t, pe.ID, second.Exercises[0].ID)
	require.Len(t, second.Exercises[0].Sets, 2)
	assert.Equal(t, 10, second.Exercises[0].Sets[0].Reps)

	rec = f.call(t, alice, http.MethodGet, fmt.Sprintf("/api/v1/workouts/%d/previous_exercises", second.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	prev := decode[[]workout.TemplateExercise](t, rec)
	require.Len(t, prev, 1)
	assert.Equal(t, "Bench Press", prev[0].ExerciseType.Name)

	rec = f.call(t, alice, http.MethodGet, fmt.Sprintf("/api/v1/workouts/%d/previous_exercises", first.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = f.call(t, alice, http.MethodGet, "/api/v1/workouts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]workout.Session](t, rec)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	rec = f.call(t, alice, http.MethodGet, "/api/v1/workouts/user_exercises", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]workout.ExerciseType](t, rec), 1)

	rec = f.call(t, alice, http.MethodGet, fmt.Sprintf("/api/v1/workouts/last_exercise_performance?exercise_id=%d", pe.ExerciseType.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	last := decode[workout.TemplateExercise](t, rec)
	assert.Len(t, last.LastSets, 2)

	rec = f.call(t, alice, http.MethodDelete, fmt.Sprintf("/api/v1/workouts/%d", first.ID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = f.call(t, alice, http.MethodGet, fmt.Sprintf("/api/v1/performed-exercises/%d", pe.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestErrorStatuses(t *testing.T) {
	f := setupAPI(t)
	const alice, bob = "alice@example.com", "bob@example.com"

	rec := f.call(t, alice, http.MethodPost, "/api/v1/workouts", map[string]any{})
	require.Equal(t, http.StatusCreated, rec.Code)
	s := decode[workout.SessionDetail](t, rec)
	exercisesPath := fmt.Sprintf("/api/v1/workouts/%d/exercises", s.ID)

	rec = f.call(t, alice, http.MethodPost, exercisesPath, map[string]any{"exercise_name": "Squat", "position": 1})
	require.Equal(t, http.StatusCreated, rec.Code)
	pe := decode[workout.PerformedExerciseView](t, rec)

	tests := []struct {
		name   string
		user   string
		method string
		path   string
		body   any
		status int
	}{
		{"duplicate position", alice, http.MethodPost, exercisesPath, map[string]any{"exercise_name": "Deadlift", "position": 1}, http.StatusConflict},
		{"blank exercise name", alice, http.MethodPost, exercisesPath, map[string]any{"exercise_name": "   ", "position": 2}, http.StatusBadRequest},
		{"unknown exercise id", alice, http.MethodPost, exercisesPath, map[string]any{"exercise": 999, "position": 2}, http.StatusNotFound},
		{"foreign session", bob, http.MethodGet, fmt.Sprintf("/api/v1/workouts/%d", s.ID), nil, http.StatusNotFound},
		{"foreign template", bob, http.MethodPost, "/api/v1/workouts", map[string]any{"template_session_id": s.ID}, http.StatusNotFound},
		{"bad id", alice, http.MethodGet, "/api/v1/workouts/abc", nil, http.StatusBadRequest},
		{"malformed JSON", alice, http.MethodPost, "/api/v1/workouts", "{", http.StatusBadRequest},
		{"negative reps", alice, http.MethodPost, fmt.Sprintf("/api/v1/performed-exercises/%d/sets", pe.ID), `{"position":1,"reps":-1}`, http.StatusBadRequest},
		{"missing reps", alice, http.MethodPost, fmt.Sprintf("/api/v1/performed-exercises/%d/sets", pe.ID), `{"position":1}`, http.StatusBadRequest},
		{"weight precision", alice, http.MethodPost, fmt.Sprintf("/api/v1/performed-exercises/%d/sets", pe.ID), `{"position":1,"reps":5,"weight":"10.125"}`, http.StatusBadRequest},
		{"foreign exercise sets", bob, http.MethodPost, fmt.Sprintf("/api/v1/performed-exercises/%d/sets", pe.ID), `{"position":1,"reps":5}`, http.StatusNotFound},
		{"missing exercise_id", alice, http.MethodGet, "/api/v1/workouts/last_exercise_performance", nil, http.StatusBadRequest},
		{"never performed", bob, http.MethodGet, fmt.Sprintf("/api/v1/workouts/last_exercise_performance?exercise_id=%d", pe.ExerciseType.ID), nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.call(t, tt.user, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

// TestUpdateSetWeight verifies that an absent weight leaves the set
// unchanged while null clears it.
func TestUpdateSetWeight(t *testing.T) {
	f := setupAPI(t)
	const alice = "alice@example.com"

	s := decode[workout.SessionDetail](t, f.call(t, alice, http.MethodPost, "/api/v1/workouts", map[string]any{}))
	pe := decode[workout.PerformedExerciseView](t, f.call(t, alice, http.MethodPost,
		fmt.Sprintf("/api/v1/workouts/%d/exercises", s.ID), map[string]any{"exercise_name": "Row", "position": 1}))
	rec := f.call(t, alice, http.MethodPost, fmt.Sprintf("/api/v1/performed-exercises/%d/sets", pe.ID), `{"position":1,"reps":8,"weight":60}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	set := decode[workout.SetEntry](t, rec)
	setPath := fmt.Sprintf("/api/v1/set-entries/%d", set.ID)

	rec = f.call(t, alice, http.MethodPatch, setPath, `{"reps": 9}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[workout.SetEntry](t, rec)
	assert.Equal(t, 9, got.Reps)
	require.NotNil(t, got.Weight)
	assert.Equal(t, "60.00", got.Weight.String())

	rec = f.call(t, alice, http.MethodPatch, setPath, `{"weight": null}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got = decode[workout.SetEntry](t, rec)
	assert.Nil(t, got.Weight)
	assert.Equal(t, 9, got.Reps)

	rec = f.call(t, alice, http.MethodDelete, setPath, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = f.call(t, alice, http.MethodGet, setPath, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExerciseNotes(t *testing.T) {
	f := setupAPI(t)
	const alice = "alice@example.com"

	rec := f.call(t, alice, http.MethodPost, "/api/v1/exercises", map[string]any{"name": "Pull-up", "description": "bar"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	et := decode[workout.ExerciseType](t, rec)
	rec = f.call(t, alice, http.MethodPost, "/api/v1/exercises", map[string]any{"name": "Pull-up"})
	assert.Equal(t, http.StatusOK, rec.Code)

	notePath := fmt.Sprintf("/api/v1/exercise-notes/%d", et.ID)
	rec = f.call(t, alice, http.MethodGet, notePath, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.call(t, alice, http.MethodPut, notePath, map[string]any{"note": "  use the wide grip  "})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = f.call(t, alice, http.MethodGet, notePath, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"exercise_id": %d, "note": "use the wide grip"}`, et.ID), rec.Body.String())

	rec = f.call(t, alice, http.MethodPut, notePath, map[string]any{"note": "   "})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = f.call(t, alice, http.MethodGet, notePath, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"exercise_id": %d, "note": ""}`, et.ID), rec.Body.String())

	rec = f.call(t, "bob@example.com", http.MethodGet, notePath, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.call(t, alice, http.MethodPut, "/api/v1/exercise-notes/999", map[string]any{"note": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPrograms(t *testing.T) {
	f := setupAPI(t)
	const alice = "alice@example.com"

	rec := f.call(t, alice, http.MethodPost, "/api/v1/programs", map[string]any{"name": "PPL"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	p := decode[workout.Program](t, rec)

	rec = f.call(t, alice, http.MethodPost, "/api/v1/workouts", map[string]any{"name": "Legs", "program": p.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	s := decode[workout.SessionDetail](t, rec)
	require.NotNil(t, s.ProgramID)

	rec = f.call(t, "bob@example.com", http.MethodGet, fmt.Sprintf("/api/v1/programs/%d", p.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.call(t, alice, http.MethodDelete, fmt.Sprintf("/api/v1/programs/%d", p.ID), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.call(t, alice, http.MethodGet, fmt.Sprintf("/api/v1/workouts/%d", s.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[workout.SessionDetail](t, rec).ProgramID)

	rec = f.call(t, alice, http.MethodGet, "/api/v1/programs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

const importCSV = `
"Pull · Day 3";"2026-02-20 18:00 h";"0:55 hr"
"1. Pull-ups · Bodyweight · 8 reps"
#;KG;REPS;RIR
1;+0;8;1
2;+10;6;0
`

func TestAlphaImport(t *testing.T) {
	f := setupAPI(t)
	const alice = "alice@example.com"

	rec := f.call(t, alice, http.MethodPost, "/api/v1/import/alpha", importCSV)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.EqualValues(t, 1, result["sessions_imported"])
	assert.EqualValues(t, 2, result["sets_imported"])

	rec = f.call(t, alice, http.MethodPost, "/api/v1/import/alpha", importCSV)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.EqualValues(t, 1, result["sessions_skipped"])

	rec = f.call(t, alice, http.MethodPost, "/api/v1/import/alpha", "1;50;10;1\n")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.call(t, alice, http.MethodGet, "/api/v1/import/logs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var logs []map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&logs))
	require.Len(t, logs, 3)
	statuses := []any{logs[0]["status"], logs[1]["status"], logs[2]["status"]}
	assert.ElementsMatch(t, []any{"success", "success", "error"}, statuses)

	rec = f.call(t, "bob@example.com", http.MethodGet, "/api/v1/import/logs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	f := setupAPI(t)
	f.call(t, "alice@example.com", http.MethodGet, "/api/v1/workouts", nil)

	rec := f.call(t, "", http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `gymbuddy_http_requests_total{method="GET",route="/api/v1/workouts",status_code="200"} 1`), body)
}

func TestMCPMount(t *testing.T) {
	store := sqlitestore.NewTestStore(t)
	svc := workout.NewService(store, clockwork.NewRealClock(), discardLog)
	srv := New(svc, store, alpha.NewProvider(svc, discardLog), HeaderIdentity(userHeader, store, discardLog), discardLog)
	var gotID int64
	srv.SetMCP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = UserID(r)
		w.WriteHeader(http.StatusAccepted)
	}))
	h := srv.Handler()

	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set(userHeader, "alice@example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.NotZero(t, gotID)
}
