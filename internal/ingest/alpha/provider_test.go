package alpha

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/claude/gymbuddy/internal/storage/sqlitestore"
	"github.com/claude/gymbuddy/internal/workout"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProvider(t *testing.T) (*Provider, *workout.Service, int64) {
	t.Helper()
	store := sqlitestore.NewTestStore(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := workout.NewService(store, clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)), log)
	owner, err := store.GetOrCreateUser(context.Background(), "alice@example.com", "")
	require.NoError(t, err)
	return NewProvider(svc, log), svc, owner
}

func TestIngest(t *testing.T) {
	p, svc, owner := setupProvider(t)
	ctx := context.Background()

	result, err := p.Ingest(ctx, strings.NewReader(sampleCSV), owner)
	require.NoError(t, err)
	assert.Equal(t, 2, result.SessionsReceived)
	assert.Equal(t, 2, result.SessionsImported)
	assert.Equal(t, 0, result.SessionsSkipped)
	assert.Equal(t, 28, result.SetsImported)
	assert.Equal(t, result.SetsReceived, result.SetsImported)

	sessions, err := svc.ListSessions(ctx, owner)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	// The export lists newest first; the oldest is created first.
	assert.Equal(t, "Legs · Day 2 · Week 4 · Push-Pull-Legs", sessions[0].Name)
	assert.Equal(t, "Push · Day 1 · Week 4 · Push-Pull-Legs", sessions[1].Name)
	assert.Equal(t, "Imported from Alpha Progression: 2026-02-19 04:54 (1:02 hr)", sessions[0].Notes)

	legs, err := svc.GetSession(ctx, owner, sessions[0].ID)
	require.NoError(t, err)
	require.Len(t, legs.Exercises, 6)

	hack := legs.Exercises[0]
	assert.Equal(t, "Hack Squats (Machine)", hack.ExerciseType.Name)
	assert.Equal(t, 1, hack.Position)
	require.Len(t, hack.Sets, 5)
	assert.Equal(t, "warm-up", hack.Sets[0].Notes)
	assert.Equal(t, "37.50", hack.Sets[0].Weight.String())
	assert.Equal(t, "RIR 1", hack.Sets[2].Notes)
	assert.Equal(t, 3, hack.Sets[2].Position)

	hyper := legs.Exercises[2]
	assert.Equal(t, "warm-up, bodyweight +", hyper.Sets[0].Notes)
	assert.Equal(t, "bodyweight +, RIR 0", hyper.Sets[1].Notes)
	assert.Equal(t, "35.00", hyper.Sets[1].Weight.String())
}

func TestIngest_SkipsImportedSessions(t *testing.T) {
	p, svc, owner := setupProvider(t)
	ctx := context.Background()

	_, err := p.Ingest(ctx, strings.NewReader(sampleCSV), owner)
	require.NoError(t, err)

	result, err := p.Ingest(ctx, strings.NewReader(sampleCSV), owner)
	require.NoError(t, err)
	assert.Equal(t, 0, result.SessionsImported)
	assert.Equal(t, 2, result.SessionsSkipped)

	sessions, err := svc.ListSessions(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}

func TestIngest_ParseError(t *testing.T) {
	p, _, owner := setupProvider(t)

	_, err := p.Ingest(context.Background(), strings.NewReader("1;50;10;1\n"), owner)
	assert.ErrorIs(t, err, workout.ErrInvalidInput)
}

func TestToSessionImport_RepeatedNumbers(t *testing.T) {
	imp := toSessionImport(Session{
		Name: "S",
		Date: time.Date(2026, 1, 5, 18, 30, 0, 0, time.UTC),
		Exercises: []Exercise{
			{Number: 1, Name: "A"},
			{Number: 1, Name: "B"},
			{Number: 0, Name: "C"},
		},
	})
	require.Len(t, imp.Exercises, 3)
	assert.Equal(t, 1, imp.Exercises[0].Position)
	assert.Equal(t, 2, imp.Exercises[1].Position)
	assert.Equal(t, 3, imp.Exercises[2].Position)
}
