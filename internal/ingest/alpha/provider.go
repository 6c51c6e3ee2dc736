package alpha

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/claude/gymbuddy/internal/ingest"
	"github.com/claude/gymbuddy/internal/workout"
)

// Source names this importer in import logs.
const Source = "alpha"

// markerPrefix starts the notes of every imported session. The rest of the
// first notes line identifies the exported session.
const markerPrefix = "Imported from Alpha Progression: "

// SessionImporter is the part of the workout service the importer needs.
type SessionImporter interface {
	ImportSession(ctx context.Context, owner int64, imp workout.SessionImport) (*workout.SessionDetail, error)
	ListSessions(ctx context.Context, owner int64) ([]workout.Session, error)
}

// Provider processes Alpha Progression CSV exports.
type Provider struct {
	svc SessionImporter
	log *slog.Logger
}

// NewProvider creates a new Alpha Progression ingest provider.
func NewProvider(svc SessionImporter, log *slog.Logger) *Provider {
	return &Provider{svc: svc, log: log}
}

// Ingest parses a CSV export and creates one session per exported workout,
// oldest first. Workouts imported before are skipped. Each session is
// created atomically; on error the sessions created so far are kept and the
// result counts them.
func (p *Provider) Ingest(ctx context.Context, r io.Reader, owner int64) (*ingest.Result, error) {
	sessions, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing CSV: %w", workout.ErrInvalidInput, err)
	}
	slices.SortStableFunc(sessions, func(a, b Session) int {
		return a.Date.Compare(b.Date)
	})

	existing, err := p.importedMarkers(ctx, owner)
	if err != nil {
		return nil, err
	}

	result := &ingest.Result{SessionsReceived: len(sessions)}
	for _, s := range sessions {
		imp := toSessionImport(s)
		for _, ex := range imp.Exercises {
			result.SetsReceived += len(ex.Sets)
		}

		marker := sessionMarker(s)
		if _, ok := existing[marker]; ok {
			result.SessionsSkipped++
			continue
		}

		detail, err := p.svc.ImportSession(ctx, owner, imp)
		if err != nil {
			return result, fmt.Errorf("importing session %q of %s: %w", s.Name, s.Date.Format("2006-01-02"), err)
		}
		existing[marker] = struct{}{}
		result.SessionsImported++
		for _, ex := range detail.Exercises {
			result.SetsImported += len(ex.Sets)
		}
	}

	p.log.Info("alpha import finished",
		"owner", owner,
		"received", result.SessionsReceived,
		"imported", result.SessionsImported,
		"skipped", result.SessionsSkipped,
	)
	return result, nil
}

// importedMarkers returns the markers of sessions imported earlier.
func (p *Provider) importedMarkers(ctx context.Context, owner int64) (map[string]struct{}, error) {
	sessions, err := p.svc.ListSessions(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	markers := make(map[string]struct{})
	for _, s := range sessions {
		first, _, _ := strings.Cut(s.Notes, "\n")
		if strings.HasPrefix(first, markerPrefix) {
			markers[first] = struct{}{}
		}
	}
	return markers, nil
}

func sessionMarker(s Session) string {
	return markerPrefix + s.Date.Format("2006-01-02 15:04") + " (" + s.Duration + ")"
}

// toSessionImport maps an exported session onto the workout model. Exercise
// positions follow the export numbering unless it repeats; sets are numbered
// warm-ups first.
func toSessionImport(s Session) workout.SessionImport {
	imp := workout.SessionImport{
		Name:  truncate(s.Name, workout.MaxNameLen),
		Notes: sessionMarker(s),
	}

	used := make(map[int]bool)
	for i, ex := range s.Exercises {
		pos := ex.Number
		if pos < 1 || used[pos] {
			pos = i + 1
			for used[pos] {
				pos++
			}
		}
		used[pos] = true

		name := ex.Name
		if ex.Equipment != "" {
			name = fmt.Sprintf("%s (%s)", ex.Name, ex.Equipment)
		}
		ie := workout.ImportedExercise{
			Name:     truncate(name, workout.MaxNameLen),
			Position: pos,
		}
		for j, set := range orderedSets(ex.Sets) {
			w := set.Weight
			ie.Sets = append(ie.Sets, workout.NewSet{
				Position: j + 1,
				Reps:     set.Reps,
				Weight:   &w,
				Notes:    setNotes(set),
			})
		}
		imp.Exercises = append(imp.Exercises, ie)
	}
	return imp
}

func orderedSets(sets []Set) []Set {
	out := slices.Clone(sets)
	slices.SortStableFunc(out, func(a, b Set) int {
		switch {
		case a.Warmup && !b.Warmup:
			return -1
		case !a.Warmup && b.Warmup:
			return 1
		}
		return 0
	})
	return out
}

func setNotes(s Set) string {
	var parts []string
	if s.Warmup {
		parts = append(parts, "warm-up")
	}
	if s.BodyweightPlus {
		parts = append(parts, "bodyweight +")
	}
	if s.RIR != "" {
		parts = append(parts, "RIR "+s.RIR)
	}
	return strings.Join(parts, ", ")
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
