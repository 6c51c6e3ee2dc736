package workout

import (
	"context"
	"strings"
	"unicode/utf8"
)

// AddExercise adds one exercise to a session owned by owner. The exercise is
// resolved through the catalog in the same transaction, so a failed insert
// does not leave a new catalog entry behind.
func (s *Service) AddExercise(ctx context.Context, owner, sessionID int64, in NewPerformedExercise) (*PerformedExerciseView, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	if err := validatePosition(in.Position); err != nil {
		return nil, err
	}
	preferred, err := normalizePreferredName(in.PreferredName)
	if err != nil {
		return nil, err
	}

	var view *PerformedExerciseView
	err = s.store.InTx(ctx, func(q Querier) error {
		sess, err := q.Session(ctx, owner, sessionID)
		if err != nil {
			return err
		}
		et, err := resolveExerciseType(ctx, q, in.Exercise)
		if err != nil {
			return err
		}
		pe := &PerformedExercise{
			SessionID:     sess.ID,
			ExerciseType:  *et,
			PreferredName: preferred,
			Position:      in.Position,
		}
		if err := q.InsertPerformedExercise(ctx, pe); err != nil {
			return err
		}
		view, err = exerciseView(ctx, q, owner, *pe)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// ListExercises returns a session's exercises ordered by position, each with
// its sets and the owner's note for that exercise type.
func (s *Service) ListExercises(ctx context.Context, owner, sessionID int64) ([]PerformedExerciseView, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	if _, err := s.store.Session(ctx, owner, sessionID); err != nil {
		return nil, err
	}
	return exerciseViews(ctx, s.store, owner, sessionID)
}

// GetPerformedExercise returns one performed exercise with sets and note.
func (s *Service) GetPerformedExercise(ctx context.Context, owner, id int64) (*PerformedExerciseView, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	pe, err := s.store.PerformedExercise(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	return exerciseView(ctx, s.store, owner, *pe)
}

// UpdatePerformedExercise changes the preferred name and/or position.
func (s *Service) UpdatePerformedExercise(ctx context.Context, owner, id int64, patch PerformedExercisePatch) (*PerformedExerciseView, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	pe, err := s.store.PerformedExercise(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if patch.PreferredName != nil {
		name, err := normalizePreferredName(*patch.PreferredName)
		if err != nil {
			return nil, err
		}
		pe.PreferredName = name
	}
	if patch.Position != nil {
		if err := validatePosition(*patch.Position); err != nil {
			return nil, err
		}
		pe.Position = *patch.Position
	}
	if err := s.store.UpdatePerformedExercise(ctx, owner, pe); err != nil {
		return nil, err
	}
	return exerciseView(ctx, s.store, owner, *pe)
}

// DeletePerformedExercise removes a performed exercise and its sets. Other
// positions in the session are not renumbered.
func (s *Service) DeletePerformedExercise(ctx context.Context, owner, id int64) error {
	if err := requireOwner(owner); err != nil {
		return err
	}
	return s.store.DeletePerformedExercise(ctx, owner, id)
}

func exerciseViews(ctx context.Context, q Querier, owner, sessionID int64) ([]PerformedExerciseView, error) {
	pes, err := q.ListPerformedExercises(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	views := make([]PerformedExerciseView, 0, len(pes))
	for _, pe := range pes {
		v, err := exerciseView(ctx, q, owner, pe)
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	return views, nil
}

func exerciseView(ctx context.Context, q Querier, owner int64, pe PerformedExercise) (*PerformedExerciseView, error) {
	sets, err := q.ListSets(ctx, pe.ID)
	if err != nil {
		return nil, err
	}
	note, _, err := noteText(ctx, q, owner, pe.ExerciseType.ID)
	if err != nil {
		return nil, err
	}
	if sets == nil {
		sets = []SetEntry{}
	}
	return &PerformedExerciseView{
		PerformedExercise: pe,
		Sets:              sets,
		NoteForNextTime:   note,
	}, nil
}

func normalizePreferredName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > MaxNameLen {
		return "", invalidf("preferred name exceeds %d characters", MaxNameLen)
	}
	return name, nil
}
