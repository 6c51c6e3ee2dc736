package workout

import (
	"context"
	"errors"
)

// Template returns the exercises of the owner's newest session with their
// sets, or an empty list when the owner has no sessions.
func (s *Service) Template(ctx context.Context, owner int64) ([]TemplateExercise, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	latest, err := s.store.LatestSession(ctx, owner)
	if errors.Is(err, ErrNotFound) {
		return []TemplateExercise{}, nil
	}
	if err != nil {
		return nil, err
	}
	return templateView(ctx, s.store, latest.ID)
}

// PreviousExercises returns the exercises of the session created right
// before sessionID. Sessions sharing a timestamp are ordered by id.
func (s *Service) PreviousExercises(ctx context.Context, owner, sessionID int64) ([]TemplateExercise, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	current, err := s.store.Session(ctx, owner, sessionID)
	if err != nil {
		return nil, err
	}
	prev, err := s.store.SessionBefore(ctx, owner, current.CreatedAt, current.ID)
	if errors.Is(err, ErrNotFound) {
		return []TemplateExercise{}, nil
	}
	if err != nil {
		return nil, err
	}
	return templateView(ctx, s.store, prev.ID)
}

// LastExercisePerformance returns the owner's most recent performance of an
// exercise type. It fails with ErrNotFound if the owner never did it.
func (s *Service) LastExercisePerformance(ctx context.Context, owner, exerciseTypeID int64) (*TemplateExercise, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	pe, err := s.store.LatestPerformance(ctx, owner, exerciseTypeID)
	if err != nil {
		return nil, err
	}
	t, err := templateExercise(ctx, s.store, *pe)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func templateView(ctx context.Context, q Querier, sessionID int64) ([]TemplateExercise, error) {
	pes, err := q.ListPerformedExercises(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	out := make([]TemplateExercise, 0, len(pes))
	for _, pe := range pes {
		t, err := templateExercise(ctx, q, pe)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func templateExercise(ctx context.Context, q Querier, pe PerformedExercise) (TemplateExercise, error) {
	sets, err := q.ListSets(ctx, pe.ID)
	if err != nil {
		return TemplateExercise{}, err
	}
	if sets == nil {
		sets = []SetEntry{}
	}
	return TemplateExercise{
		ExerciseType:  pe.ExerciseType,
		PreferredName: pe.PreferredName,
		Position:      pe.Position,
		LastSets:      sets,
	}, nil
}
