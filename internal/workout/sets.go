package workout

import (
	"context"
	"unicode/utf8"
)

// AddSet appends a set to a performed exercise owned by owner.
func (s *Service) AddSet(ctx context.Context, owner, performedExerciseID int64, in NewSet) (*SetEntry, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	if err := validateNewSet(in); err != nil {
		return nil, err
	}
	pe, err := s.store.PerformedExercise(ctx, owner, performedExerciseID)
	if err != nil {
		return nil, err
	}
	return insertSet(ctx, s.store, pe.ID, in)
}

// GetSet returns one set owned by owner.
func (s *Service) GetSet(ctx context.Context, owner, id int64) (*SetEntry, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	return s.store.Set(ctx, owner, id)
}

// UpdateSet applies a partial update to reps, weight and notes. Position and
// parent never change.
func (s *Service) UpdateSet(ctx context.Context, owner, id int64, patch SetPatch) (*SetEntry, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	set, err := s.store.Set(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if patch.Reps != nil {
		set.Reps = *patch.Reps
	}
	switch {
	case patch.ClearWeight:
		set.Weight = nil
	case patch.Weight != nil:
		w := *patch.Weight
		set.Weight = &w
	}
	if patch.Notes != nil {
		set.Notes = *patch.Notes
	}
	if err := validateSetValues(set.Reps, set.Weight, set.Notes); err != nil {
		return nil, err
	}

	if err := s.store.UpdateSet(ctx, owner, set); err != nil {
		return nil, err
	}
	return set, nil
}

// DeleteSet removes one set. Remaining positions are left as they are.
func (s *Service) DeleteSet(ctx context.Context, owner, id int64) error {
	if err := requireOwner(owner); err != nil {
		return err
	}
	return s.store.DeleteSet(ctx, owner, id)
}

func insertSet(ctx context.Context, q Querier, performedExerciseID int64, in NewSet) (*SetEntry, error) {
	set := &SetEntry{
		PerformedExerciseID: performedExerciseID,
		Position:            in.Position,
		Reps:                in.Reps,
		Notes:               in.Notes,
	}
	if in.Weight != nil {
		w := *in.Weight
		set.Weight = &w
	}
	if err := q.InsertSet(ctx, set); err != nil {
		return nil, err
	}
	return set, nil
}

func validateNewSet(in NewSet) error {
	if err := validatePosition(in.Position); err != nil {
		return err
	}
	return validateSetValues(in.Reps, in.Weight, in.Notes)
}

func validateSetValues(reps int, weight *Weight, notes string) error {
	if reps < 0 || reps > MaxReps {
		return invalidf("reps must be between 0 and %d", MaxReps)
	}
	if weight != nil {
		if err := weight.validate(); err != nil {
			return err
		}
	}
	if utf8.RuneCountInString(notes) > MaxSetNotesLen {
		return invalidf("set notes exceed %d characters", MaxSetNotesLen)
	}
	return nil
}

func validatePosition(pos int) error {
	if pos < 1 || pos > MaxPosition {
		return invalidf("position must be between 1 and %d", MaxPosition)
	}
	return nil
}
