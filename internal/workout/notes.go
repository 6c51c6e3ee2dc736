package workout

import (
	"context"
	"errors"
	"strings"
)

// SaveNote stores the owner's note for an exercise type, replacing any
// previous one. The text is trimmed; an empty note is stored as such.
func (s *Service) SaveNote(ctx context.Context, owner, exerciseTypeID int64, text string) (*ExerciseNote, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	if _, err := s.store.ExerciseTypeByID(ctx, exerciseTypeID); err != nil {
		return nil, err
	}
	n := &ExerciseNote{
		OwnerID:        owner,
		ExerciseTypeID: exerciseTypeID,
		Note:           strings.TrimSpace(text),
		UpdatedAt:      s.now(),
	}
	if err := s.store.UpsertNote(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// Note returns the owner's note for an exercise type. ok is false when no
// note was ever saved.
func (s *Service) Note(ctx context.Context, owner, exerciseTypeID int64) (text string, ok bool, err error) {
	if err := requireOwner(owner); err != nil {
		return "", false, err
	}
	return noteText(ctx, s.store, owner, exerciseTypeID)
}

func noteText(ctx context.Context, q Querier, owner, exerciseTypeID int64) (string, bool, error) {
	n, err := q.Note(ctx, owner, exerciseTypeID)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return n.Note, true, nil
}
