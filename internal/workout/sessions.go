package workout

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// CreateSession creates a session for owner. When TemplateSessionID is set
// the template's exercises and sets are copied into the new session; its
// name and notes are not. Everything happens in one transaction.
func (s *Service) CreateSession(ctx context.Context, owner int64, in NewSession) (*SessionDetail, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	name, err := normalizeSessionName(in.Name)
	if err != nil {
		return nil, err
	}

	var detail *SessionDetail
	err = s.store.InTx(ctx, func(q Querier) error {
		if in.ProgramID != nil {
			if _, err := q.Program(ctx, owner, *in.ProgramID); err != nil {
				return err
			}
		}
		var tmpl *Session
		if in.TemplateSessionID != nil {
			t, err := q.Session(ctx, owner, *in.TemplateSessionID)
			if err != nil {
				return fmt.Errorf("template session: %w", err)
			}
			tmpl = t
		}

		sess := &Session{
			OwnerID:   owner,
			ProgramID: in.ProgramID,
			CreatedAt: s.now(),
			Name:      name,
			Notes:     in.Notes,
		}
		if err := q.InsertSession(ctx, sess); err != nil {
			return err
		}
		if tmpl != nil {
			if err := copyExercises(ctx, q, tmpl.ID, sess.ID); err != nil {
				return fmt.Errorf("copying session %d: %w", tmpl.ID, err)
			}
		}

		views, err := exerciseViews(ctx, q, owner, sess.ID)
		if err != nil {
			return err
		}
		detail = &SessionDetail{Session: *sess, Exercises: views}
		return nil
	})
	if err != nil {
		return nil, err
	}

	attrs := []any{"owner", owner, "session_id", detail.ID, "exercises", len(detail.Exercises)}
	if in.TemplateSessionID != nil {
		attrs = append(attrs, "template_id", *in.TemplateSessionID)
	}
	s.log.Info("session created", attrs...)
	return detail, nil
}

// ListSessions returns the owner's sessions, newest first.
func (s *Service) ListSessions(ctx context.Context, owner int64) ([]Session, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	sessions, err := s.store.ListSessions(ctx, owner)
	if err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []Session{}
	}
	return sessions, nil
}

// GetSession returns one session with its exercise list.
func (s *Service) GetSession(ctx context.Context, owner, id int64) (*SessionDetail, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	sess, err := s.store.Session(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	views, err := exerciseViews(ctx, s.store, owner, sess.ID)
	if err != nil {
		return nil, err
	}
	return &SessionDetail{Session: *sess, Exercises: views}, nil
}

// UpdateSession changes the name and/or notes of a session. The creation
// timestamp is immutable.
func (s *Service) UpdateSession(ctx context.Context, owner, id int64, patch SessionPatch) (*SessionDetail, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	sess, err := s.store.Session(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		name, err := normalizeSessionName(*patch.Name)
		if err != nil {
			return nil, err
		}
		sess.Name = name
	}
	if patch.Notes != nil {
		sess.Notes = *patch.Notes
	}
	if err := s.store.UpdateSession(ctx, sess); err != nil {
		return nil, err
	}
	return s.GetSession(ctx, owner, id)
}

// DeleteSession removes a session with its exercises and sets.
func (s *Service) DeleteSession(ctx context.Context, owner, id int64) error {
	if err := requireOwner(owner); err != nil {
		return err
	}
	if err := s.store.DeleteSession(ctx, owner, id); err != nil {
		return err
	}
	s.log.Info("session deleted", "owner", owner, "session_id", id)
	return nil
}

// ImportSession creates a session together with its exercises and sets,
// resolving exercises by name. Nothing is kept if any part is invalid.
func (s *Service) ImportSession(ctx context.Context, owner int64, imp SessionImport) (*SessionDetail, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	name, err := normalizeSessionName(imp.Name)
	if err != nil {
		return nil, err
	}
	for _, ex := range imp.Exercises {
		if err := validatePosition(ex.Position); err != nil {
			return nil, fmt.Errorf("exercise %q: %w", ex.Name, err)
		}
		for _, set := range ex.Sets {
			if err := validateNewSet(set); err != nil {
				return nil, fmt.Errorf("exercise %q set %d: %w", ex.Name, set.Position, err)
			}
		}
	}

	var detail *SessionDetail
	err = s.store.InTx(ctx, func(q Querier) error {
		sess := &Session{OwnerID: owner, CreatedAt: s.now(), Name: name, Notes: imp.Notes}
		if err := q.InsertSession(ctx, sess); err != nil {
			return err
		}
		for _, ex := range imp.Exercises {
			et, err := resolveExerciseType(ctx, q, ExerciseRef{Name: ex.Name})
			if err != nil {
				return err
			}
			preferred, err := normalizePreferredName(ex.PreferredName)
			if err != nil {
				return err
			}
			pe := &PerformedExercise{
				SessionID:     sess.ID,
				ExerciseType:  *et,
				PreferredName: preferred,
				Position:      ex.Position,
			}
			if err := q.InsertPerformedExercise(ctx, pe); err != nil {
				return fmt.Errorf("exercise %q: %w", ex.Name, err)
			}
			for _, set := range ex.Sets {
				if _, err := insertSet(ctx, q, pe.ID, set); err != nil {
					return fmt.Errorf("exercise %q set %d: %w", ex.Name, set.Position, err)
				}
			}
		}
		views, err := exerciseViews(ctx, q, owner, sess.ID)
		if err != nil {
			return err
		}
		detail = &SessionDetail{Session: *sess, Exercises: views}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func copyExercises(ctx context.Context, q Querier, fromSessionID, toSessionID int64) error {
	pes, err := q.ListPerformedExercises(ctx, fromSessionID)
	if err != nil {
		return err
	}
	for _, src := range pes {
		sets, err := q.ListSets(ctx, src.ID)
		if err != nil {
			return err
		}
		dst := &PerformedExercise{
			SessionID:     toSessionID,
			ExerciseType:  src.ExerciseType,
			PreferredName: src.PreferredName,
			Position:      src.Position,
		}
		if err := q.InsertPerformedExercise(ctx, dst); err != nil {
			return err
		}
		for _, set := range sets {
			in := NewSet{Position: set.Position, Reps: set.Reps, Weight: set.Weight, Notes: set.Notes}
			if _, err := insertSet(ctx, q, dst.ID, in); err != nil {
				return err
			}
		}
	}
	return nil
}

func normalizeSessionName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > MaxNameLen {
		return "", invalidf("session name exceeds %d characters", MaxNameLen)
	}
	return name, nil
}
