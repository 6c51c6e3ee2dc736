package workout

import (
	"context"
	"strings"
	"unicode/utf8"
)

// CreateProgram creates a training program for owner.
func (s *Service) CreateProgram(ctx context.Context, owner int64, name, description string) (*Program, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidf("program name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLen {
		return nil, invalidf("program name exceeds %d characters", MaxNameLen)
	}
	p := &Program{
		OwnerID:     owner,
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   s.now(),
	}
	if err := s.store.InsertProgram(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetProgram returns one program owned by owner.
func (s *Service) GetProgram(ctx context.Context, owner, id int64) (*Program, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	return s.store.Program(ctx, owner, id)
}

// ListPrograms returns the owner's programs, newest first.
func (s *Service) ListPrograms(ctx context.Context, owner int64) ([]Program, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	programs, err := s.store.ListPrograms(ctx, owner)
	if err != nil {
		return nil, err
	}
	if programs == nil {
		programs = []Program{}
	}
	return programs, nil
}

// DeleteProgram removes a program. Its sessions are kept and lose the
// program reference.
func (s *Service) DeleteProgram(ctx context.Context, owner, id int64) error {
	if err := requireOwner(owner); err != nil {
		return err
	}
	return s.store.DeleteProgram(ctx, owner, id)
}
