package storage

import (
	"errors"
	"fmt"

	"github.com/claude/gymbuddy/internal/workout"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes the store translates.
const (
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
	codeCheckViolation      = "23514"
	codeNumericOutOfRange   = "22003"
)

// mapError translates driver errors into workout error kinds. what names the
// entity for the message.
func mapError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, workout.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%s: %w: %s", what, workout.ErrConflict, pgErr.Detail)
		case codeForeignKeyViolation:
			return fmt.Errorf("%s: referenced row: %w", what, workout.ErrNotFound)
		case codeCheckViolation, codeNumericOutOfRange:
			return fmt.Errorf("%s: %w: %s", what, workout.ErrInvalidInput, pgErr.Message)
		}
	}
	return fmt.Errorf("%s: %w", what, err)
}

// affected reports ErrNotFound when a scoped write matched no row.
func affected(tag pgconn.CommandTag, what string) error {
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", what, workout.ErrNotFound)
	}
	return nil
}
