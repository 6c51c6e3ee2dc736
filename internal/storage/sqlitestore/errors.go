package sqlitestore

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/claude/gymbuddy/internal/workout"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// mapError translates driver errors into workout error kinds. what names the
// entity for the message.
func mapError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, workout.ErrNotFound)
	}
	var sqlErr *sqlite.Error
	if errors.As(err, &sqlErr) {
		switch kind := constraintKind(sqlErr); kind {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%s: %w: %s", what, workout.ErrConflict, sqlErr.Error())
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%s: referenced row: %w", what, workout.ErrNotFound)
		case sqlite3.SQLITE_CONSTRAINT_CHECK:
			return fmt.Errorf("%s: %w: %s", what, workout.ErrInvalidInput, sqlErr.Error())
		}
	}
	return fmt.Errorf("%s: %w", what, err)
}

// constraintKind returns the extended constraint code of err, falling back
// to the message when only the primary code is reported.
func constraintKind(err *sqlite.Error) int {
	code := err.Code()
	if code&0xff != sqlite3.SQLITE_CONSTRAINT {
		return 0
	}
	if code != sqlite3.SQLITE_CONSTRAINT {
		return code
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return sqlite3.SQLITE_CONSTRAINT_UNIQUE
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
	case strings.Contains(msg, "CHECK constraint failed"):
		return sqlite3.SQLITE_CONSTRAINT_CHECK
	}
	return code
}

// affected reports ErrNotFound when a scoped write matched no row.
func affected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, workout.ErrNotFound)
	}
	return nil
}
