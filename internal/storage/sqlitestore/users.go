package sqlitestore

import (
	"context"
	"fmt"
	"time"
)

// GetOrCreateUser finds or creates a user by login name.
// Returns the user ID. Updates last_seen and display_name on each call.
func (s *Store) GetOrCreateUser(ctx context.Context, login, displayName string) (int64, error) {
	now := toMicros(time.Now())
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (login, display_name, created_at, last_seen)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (login) DO UPDATE
			SET last_seen = excluded.last_seen,
			    display_name = COALESCE(NULLIF(excluded.display_name, ''), users.display_name)
		RETURNING id
	`, login, displayName, now, now).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upserting user %q: %w", login, err)
	}
	return id, nil
}
