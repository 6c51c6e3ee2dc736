package sqlitestore

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/gymbuddy/internal/ingest"
)

// InsertImportLog creates a new import log entry and returns its ID.
func (s *Store) InsertImportLog(ctx context.Context, log ingest.LogEntry) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO import_logs (user_id, created_at, source, status, sessions_received,
		 sessions_imported, sessions_skipped, sets_imported, duration_ms, error_message)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		log.UserID, toMicros(time.Now()), log.Source, log.Status, log.SessionsReceived,
		log.SessionsImported, log.SessionsSkipped, log.SetsImported, log.DurationMs, log.ErrorMessage)
	if err != nil {
		return 0, fmt.Errorf("inserting import log: %w", err)
	}
	return res.LastInsertId()
}

// QueryImportLogs returns the most recent import logs for a user.
func (s *Store) QueryImportLogs(ctx context.Context, userID int64, limit int) ([]ingest.LogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, created_at, source, status, sessions_received, sessions_imported,
		 sessions_skipped, sets_imported, duration_ms, error_message
		 FROM import_logs
		 WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying import logs: %w", err)
	}
	defer rows.Close()

	result := []ingest.LogEntry{}
	for rows.Next() {
		var (
			l       ingest.LogEntry
			created int64
		)
		if err := rows.Scan(&l.ID, &l.UserID, &created, &l.Source, &l.Status,
			&l.SessionsReceived, &l.SessionsImported, &l.SessionsSkipped, &l.SetsImported,
			&l.DurationMs, &l.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scanning import log: %w", err)
		}
		l.CreatedAt = fromMicros(created)
		result = append(result, l)
	}
	return result, rows.Err()
}
