// Package ingest holds the types shared by the session importers.
package ingest

import "time"

// Result holds the outcome of an ingest operation.
type Result struct {
	SessionsReceived int `json:"sessions_received"`
	SessionsImported int `json:"sessions_imported"`
	SessionsSkipped  int `json:"sessions_skipped"`

	SetsReceived int `json:"sets_received"`
	SetsImported int `json:"sets_imported"`

	Message string `json:"message,omitempty"`
}

// LogEntry represents a single import operation's outcome.
type LogEntry struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	Source           string    `json:"source"`
	Status           string    `json:"status"`
	SessionsReceived int       `json:"sessions_received"`
	SessionsImported int       `json:"sessions_imported"`
	SessionsSkipped  int       `json:"sessions_skipped"`
	SetsImported     int       `json:"sets_imported"`
	DurationMs       *int      `json:"duration_ms"`
	ErrorMessage     *string   `json:"error_message"`
}

// Import log statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// NewLogEntry builds the log entry for an import of userID. result may be nil
// when the import failed before anything was counted.
func NewLogEntry(userID int64, source string, result *Result, importErr error, durationMs int) LogEntry {
	entry := LogEntry{
		UserID:     userID,
		Source:     source,
		Status:     StatusSuccess,
		DurationMs: &durationMs,
	}
	if result != nil {
		entry.SessionsReceived = result.SessionsReceived
		entry.SessionsImported = result.SessionsImported
		entry.SessionsSkipped = result.SessionsSkipped
		entry.SetsImported = result.SetsImported
	}
	if importErr != nil {
		entry.Status = StatusError
		msg := importErr.Error()
		entry.ErrorMessage = &msg
	}
	return entry
}
