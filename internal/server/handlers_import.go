package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/claude/gymbuddy/internal/ingest"
	"github.com/claude/gymbuddy/internal/ingest/alpha"
	"github.com/claude/gymbuddy/internal/workout"
)

const maxImportBody = 32 << 20

func (s *Server) handleAlphaImport(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	start := time.Now()
	result, err := s.alpha.Ingest(r.Context(), http.MaxBytesReader(w, r.Body, maxImportBody), uid)
	s.logImport(uid, alpha.Source, result, err, int(time.Since(start).Milliseconds()))
	if err != nil {
		if result != nil && !errors.Is(err, workout.ErrInvalidInput) {
			s.log.Error("alpha import failed", "user_id", uid, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error(), "result": result})
			return
		}
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleImportLogs(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	logs, err := s.store.QueryImportLogs(r.Context(), uid, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// logImport records an import operation's result to the import_logs table.
func (s *Server) logImport(uid int64, source string, result *ingest.Result, importErr error, durationMs int) {
	entry := ingest.NewLogEntry(uid, source, result, importErr, durationMs)
	s.metrics.ImportsTotal.WithLabelValues(source, entry.Status).Inc()

	ctx, cancel := contextWithTimeout()
	defer cancel()

	if _, err := s.store.InsertImportLog(ctx, entry); err != nil {
		s.log.Error("failed to log import", "source", source, "error", err)
	}
}

// contextWithTimeout returns a background context with a 5-second timeout
// so the log entry is written even when the request was cancelled.
func contextWithTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second) //nolint:mnd
}
