// Package workout implements workout sessions, their performed exercises and
// sets, the shared exercise catalog, per-user exercise notes and the
// historical views built from them.
package workout

import (
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

// Service exposes the workout operations. It holds no per-request state.
type Service struct {
	store Store
	clock clockwork.Clock
	log   *slog.Logger
}

// NewService creates a Service on top of store.
func NewService(store Store, clock clockwork.Clock, log *slog.Logger) *Service {
	return &Service{store: store, clock: clock, log: log}
}

// now returns the server-assigned timestamp for new rows. Postgres keeps
// microseconds, so the value is truncated to match what is read back.
func (s *Service) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Microsecond)
}
