package storage

import (
	"context"
	"fmt"

	"github.com/claude/gymbuddy/internal/config"
	"github.com/claude/gymbuddy/internal/ingest"
	"github.com/claude/gymbuddy/internal/storage/sqlitestore"
	"github.com/claude/gymbuddy/internal/workout"
)

// Backend is a migrated store of either driver, as used by the binaries.
type Backend interface {
	workout.Store
	GetOrCreateUser(ctx context.Context, login, displayName string) (int64, error)
	InsertImportLog(ctx context.Context, entry ingest.LogEntry) (int64, error)
	QueryImportLogs(ctx context.Context, userID int64, limit int) ([]ingest.LogEntry, error)
	Close() error
}

// pgBackend adapts DB.Close to the Backend signature.
type pgBackend struct {
	*DB
}

func (b pgBackend) Close() error {
	b.DB.Close()
	return nil
}

// Open applies pending migrations for the configured driver and connects.
func Open(ctx context.Context, cfg config.DatabaseConfig) (Backend, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		dsn := cfg.DSN()
		if err := RunMigrations(dsn); err != nil {
			return nil, err
		}
		db, err := New(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return pgBackend{db}, nil
	case config.DriverSQLite:
		return sqlitestore.Open(ctx, cfg.Path)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
