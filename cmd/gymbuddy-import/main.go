package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/claude/gymbuddy/internal/config"
	"github.com/claude/gymbuddy/internal/ingest"
	"github.com/claude/gymbuddy/internal/ingest/alpha"
	"github.com/claude/gymbuddy/internal/storage"
	"github.com/claude/gymbuddy/internal/workout"
	"github.com/jonboulle/clockwork"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	csvPath := flag.String("file", "", "path to an Alpha Progression CSV export (required)")
	login := flag.String("user", "", "login of the user to import for (required)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *csvPath == "" || *login == "" {
		fmt.Fprintf(os.Stderr, "Usage: gymbuddy-import -config config.yaml -file export.csv -user alice@example.com\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Error("cannot open export", "path", *csvPath, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := storage.Open(ctx, cfg.Database)
	if err != nil {
		log.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database ready")

	owner, err := db.GetOrCreateUser(ctx, *login, "")
	if err != nil {
		log.Error("resolving user", "login", *login, "error", err)
		os.Exit(1)
	}

	svc := workout.NewService(db, clockwork.NewRealClock(), log)
	provider := alpha.NewProvider(svc, log)

	start := time.Now()
	result, importErr := provider.Ingest(ctx, f, owner)
	entry := ingest.NewLogEntry(owner, alpha.Source, result, importErr, int(time.Since(start).Milliseconds()))
	if _, err := db.InsertImportLog(ctx, entry); err != nil {
		log.Error("failed to log import", "error", err)
	}

	printResult(log, result)
	if importErr != nil {
		log.Error("import failed", "error", importErr)
		os.Exit(1)
	}
	log.Info("import complete")
}

func printResult(log *slog.Logger, result *ingest.Result) {
	if result == nil {
		return
	}
	log.Info("import stats",
		"sessions_received", result.SessionsReceived,
		"sessions_imported", result.SessionsImported,
		"sessions_skipped", result.SessionsSkipped,
		"sets_received", result.SetsReceived,
		"sets_imported", result.SetsImported,
	)
}
