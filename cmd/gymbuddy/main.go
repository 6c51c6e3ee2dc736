package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claude/gymbuddy/internal/config"
	"github.com/claude/gymbuddy/internal/ingest/alpha"
	gymmcp "github.com/claude/gymbuddy/internal/mcp"
	"github.com/claude/gymbuddy/internal/server"
	"github.com/claude/gymbuddy/internal/storage"
	"github.com/claude/gymbuddy/internal/workout"
	"github.com/jonboulle/clockwork"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.Log)
	log.Info("GymBuddy starting", "version", Version, "driver", cfg.Database.Driver, "auth", cfg.Auth.Mode)

	ctx := context.Background()
	db, err := storage.Open(ctx, cfg.Database)
	if err != nil {
		log.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database ready")

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	svc := workout.NewService(db, clockwork.NewRealClock(), log)
	alphaProvider := alpha.NewProvider(svc, log)

	// Start listener, tsnet or plain TCP
	var listener net.Listener
	var whois server.WhoIser

	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		lc, err := tsServer.LocalClient()
		if err != nil {
			log.Error("tsnet local client failed", "error", err)
			os.Exit(1)
		}
		whois = lc

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr)
	}

	identity, err := server.Identity(cfg.Auth, whois, db, log)
	if err != nil {
		log.Error("identity setup failed", "error", err)
		os.Exit(1)
	}

	srv := server.New(svc, db, alphaProvider, identity, log)
	if cfg.MCP.Enabled {
		srv.SetMCP(gymmcp.Handler(gymmcp.New(svc, Version, log), server.UserID))
		log.Info("MCP endpoint enabled", "path", "/mcp")
	}

	httpSrv := &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
