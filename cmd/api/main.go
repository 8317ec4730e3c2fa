package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fintrack/fintrack/internal/config"
	"github.com/fintrack/fintrack/internal/db"
	"github.com/fintrack/fintrack/internal/repo"
	"github.com/fintrack/fintrack/internal/scheduler"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(newLogger(cfg))

	if cfg.JWTSecret == "" {
		slog.Warn("JWT_SECRET is not set: logins will fail and every token will be rejected")
	}

	// Connect to database FIRST
	database, err := db.Open(cfg)
	if err != nil {
		return err
	}
	defer database.Close()
	slog.Info("connected to database", "driver", cfg.DBDriver)

	if err := db.Migrate(database, cfg.DBDriver); err != nil {
		return err
	}

	sched := scheduler.New()
	retention := time.Duration(cfg.AuditRetentionDays) * 24 * time.Hour
	if err := sched.AddAuditPurge(cfg.AuditPurgeSchedule, retention, repo.NewAuditRepo(database)); err != nil {
		return err
	}
	sched.Start()
	defer func() { <-sched.Stop().Done() }()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(database, cfg),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		// Start server LAST
		slog.Info("starting server", "addr", srv.Addr, "tls", cfg.TLSEnabled())
		var err error
		if cfg.TLSEnabled() {
			err = srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newLogger builds the process logger from LOG_FORMAT and LOG_LEVEL.
func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(cfg.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
