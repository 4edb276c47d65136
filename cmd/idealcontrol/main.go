// Copyright (c) 2026 IdealControl
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/idealcontrol/idealcontrol-go/internal/config"
	"github.com/idealcontrol/idealcontrol-go/internal/handler/api"
	"github.com/idealcontrol/idealcontrol-go/internal/logging"
	"github.com/idealcontrol/idealcontrol-go/internal/middleware"
	"github.com/idealcontrol/idealcontrol-go/internal/scheduler"
	"github.com/idealcontrol/idealcontrol-go/internal/session"
	"github.com/idealcontrol/idealcontrol-go/internal/store"
	"github.com/idealcontrol/idealcontrol-go/internal/version"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "IdealControl - meal registration backend\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  IDC_DB_PATH               SQLite database path (default: ./data/idealcontrol.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  IDC_SERVER_HOST           Server host (default: localhost)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  IDC_SERVER_PORT           Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  IDC_ENV                   Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  IDC_LOG_LEVEL             Log level: debug|info|warn|error (default: info)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  IDC_DO_SEED               Seed demo companies and users on startup (default: false)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  IDC_EVENT_RETENTION_DAYS  Audit event retention in days, 0 disables (default: 90)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  IDC_TRUSTED_ORIGINS       Comma-separated origins trusted by CSRF protection\n")
	}

	flag.Parse()

	if *showVersion {
		info := version.Get()
		_, _ = fmt.Printf("idealcontrol %s (commit: %s, built: %s)\n",
			info.Version, info.GitCommit, info.BuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade the logger to mirror WARN and ERROR records into the audit
	// event table.
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)

	ctx := context.Background()
	if err := store.Seed(ctx, db); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}
	if cfg.DoSeed {
		if err := store.SeedDemo(ctx, db); err != nil {
			return fmt.Errorf("seeding demo data: %w", err)
		}
	}

	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	// No durable secret in config; sessions are server-side, so the CSRF key
	// only has to survive the process lifetime.
	csrfKey := make([]byte, 32)
	if _, err := rand.Read(csrfKey); err != nil {
		return fmt.Errorf("generating CSRF key: %w", err)
	}
	csrfConfig := middleware.DefaultCSRFConfig(csrfKey, cfg.IsDevelopment())
	csrfConfig.TrustedOrigins = append(csrfConfig.TrustedOrigins, cfg.TrustedOrigins...)

	apiHandler := api.NewHandler(db, sessionManager, loginProtection)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.CSRF(csrfConfig))
	r.Use(middleware.LoadUser(sessionManager, db))

	r.Get("/healthz", apiHandler.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", apiHandler.Status)

		r.Post("/auth/login", apiHandler.Login)
		r.Post("/auth/logout", apiHandler.Logout)
		r.Get("/auth/session", apiHandler.Session)

		// Registration screen: user lookup and meal check-in are open to the
		// shared terminal, no login required.
		r.Get("/users", apiHandler.ListUsers)
		r.Get("/meals", apiHandler.ListMeals)
		r.Post("/meals", apiHandler.RegisterMeal)

		r.Get("/companies", apiHandler.ListCompanies)

		// Admin-gated management and reporting.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin())

			r.Post("/companies", apiHandler.SaveCompany)
			r.Delete("/companies/{id}", apiHandler.DeleteCompany)

			r.Post("/users", apiHandler.SaveUser)
			r.Delete("/users/{id}", apiHandler.DeleteUser)

			r.Get("/reports", apiHandler.GetReport)
			r.Get("/reports/export", apiHandler.ExportReport)

			r.Get("/admin/summary", apiHandler.Summary)
			r.Get("/admin/events", apiHandler.ListEvents)
		})
	})

	sched := scheduler.New(db, logger, cfg.EventRetentionDays)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
