// Copyright (c) 2026 IdealControl
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/idealcontrol/idealcontrol-go/internal/service"
)

// Scheduler handles periodic maintenance, currently audit event retention.
type Scheduler struct {
	db            *sql.DB
	cron          *cron.Cron
	events        *service.EventService
	logger        *slog.Logger
	retentionDays int
}

// New creates a new scheduler instance. retentionDays <= 0 disables the
// retention job.
func New(db *sql.DB, logger *slog.Logger, retentionDays int) *Scheduler {
	return &Scheduler{
		db:            db,
		cron:          cron.New(),
		events:        service.NewEventService(db),
		logger:        logger,
		retentionDays: retentionDays,
	}
}

// Start registers the maintenance jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if s.retentionDays > 0 {
		// Daily, shortly after midnight.
		_, err := s.cron.AddFunc("15 0 * * *", func() {
			if err := s.purgeOldEvents(); err != nil {
				s.logger.Error("failed to purge old events", "error", err)
			}
		})
		if err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// purgeOldEvents deletes audit events older than the retention window.
func (s *Scheduler) purgeOldEvents() error {
	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)

	deleted, err := s.events.PurgeBefore(context.Background(), cutoff)
	if err != nil {
		return err
	}
	if deleted > 0 {
		s.logger.Info("purged old events", "deleted", deleted, "cutoff", cutoff)
	}
	return nil
}
