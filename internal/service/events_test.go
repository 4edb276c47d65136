// Copyright (c) 2026 IdealControl
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/idealcontrol/idealcontrol-go/internal/model"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
		CREATE TABLE events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level TEXT NOT NULL DEFAULT 'info',
			category TEXT NOT NULL DEFAULT 'system',
			message TEXT NOT NULL,
			user_id TEXT,
			metadata TEXT NOT NULL DEFAULT '{}',
			ip_address TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	return db
}

func TestLogEvent(t *testing.T) {
	svc := NewEventService(testDB(t))
	ctx := context.Background()

	err := svc.LogAuthEvent(ctx, model.EventLevelInfo, "User logged in", "u1", "127.0.0.1",
		map[string]any{"username": "Admin"})
	if err != nil {
		t.Fatalf("LogAuthEvent error: %v", err)
	}

	events, err := svc.ListEvents(ctx, 10, 0)
	if err != nil {
		t.Fatalf("ListEvents error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}

	e := events[0]
	if e.Category != model.EventCategoryAuth {
		t.Errorf("Category = %q, want %q", e.Category, model.EventCategoryAuth)
	}
	if !e.UserID.Valid || e.UserID.String != "u1" {
		t.Errorf("UserID = %+v, want u1", e.UserID)
	}
	if !strings.Contains(e.Metadata, `"username":"Admin"`) {
		t.Errorf("Metadata = %q, want username field", e.Metadata)
	}
}

func TestLogEvent_AnonymousUser(t *testing.T) {
	svc := NewEventService(testDB(t))
	ctx := context.Background()

	if err := svc.LogAuthEvent(ctx, model.EventLevelWarning, "Login failed", "", "127.0.0.1", nil); err != nil {
		t.Fatalf("LogAuthEvent error: %v", err)
	}

	events, err := svc.ListEvents(ctx, 10, 0)
	if err != nil {
		t.Fatalf("ListEvents error: %v", err)
	}
	if events[0].UserID.Valid {
		t.Errorf("UserID should be null for anonymous events, got %+v", events[0].UserID)
	}
	if events[0].Metadata != "{}" {
		t.Errorf("Metadata = %q, want empty object", events[0].Metadata)
	}
}

func TestPurgeBefore(t *testing.T) {
	db := testDB(t)
	svc := NewEventService(db)
	ctx := context.Background()

	if err := svc.LogEvent(ctx, model.EventLevelInfo, model.EventCategorySystem, "recent", "", "", nil); err != nil {
		t.Fatalf("LogEvent error: %v", err)
	}
	// Backdate one event past the cutoff.
	if _, err := db.Exec(`
		INSERT INTO events (level, category, message, metadata, created_at)
		VALUES ('info', 'system', 'ancient', '{}', ?)`,
		time.Now().Add(-30*24*time.Hour)); err != nil {
		t.Fatalf("backdating event: %v", err)
	}

	purged, err := svc.PurgeBefore(ctx, time.Now().Add(-7*24*time.Hour))
	if err != nil {
		t.Fatalf("PurgeBefore error: %v", err)
	}
	if purged != 1 {
		t.Errorf("purged = %d, want 1", purged)
	}
}
