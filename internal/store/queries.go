// Copyright (c) 2026 IdealControl
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store implements the persistence layer for companies, users, meal
// records, and audit events on top of SQLite. Collections keep their
// insertion order: listings are ordered by rowid, and upserts update in
// place so a replaced record keeps its original position.
package store

import "database/sql"

// Queries provides access to all store operations.
type Queries struct {
	db *sql.DB
}

// New creates a Queries instance bound to db.
func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}
