// Copyright (c) 2026 IdealControl
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/idealcontrol/idealcontrol-go/internal/model"
)

// ListMeals returns all meal records in insertion order.
func (q *Queries) ListMeals(ctx context.Context) ([]model.MealRecord, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, user_id, company_id, user_name, company_name, type, date
		 FROM meal_records ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("listing meals: %w", err)
	}
	defer rows.Close()

	var meals []model.MealRecord
	for rows.Next() {
		var m model.MealRecord
		if err := rows.Scan(&m.ID, &m.UserID, &m.CompanyID, &m.UserName, &m.CompanyName, &m.Type, &m.Date); err != nil {
			return nil, fmt.Errorf("scanning meal record: %w", err)
		}
		meals = append(meals, m)
	}
	return meals, rows.Err()
}

// AddMeal appends a meal record. Records are immutable: there is no update
// or delete. The record must name a resolvable identity (a user id plus the
// name snapshots) and a recognized meal type; a zero date is stamped with
// the current time.
func (q *Queries) AddMeal(ctx context.Context, m model.MealRecord) (model.MealRecord, error) {
	if !model.IsValidMealType(m.Type) {
		return model.MealRecord{}, NewValidationError("type", fmt.Sprintf("unrecognized meal type %q", m.Type))
	}
	if strings.TrimSpace(m.UserID) == "" {
		return model.MealRecord{}, NewValidationError("user_id", "must not be empty")
	}
	if strings.TrimSpace(m.UserName) == "" {
		return model.MealRecord{}, NewValidationError("user_name", "must not be empty")
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Date.IsZero() {
		m.Date = time.Now()
	}

	_, err := q.db.ExecContext(ctx,
		`INSERT INTO meal_records (id, user_id, company_id, user_name, company_name, type, date)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.UserID, m.CompanyID, m.UserName, m.CompanyName, m.Type, m.Date)
	if err != nil {
		return model.MealRecord{}, fmt.Errorf("adding meal record: %w", err)
	}
	return m, nil
}

// CountMeals returns the number of meal records.
func (q *Queries) CountMeals(ctx context.Context) (int64, error) {
	var n int64
	if err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM meal_records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting meal records: %w", err)
	}
	return n, nil
}
