// Copyright (c) 2026 IdealControl
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/idealcontrol/idealcontrol-go/internal/model"
)

// ListCompanies returns all companies in insertion order.
func (q *Queries) ListCompanies(ctx context.Context) ([]model.Company, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, name, logo_url FROM companies ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("listing companies: %w", err)
	}
	defer rows.Close()

	var companies []model.Company
	for rows.Next() {
		var c model.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.LogoURL); err != nil {
			return nil, fmt.Errorf("scanning company: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// GetCompanyByID returns the company with the given id, or ErrNotFound.
func (q *Queries) GetCompanyByID(ctx context.Context, id string) (model.Company, error) {
	var c model.Company
	err := q.db.QueryRowContext(ctx,
		`SELECT id, name, logo_url FROM companies WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.LogoURL)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Company{}, ErrNotFound
	}
	if err != nil {
		return model.Company{}, fmt.Errorf("getting company: %w", err)
	}
	return c, nil
}

// SaveCompany upserts a company by id: it inserts when the id is unseen and
// replaces in place (keeping the original list position) when it exists.
// An empty id is filled with a generated one.
func (q *Queries) SaveCompany(ctx context.Context, c model.Company) (model.Company, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return model.Company{}, NewValidationError("name", "must not be empty")
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	_, err := q.db.ExecContext(ctx,
		`INSERT INTO companies (id, name, logo_url) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, logo_url = excluded.logo_url`,
		c.ID, c.Name, c.LogoURL)
	if err != nil {
		return model.Company{}, fmt.Errorf("saving company: %w", err)
	}
	return c, nil
}

// DeleteCompany removes the company with the given id. Returns ErrNotFound
// if the id is absent. Users and meal records referencing the company are
// deliberately left untouched; consumers render the dangling reference as
// unknown.
func (q *Queries) DeleteCompany(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM companies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting company: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting company: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountCompanies returns the number of companies.
func (q *Queries) CountCompanies(ctx context.Context) (int64, error) {
	var n int64
	if err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM companies`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting companies: %w", err)
	}
	return n, nil
}
