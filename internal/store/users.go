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

	"github.com/idealcontrol/idealcontrol-go/internal/auth"
	"github.com/idealcontrol/idealcontrol-go/internal/model"
)

// DefaultAdminPassword is the bootstrap credential assigned when a user is
// promoted to ADMIN without an explicit password. Kept for compatibility
// with the original deployment; a real credential-issuance step should
// replace it.
const DefaultAdminPassword = "admin"

// ListUsers returns all users in insertion order.
func (q *Queries) ListUsers(ctx context.Context) ([]model.User, error) {
	return q.queryUsers(ctx,
		`SELECT id, name, company_id, role, password_hash FROM users ORDER BY rowid`)
}

// SearchUsersByName returns users whose name contains the query,
// case-insensitively, in insertion order. An empty query matches everyone.
func (q *Queries) SearchUsersByName(ctx context.Context, query string) ([]model.User, error) {
	pattern := "%" + escapeLike(strings.TrimSpace(query)) + "%"
	return q.queryUsers(ctx,
		`SELECT id, name, company_id, role, password_hash FROM users
		 WHERE name LIKE ? ESCAPE '\' ORDER BY rowid`, pattern)
}

func (q *Queries) queryUsers(ctx context.Context, query string, args ...any) ([]model.User, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.CompanyID, &u.Role, &u.PasswordHash); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// escapeLike escapes LIKE wildcards in user-supplied search input.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	return strings.ReplaceAll(s, `_`, `\_`)
}

// GetUserByID returns the user with the given id, or ErrNotFound.
func (q *Queries) GetUserByID(ctx context.Context, id string) (model.User, error) {
	var u model.User
	err := q.db.QueryRowContext(ctx,
		`SELECT id, name, company_id, role, password_hash FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Name, &u.CompanyID, &u.Role, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// SaveUser upserts a user by id with the same position-preserving semantics
// as SaveCompany, and enforces the credential invariant at the store
// boundary: an ADMIN always carries a password hash (the supplied password,
// the previously stored hash, or the bootstrap default) and a non-admin
// never does. The caller's hash field is ignored.
func (q *Queries) SaveUser(ctx context.Context, u model.User, password string) (model.User, error) {
	u.Name = strings.TrimSpace(u.Name)
	if u.Name == "" {
		return model.User{}, NewValidationError("name", "must not be empty")
	}
	if u.Role == "" {
		u.Role = model.RoleUser
	}
	if !model.IsValidRole(u.Role) {
		return model.User{}, NewValidationError("role", fmt.Sprintf("unrecognized role %q", u.Role))
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	u.PasswordHash = ""
	if u.Role == model.RoleAdmin {
		switch {
		case password != "":
			hash, err := auth.HashPassword(password)
			if err != nil {
				return model.User{}, fmt.Errorf("hashing password: %w", err)
			}
			u.PasswordHash = hash
		default:
			// Promotion without a password keeps the existing credential,
			// falling back to the bootstrap default for new admins.
			existing, err := q.GetUserByID(ctx, u.ID)
			if err == nil && existing.PasswordHash != "" {
				u.PasswordHash = existing.PasswordHash
			} else {
				hash, err := auth.HashPassword(DefaultAdminPassword)
				if err != nil {
					return model.User{}, fmt.Errorf("hashing password: %w", err)
				}
				u.PasswordHash = hash
			}
		}
	}

	_, err := q.db.ExecContext(ctx,
		`INSERT INTO users (id, name, company_id, role, password_hash) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			company_id = excluded.company_id,
			role = excluded.role,
			password_hash = excluded.password_hash`,
		u.ID, u.Name, u.CompanyID, u.Role, u.PasswordHash)
	if err != nil {
		return model.User{}, fmt.Errorf("saving user: %w", err)
	}
	return u, nil
}

// DeleteUser removes the user with the given id. Returns ErrNotFound if the
// id is absent. Meal records registered by the user keep their denormalized
// name snapshots.
func (q *Queries) DeleteUser(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountUsers returns the number of users.
func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return n, nil
}

// Authenticate returns the ADMIN user matching the credential pair, or nil
// when there is no match. Unknown name, wrong password, and non-admin user
// are indistinguishable in the return value so the caller cannot leak which
// part failed.
func (q *Queries) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	candidates, err := q.queryUsers(ctx,
		`SELECT id, name, company_id, role, password_hash FROM users
		 WHERE name = ? AND role = ? ORDER BY rowid`,
		username, model.RoleAdmin)
	if err != nil {
		return nil, err
	}

	for _, u := range candidates {
		if u.PasswordHash == "" {
			continue
		}
		ok, err := auth.CheckPassword(password, u.PasswordHash)
		if err != nil {
			return nil, fmt.Errorf("checking password: %w", err)
		}
		if ok {
			user := u
			return &user, nil
		}
	}
	return nil, nil
}
