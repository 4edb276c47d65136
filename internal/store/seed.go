package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/idealcontrol/idealcontrol-go/internal/model"
)

// Default admin credentials
const (
	DefaultAdminName = "Admin"
)

// Seed creates the bootstrap admin account if no admin exists yet.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)

	admins, err := queries.queryUsers(ctx,
		`SELECT id, name, company_id, role, password_hash FROM users WHERE role = ?`,
		model.RoleAdmin)
	if err != nil {
		return fmt.Errorf("checking for admin user: %w", err)
	}
	if len(admins) > 0 {
		slog.Info("admin user already exists, skipping seed")
		return nil
	}

	user, err := queries.SaveUser(ctx, model.User{
		Name: DefaultAdminName,
		Role: model.RoleAdmin,
	}, DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created default admin user",
		"id", user.ID,
		"name", user.Name,
		"password", DefaultAdminPassword,
	)

	return nil
}

// SeedDemo populates demo companies and users for local development. It is
// a no-op when any company already exists.
func SeedDemo(ctx context.Context, db *sql.DB) error {
	queries := New(db)

	n, err := queries.CountCompanies(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		slog.Info("companies already exist, skipping demo seed")
		return nil
	}

	companies := []model.Company{
		{Name: "Ideal Software"},
		{Name: "Construtora Horizonte"},
		{Name: "Transportes Rapido"},
	}
	var saved []model.Company
	for _, c := range companies {
		created, err := queries.SaveCompany(ctx, c)
		if err != nil {
			return fmt.Errorf("seeding company %q: %w", c.Name, err)
		}
		saved = append(saved, created)
	}

	users := []model.User{
		{Name: "Maria Silva", CompanyID: saved[0].ID, Role: model.RoleUser},
		{Name: "Joao Souza", CompanyID: saved[1].ID, Role: model.RoleUser},
		{Name: "Ana Costa", CompanyID: saved[2].ID, Role: model.RoleUser},
	}
	for _, u := range users {
		if _, err := queries.SaveUser(ctx, u, ""); err != nil {
			return fmt.Errorf("seeding user %q: %w", u.Name, err)
		}
	}

	slog.Info("seeded demo data", "companies", len(companies), "users", len(users))
	return nil
}
