// Copyright (c) 2026 IdealControl
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	_ "github.com/mattn/go-sqlite3"

	"github.com/idealcontrol/idealcontrol-go/internal/middleware"
	"github.com/idealcontrol/idealcontrol-go/internal/model"
	"github.com/idealcontrol/idealcontrol-go/internal/store"
)

// testDB creates an in-memory SQLite database with the required schema.
// _loc=auto keeps scanned DATETIME values in local time, matching the
// production driver's behavior.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:?_loc=auto")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	schema := `
		CREATE TABLE companies (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			logo_url TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			company_id TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT 'USER',
			password_hash TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE meal_records (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			company_id TEXT NOT NULL,
			user_name TEXT NOT NULL,
			company_name TEXT NOT NULL,
			type TEXT NOT NULL,
			date DATETIME NOT NULL
		);

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

		CREATE TABLE sessions (
			token TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			expiry REAL NOT NULL
		);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create test schema: %v", err)
	}

	return db
}

// testSetup creates a test database and API handler.
func testSetup(t *testing.T) (*sql.DB, *Handler, *scs.SessionManager) {
	t.Helper()

	db := testDB(t)
	sm := scs.New()
	lp := middleware.NewLoginProtection(middleware.LoginProtectionConfig{
		IPRateLimit:       1000,
		IPBurst:           1000,
		MaxFailedAttempts: 100,
		LockoutDuration:   time.Minute,
		AttemptWindow:     time.Minute,
	})
	return db, NewHandler(db, sm, lp), sm
}

// createTestCompany saves a company through the store.
func createTestCompany(t *testing.T, db *sql.DB, name string) model.Company {
	t.Helper()
	c, err := store.New(db).SaveCompany(context.Background(), model.Company{Name: name})
	if err != nil {
		t.Fatalf("failed to create test company: %v", err)
	}
	return c
}

// createTestUser saves a user through the store. password only matters for
// ADMIN users.
func createTestUser(t *testing.T, db *sql.DB, name, companyID, role, password string) model.User {
	t.Helper()
	u, err := store.New(db).SaveUser(context.Background(), model.User{
		Name:      name,
		CompanyID: companyID,
		Role:      role,
	}, password)
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// requestWithURLParams adds chi URL parameters to a request.
func requestWithURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// newJSONRequest creates an HTTP request with a JSON body and optional URL
// params.
func newJSONRequest(t *testing.T, method, path, body string, params map[string]string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if len(params) > 0 {
		req = requestWithURLParams(req, params)
	}
	return req
}

// asAdmin puts an admin user into the request context, as LoadUser would.
func asAdmin(r *http.Request, u model.User) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.ContextKeyUser, u)
	return r.WithContext(ctx)
}

// serveWithSession runs handlerFn wrapped in the session middleware so
// session operations have loaded state.
func serveWithSession(sm *scs.SessionManager, handlerFn http.HandlerFunc, w http.ResponseWriter, r *http.Request) {
	sm.LoadAndSave(handlerFn).ServeHTTP(w, r)
}

// decodeData decodes the `data` field of a standard API response into dst.
func decodeData(t *testing.T, body *httptest.ResponseRecorder, dst any) {
	t.Helper()
	var resp struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(body.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if err := json.Unmarshal(resp.Data, dst); err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}
}

// decodeError decodes a standard API error response.
func decodeError(t *testing.T, body *httptest.ResponseRecorder) ErrorDetail {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(body.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp.Error
}
