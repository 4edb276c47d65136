// Copyright (c) 2026 IdealControl
// SPDX-License-Identifier: GPL-3.0-or-later

package report

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/idealcontrol/idealcontrol-go/internal/model"
	"github.com/idealcontrol/idealcontrol-go/internal/store"
)

// testDB creates an in-memory SQLite database with the meal_records schema.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	// _loc=auto keeps scanned timestamps in local time so formatted report
	// rows match what was stored.
	db, err := sql.Open("sqlite3", ":memory:?_loc=auto")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	schema := `
		CREATE TABLE meal_records (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			company_id TEXT NOT NULL,
			user_name TEXT NOT NULL,
			company_name TEXT NOT NULL,
			type TEXT NOT NULL,
			date DATETIME NOT NULL
		);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	return db
}

func addMeal(t *testing.T, db *sql.DB, userName, companyID, companyName, mealType string, date time.Time) {
	t.Helper()
	if _, err := store.New(db).AddMeal(context.Background(), model.MealRecord{
		UserID:      "u-" + userName,
		CompanyID:   companyID,
		UserName:    userName,
		CompanyName: companyName,
		Type:        mealType,
		Date:        date,
	}); err != nil {
		t.Fatalf("AddMeal(%s): %v", userName, err)
	}
}

func date(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02T15:04:05", value, time.Local)
	if err != nil {
		t.Fatalf("bad test date %q: %v", value, err)
	}
	return d
}

func TestWindow_Daily(t *testing.T) {
	ref := date(t, "2024-03-15T13:45:00")
	start, end := Window(PeriodDaily, ref)

	if got, want := start, date(t, "2024-03-15T00:00:00"); !got.Equal(want) {
		t.Errorf("start = %v, want %v", got, want)
	}
	if !end.Before(date(t, "2024-03-16T00:00:00")) {
		t.Errorf("end = %v, should be before next midnight", end)
	}
	if end.Before(date(t, "2024-03-15T23:59:59")) {
		t.Errorf("end = %v, should include the whole day", end)
	}
}

func TestWindow_Weekly_StartsSunday(t *testing.T) {
	// 2024-03-15 is a Friday; its week is Sun 2024-03-10 .. Sat 2024-03-16.
	ref := date(t, "2024-03-15T00:00:00")
	start, end := Window(PeriodWeekly, ref)

	if got, want := start, date(t, "2024-03-10T00:00:00"); !got.Equal(want) {
		t.Errorf("start = %v, want %v", got, want)
	}
	if start.Weekday() != time.Sunday {
		t.Errorf("start weekday = %v, want Sunday", start.Weekday())
	}
	if end.Before(date(t, "2024-03-16T23:59:59")) || !end.Before(date(t, "2024-03-17T00:00:00")) {
		t.Errorf("end = %v, want the last instant of Saturday 2024-03-16", end)
	}
}

func TestWindow_Monthly(t *testing.T) {
	start, end := Window(PeriodMonthly, date(t, "2024-02-15T12:00:00"))

	if got, want := start, date(t, "2024-02-01T00:00:00"); !got.Equal(want) {
		t.Errorf("start = %v, want %v", got, want)
	}
	// 2024 is a leap year
	if end.Before(date(t, "2024-02-29T23:59:59")) || !end.Before(date(t, "2024-03-01T00:00:00")) {
		t.Errorf("end = %v, want the last instant of 2024-02-29", end)
	}
}

func TestWindow_Yearly(t *testing.T) {
	start, end := Window(PeriodYearly, date(t, "2024-07-04T08:00:00"))

	if got, want := start, date(t, "2024-01-01T00:00:00"); !got.Equal(want) {
		t.Errorf("start = %v, want %v", got, want)
	}
	if end.Before(date(t, "2024-12-31T23:59:59")) || !end.Before(date(t, "2025-01-01T00:00:00")) {
		t.Errorf("end = %v, want the last instant of 2024-12-31", end)
	}
}

func TestParsePeriod(t *testing.T) {
	for _, valid := range []string{"daily", "weekly", "monthly", "yearly"} {
		if _, err := ParsePeriod(valid); err != nil {
			t.Errorf("ParsePeriod(%q) error: %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "hourly", "Daily", "WEEKLY"} {
		if _, err := ParsePeriod(invalid); !store.IsValidation(err) {
			t.Errorf("ParsePeriod(%q) should return a validation error, got %v", invalid, err)
		}
	}
}

func TestGenerate_WeeklyBoundaries(t *testing.T) {
	db := testDB(t)
	engine := NewEngine(db)

	// Inside the window, at its very first instant.
	addMeal(t, db, "Maria", "c1", "Ideal", model.MealLunch, date(t, "2024-03-10T00:00:00"))
	// One second before the window opens.
	addMeal(t, db, "Joao", "c1", "Ideal", model.MealLunch, date(t, "2024-03-09T23:59:59"))
	// Last day of the window.
	addMeal(t, db, "Ana", "c1", "Ideal", model.MealDinner, date(t, "2024-03-16T21:30:00"))

	r, err := engine.Generate(context.Background(), PeriodWeekly, "2024-03-15", CompanyFilterAll)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	if len(r.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(r.Records))
	}
	if r.Records[0].UserName != "Maria" || r.Records[1].UserName != "Ana" {
		t.Errorf("records out of order: %s, %s", r.Records[0].UserName, r.Records[1].UserName)
	}
}

func TestGenerate_CompanyFilter(t *testing.T) {
	db := testDB(t)
	engine := NewEngine(db)

	addMeal(t, db, "Maria", "c1", "Ideal", model.MealBreakfast, date(t, "2024-03-15T08:00:00"))
	// Company c2 no longer exists in the company collection; its records must
	// still be filterable by id.
	addMeal(t, db, "Joao", "c2", "Horizonte", model.MealLunch, date(t, "2024-03-15T12:00:00"))

	r, err := engine.Generate(context.Background(), PeriodDaily, "2024-03-15", "c2")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if len(r.Records) != 1 || r.Records[0].CompanyID != "c2" {
		t.Fatalf("company filter failed: %+v", r.Records)
	}

	all, err := engine.Generate(context.Background(), PeriodDaily, "2024-03-15", CompanyFilterAll)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if len(all.Records) != 2 {
		t.Fatalf("got %d records for all companies, want 2", len(all.Records))
	}
}

func TestGenerate_Stats(t *testing.T) {
	db := testDB(t)
	engine := NewEngine(db)

	addMeal(t, db, "Maria", "c1", "Ideal", model.MealBreakfast, date(t, "2024-03-15T07:00:00"))
	addMeal(t, db, "Joao", "c1", "Ideal", model.MealLunch, date(t, "2024-03-15T12:00:00"))
	addMeal(t, db, "Ana", "c1", "Ideal", model.MealLunch, date(t, "2024-03-15T12:30:00"))
	addMeal(t, db, "Rui", "c1", "Ideal", model.MealDinner, date(t, "2024-03-15T19:00:00"))

	r, err := engine.Generate(context.Background(), PeriodDaily, "2024-03-15", CompanyFilterAll)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	want := Stats{Total: 4, Breakfast: 1, Lunch: 2, Dinner: 1}
	if r.Stats != want {
		t.Errorf("stats = %+v, want %+v", r.Stats, want)
	}
	if r.Stats.Total != r.Stats.Breakfast+r.Stats.Lunch+r.Stats.Dinner {
		t.Error("stats partition does not sum to total")
	}
}

func TestGenerate_EmptySet(t *testing.T) {
	db := testDB(t)
	engine := NewEngine(db)

	r, err := engine.Generate(context.Background(), PeriodDaily, "2024-03-15", CompanyFilterAll)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	if r.Stats != (Stats{}) {
		t.Errorf("stats = %+v, want zeroes", r.Stats)
	}
	if got, want := r.CSV(), csvHeader+"\n"; got != want {
		t.Errorf("CSV() = %q, want header only", got)
	}
}

func TestGenerate_InvalidReferenceDate(t *testing.T) {
	db := testDB(t)
	engine := NewEngine(db)

	for _, bad := range []string{"", "15/03/2024", "2024-13-01", "yesterday"} {
		if _, err := engine.Generate(context.Background(), PeriodDaily, bad, CompanyFilterAll); !store.IsValidation(err) {
			t.Errorf("Generate(%q) should return a validation error, got %v", bad, err)
		}
	}
}

func TestCSV_QuotesNames(t *testing.T) {
	db := testDB(t)
	engine := NewEngine(db)

	addMeal(t, db, "Silva, Maria", "c1", "Ideal \"Control\"", model.MealLunch, date(t, "2024-03-15T12:05:00"))

	r, err := engine.Generate(context.Background(), PeriodDaily, "2024-03-15", CompanyFilterAll)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	csv := r.CSV()
	lines := strings.Split(strings.TrimRight(csv, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), csv)
	}
	if lines[0] != "Data,Usuário,Empresa,Tipo de Refeição" {
		t.Errorf("header = %q", lines[0])
	}
	want := `15/03/2024 12:05,"Silva, Maria","Ideal ""Control""",LUNCH`
	if lines[1] != want {
		t.Errorf("row = %q, want %q", lines[1], want)
	}
}

func TestCSVFilename(t *testing.T) {
	r := &Report{ReferenceDate: "2024-03-15"}
	if got, want := r.CSVFilename(), "relatorio_idealcontrol_2024-03-15.csv"; got != want {
		t.Errorf("CSVFilename() = %q, want %q", got, want)
	}
}
