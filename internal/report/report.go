// Copyright (c) 2026 IdealControl
// SPDX-License-Identifier: GPL-3.0-or-later

// Package report implements the attendance reporting engine: it derives an
// inclusive date window from a period selector and a reference date,
// filters meal records by window and company, and computes summary counts
// and the CSV export.
package report

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/idealcontrol/idealcontrol-go/internal/model"
	"github.com/idealcontrol/idealcontrol-go/internal/store"
)

// Period selects the granularity of the report window.
type Period string

// Recognized report periods.
const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// CompanyFilterAll matches records from every company.
const CompanyFilterAll = "all"

// ReferenceDateLayout is the expected format of report reference dates.
const ReferenceDateLayout = "2006-01-02"

// csvDateLayout renders record timestamps in report rows.
const csvDateLayout = "02/01/2006 15:04"

// csvHeader is the fixed CSV header row.
const csvHeader = "Data,Usuário,Empresa,Tipo de Refeição"

// ParsePeriod validates a period token.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return Period(s), nil
	}
	return "", store.NewValidationError("period", fmt.Sprintf("unrecognized period %q", s))
}

// Stats summarizes a filtered record set partitioned by meal type.
type Stats struct {
	Total     int `json:"total"`
	Breakfast int `json:"breakfast"`
	Lunch     int `json:"lunch"`
	Dinner    int `json:"dinner"`
}

// Report is the result of a report run: the inclusive window, the matching
// records in their original insertion order, and the summary stats.
type Report struct {
	Period        Period             `json:"period"`
	ReferenceDate string             `json:"reference_date"`
	CompanyID     string             `json:"company_id"`
	Start         time.Time          `json:"start"`
	End           time.Time          `json:"end"`
	Records       []model.MealRecord `json:"records"`
	Stats         Stats              `json:"stats"`
}

// Engine computes reports over the record store. Generate is pure with
// respect to its inputs and the store's current contents.
type Engine struct {
	queries *store.Queries
}

// NewEngine creates an Engine bound to db.
func NewEngine(db *sql.DB) *Engine {
	return &Engine{queries: store.New(db)}
}

// Window returns the inclusive [start, end] range containing ref for the
// given period. Weeks start on Sunday.
func Window(period Period, ref time.Time) (start, end time.Time) {
	loc := ref.Location()
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, loc)

	switch period {
	case PeriodWeekly:
		start = day.AddDate(0, 0, -int(day.Weekday()))
		end = start.AddDate(0, 0, 7).Add(-time.Nanosecond)
	case PeriodMonthly:
		start = time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	case PeriodYearly:
		start = time.Date(ref.Year(), time.January, 1, 0, 0, 0, 0, loc)
		end = start.AddDate(1, 0, 0).Add(-time.Nanosecond)
	default: // daily
		start = day
		end = start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return start, end
}

// Generate runs a report for the given period, reference date
// (yyyy-MM-dd), and company filter (a company id or "all"). An unparseable
// reference date is a validation error, never silently coerced.
func (e *Engine) Generate(ctx context.Context, period Period, referenceDate, companyID string) (*Report, error) {
	if _, err := ParsePeriod(string(period)); err != nil {
		return nil, err
	}
	ref, err := time.ParseInLocation(ReferenceDateLayout, referenceDate, time.Local)
	if err != nil {
		return nil, store.NewValidationError("reference_date",
			fmt.Sprintf("invalid date %q, expected yyyy-MM-dd", referenceDate))
	}
	if companyID == "" {
		companyID = CompanyFilterAll
	}

	start, end := Window(period, ref)

	meals, err := e.queries.ListMeals(ctx)
	if err != nil {
		return nil, err
	}

	r := &Report{
		Period:        period,
		ReferenceDate: referenceDate,
		CompanyID:     companyID,
		Start:         start,
		End:           end,
		Records:       []model.MealRecord{},
	}
	for _, m := range meals {
		if m.Date.Before(start) || m.Date.After(end) {
			continue
		}
		if companyID != CompanyFilterAll && m.CompanyID != companyID {
			continue
		}
		r.Records = append(r.Records, m)
		r.Stats.Total++
		switch m.Type {
		case model.MealBreakfast:
			r.Stats.Breakfast++
		case model.MealLunch:
			r.Stats.Lunch++
		case model.MealDinner:
			r.Stats.Dinner++
		}
	}
	return r, nil
}

// CSV renders the report as CSV: the fixed header plus one row per record
// in insertion order. Name fields are always quoted so embedded separators
// survive; embedded quotes are doubled.
func (r *Report) CSV() string {
	var b strings.Builder
	b.WriteString(csvHeader)
	b.WriteString("\n")
	for _, m := range r.Records {
		b.WriteString(m.Date.Format(csvDateLayout))
		b.WriteString(",")
		b.WriteString(quoteCSV(m.UserName))
		b.WriteString(",")
		b.WriteString(quoteCSV(m.CompanyName))
		b.WriteString(",")
		b.WriteString(m.Type)
		b.WriteString("\n")
	}
	return b.String()
}

// CSVFilename returns the export artifact name for the report.
func (r *Report) CSVFilename() string {
	return fmt.Sprintf("relatorio_idealcontrol_%s.csv", r.ReferenceDate)
}

// quoteCSV wraps v in double quotes, doubling any embedded quotes.
func quoteCSV(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}
