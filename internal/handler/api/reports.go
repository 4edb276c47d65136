// Copyright (c) 2026 IdealControl
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/idealcontrol/idealcontrol-go/internal/middleware"
	"github.com/idealcontrol/idealcontrol-go/internal/model"
	"github.com/idealcontrol/idealcontrol-go/internal/report"
)

// reportParams parses the shared report query parameters. Returns false
// with the error response already written when the input is invalid.
func (h *Handler) reportParams(w http.ResponseWriter, r *http.Request) (report.Period, string, string, bool) {
	q := r.URL.Query()

	periodParam := q.Get("period")
	if periodParam == "" {
		periodParam = string(report.PeriodDaily)
	}
	period, err := report.ParsePeriod(periodParam)
	if err != nil {
		WriteValidationError(w, map[string]string{"period": "must be one of daily, weekly, monthly, yearly"})
		return "", "", "", false
	}

	referenceDate := q.Get("date")
	if referenceDate == "" {
		// The reporting screen defaults to today.
		referenceDate = time.Now().Format(report.ReferenceDateLayout)
	}
	companyID := q.Get("company")
	if companyID == "" {
		companyID = report.CompanyFilterAll
	}

	return period, referenceDate, companyID, true
}

// GetReport handles GET /api/v1/reports. Returns the window, matching
// records in registration order, and per-type stats as JSON.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	period, referenceDate, companyID, ok := h.reportParams(w, r)
	if !ok {
		return
	}

	rep, err := h.reports.Generate(r.Context(), period, referenceDate, companyID)
	if err != nil {
		writeStoreError(w, err, "Failed to generate report")
		return
	}

	WriteSuccess(w, rep, &Meta{Total: int64(rep.Stats.Total)})
}

// ExportReport handles GET /api/v1/reports/export. Streams the report as a
// CSV attachment.
func (h *Handler) ExportReport(w http.ResponseWriter, r *http.Request) {
	period, referenceDate, companyID, ok := h.reportParams(w, r)
	if !ok {
		return
	}

	rep, err := h.reports.Generate(r.Context(), period, referenceDate, companyID)
	if err != nil {
		writeStoreError(w, err, "Failed to generate report")
		return
	}

	_ = h.events.LogEvent(r.Context(), model.EventLevelInfo, model.EventCategorySystem,
		"Report exported", middleware.GetUserID(r), clientIP(r),
		map[string]any{"period": string(period), "company": companyID, "rows": rep.Stats.Total})

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+rep.CSVFilename()+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(rep.CSV()))
}
