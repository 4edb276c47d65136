// Copyright (c) 2026 IdealControl
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/idealcontrol/idealcontrol-go/internal/model"
	"github.com/idealcontrol/idealcontrol-go/internal/report"
)

// SummaryResponse is the admin dashboard payload: today's registrations
// partitioned by meal type plus the collection sizes.
type SummaryResponse struct {
	Today     report.Stats `json:"today"`
	Companies int64        `json:"companies"`
	Users     int64        `json:"users"`
	Meals     int64        `json:"meals"`
}

// Summary handles GET /api/v1/admin/summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	today := time.Now().Format(report.ReferenceDateLayout)
	rep, err := h.reports.Generate(ctx, report.PeriodDaily, today, report.CompanyFilterAll)
	if err != nil {
		WriteInternalError(w, "Failed to compute summary")
		return
	}

	companies, err := h.queries.CountCompanies(ctx)
	if err != nil {
		WriteInternalError(w, "Failed to compute summary")
		return
	}
	users, err := h.queries.CountUsers(ctx)
	if err != nil {
		WriteInternalError(w, "Failed to compute summary")
		return
	}
	meals, err := h.queries.CountMeals(ctx)
	if err != nil {
		WriteInternalError(w, "Failed to compute summary")
		return
	}

	WriteSuccess(w, SummaryResponse{
		Today:     rep.Stats,
		Companies: companies,
		Users:     users,
		Meals:     meals,
	}, nil)
}

// EventAPIResponse represents an audit event in API responses.
type EventAPIResponse struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	UserID    string    `json:"user_id,omitempty"`
	Metadata  string    `json:"metadata,omitempty"`
	IPAddress string    `json:"ip_address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func eventResponse(e model.Event) EventAPIResponse {
	resp := EventAPIResponse{
		ID:        e.ID,
		Level:     e.Level,
		Category:  e.Category,
		Message:   e.Message,
		Metadata:  e.Metadata,
		IPAddress: e.IPAddress,
		CreatedAt: e.CreatedAt,
	}
	if e.UserID.Valid {
		resp.UserID = e.UserID.String
	}
	return resp
}

// ListEvents handles GET /api/v1/admin/events. Events come back newest
// first; ?limit= and ?offset= page through them.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := int64(50)
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 1 || n > 500 {
			WriteBadRequest(w, "limit must be between 1 and 500", nil)
			return
		}
		limit = n
	}
	var offset int64
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			WriteBadRequest(w, "offset must be non-negative", nil)
			return
		}
		offset = n
	}

	events, err := h.events.ListEvents(ctx, limit, offset)
	if err != nil {
		WriteInternalError(w, "Failed to list events")
		return
	}
	total, err := h.queries.CountEvents(ctx)
	if err != nil {
		WriteInternalError(w, "Failed to count events")
		return
	}

	responses := make([]EventAPIResponse, 0, len(events))
	for _, e := range events {
		responses = append(responses, eventResponse(e))
	}

	WriteSuccess(w, responses, &Meta{Total: total})
}
