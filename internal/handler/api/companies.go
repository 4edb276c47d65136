// Copyright (c) 2026 IdealControl
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/idealcontrol/idealcontrol-go/internal/middleware"
	"github.com/idealcontrol/idealcontrol-go/internal/model"
)

// CompanyAPIResponse represents a company in API responses.
type CompanyAPIResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	LogoURL string `json:"logo_url,omitempty"`
}

// SaveCompanyRequest is the request body for creating or updating a
// company. A present ID updates the existing company in place; an absent
// ID creates a new one.
type SaveCompanyRequest struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	LogoURL string `json:"logo_url,omitempty"`
}

func companyResponse(c model.Company) CompanyAPIResponse {
	return CompanyAPIResponse{ID: c.ID, Name: c.Name, LogoURL: c.LogoURL}
}

// ListCompanies handles GET /api/v1/companies. Companies are returned in
// insertion order; updates never reorder.
func (h *Handler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.queries.ListCompanies(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list companies")
		return
	}

	responses := make([]CompanyAPIResponse, 0, len(companies))
	for _, c := range companies {
		responses = append(responses, companyResponse(c))
	}

	WriteSuccess(w, responses, &Meta{Total: int64(len(responses))})
}

// SaveCompany handles POST /api/v1/companies (create or update by id).
func (h *Handler) SaveCompany(w http.ResponseWriter, r *http.Request) {
	var req SaveCompanyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created := req.ID == ""
	saved, err := h.queries.SaveCompany(r.Context(), model.Company{
		ID:      req.ID,
		Name:    req.Name,
		LogoURL: req.LogoURL,
	})
	if err != nil {
		writeStoreError(w, err, "Failed to save company")
		return
	}

	action := "Company updated"
	if created {
		action = "Company created"
	}
	_ = h.events.LogCompanyEvent(r.Context(), model.EventLevelInfo, action,
		middleware.GetUserID(r), clientIP(r),
		map[string]any{"company_id": saved.ID, "name": saved.Name})

	if created {
		WriteCreated(w, companyResponse(saved))
		return
	}
	WriteSuccess(w, companyResponse(saved), nil)
}

// DeleteCompany handles DELETE /api/v1/companies/{id}. Meal records keep
// their denormalized company name; users keep their company_id even when
// it dangles.
func (h *Handler) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.queries.DeleteCompany(r.Context(), id); err != nil {
		writeStoreError(w, err, "Failed to delete company")
		return
	}

	_ = h.events.LogCompanyEvent(r.Context(), model.EventLevelInfo, "Company deleted",
		middleware.GetUserID(r), clientIP(r), map[string]any{"company_id": id})

	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}
