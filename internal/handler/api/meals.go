// Copyright (c) 2026 IdealControl
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/idealcontrol/idealcontrol-go/internal/middleware"
	"github.com/idealcontrol/idealcontrol-go/internal/model"
	"github.com/idealcontrol/idealcontrol-go/internal/store"
)

// MealAPIResponse represents a meal record in API responses. Names are the
// snapshot taken at registration time, not the current user/company names.
type MealAPIResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	CompanyID   string    `json:"company_id"`
	UserName    string    `json:"user_name"`
	CompanyName string    `json:"company_name"`
	Type        string    `json:"type"`
	Date        time.Time `json:"date"`
}

// RegisterMealRequest is the request body for POST /api/v1/meals. Either
// UserID names a registered user, or Outsourced requests an ad-hoc visitor
// registration with an optional display name.
type RegisterMealRequest struct {
	UserID     string `json:"user_id,omitempty"`
	Outsourced bool   `json:"outsourced,omitempty"`
	Name       string `json:"name,omitempty"`
	Type       string `json:"type"`
}

func mealResponse(m model.MealRecord) MealAPIResponse {
	return MealAPIResponse{
		ID:          m.ID,
		UserID:      m.UserID,
		CompanyID:   m.CompanyID,
		UserName:    m.UserName,
		CompanyName: m.CompanyName,
		Type:        m.Type,
		Date:        m.Date,
	}
}

// ListMeals handles GET /api/v1/meals. Records come back in registration
// order, oldest first.
func (h *Handler) ListMeals(w http.ResponseWriter, r *http.Request) {
	meals, err := h.queries.ListMeals(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list meals")
		return
	}

	responses := make([]MealAPIResponse, 0, len(meals))
	for _, m := range meals {
		responses = append(responses, mealResponse(m))
	}

	WriteSuccess(w, responses, &Meta{Total: int64(len(responses))})
}

// RegisterMeal handles POST /api/v1/meals. The user and company names are
// denormalized into the record server-side so later edits or deletions
// never rewrite history.
func (h *Handler) RegisterMeal(w http.ResponseWriter, r *http.Request) {
	var req RegisterMealRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	record := model.MealRecord{Type: req.Type}

	switch {
	case req.Outsourced:
		name := strings.TrimSpace(req.Name)
		if name == "" {
			name = model.OutsourcedName
		}
		record.UserID = model.OutsourcedUserPrefix + uuid.NewString()
		record.CompanyID = model.OutsourcedCompanyID
		record.UserName = name
		record.CompanyName = model.OutsourcedName

	case req.UserID != "":
		user, err := h.queries.GetUserByID(r.Context(), req.UserID)
		if err != nil {
			if store.IsNotFound(err) {
				WriteNotFound(w, "User not found")
			} else {
				WriteInternalError(w, "Failed to load user")
			}
			return
		}

		companyName := model.UnknownCompanyName
		if user.CompanyID != "" {
			if company, err := h.queries.GetCompanyByID(r.Context(), user.CompanyID); err == nil {
				companyName = company.Name
			} else if !store.IsNotFound(err) {
				WriteInternalError(w, "Failed to load company")
				return
			}
		}

		record.UserID = user.ID
		record.CompanyID = user.CompanyID
		record.UserName = user.Name
		record.CompanyName = companyName

	default:
		WriteValidationError(w, map[string]string{"user_id": "either user_id or outsourced is required"})
		return
	}

	saved, err := h.queries.AddMeal(r.Context(), record)
	if err != nil {
		writeStoreError(w, err, "Failed to register meal")
		return
	}

	_ = h.events.LogMealEvent(r.Context(), model.EventLevelInfo, "Meal registered",
		middleware.GetUserID(r), clientIP(r),
		map[string]any{"meal_id": saved.ID, "type": saved.Type, "user_name": saved.UserName})

	WriteCreated(w, mealResponse(saved))
}
