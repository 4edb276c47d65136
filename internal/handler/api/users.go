// Copyright (c) 2026 IdealControl
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/idealcontrol/idealcontrol-go/internal/middleware"
	"github.com/idealcontrol/idealcontrol-go/internal/model"
)

// UserAPIResponse represents a user in API responses. Password material is
// never serialized.
type UserAPIResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CompanyID string `json:"company_id,omitempty"`
	Role      string `json:"role"`
}

// SaveUserRequest is the request body for creating or updating a user.
// Password is only meaningful for ADMIN users: on promotion it becomes the
// login credential (the bootstrap default applies when omitted), on
// demotion any stored credential is discarded.
type SaveUserRequest struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	CompanyID string `json:"company_id,omitempty"`
	Role      string `json:"role"`
	Password  string `json:"password,omitempty"`
}

func userResponse(u model.User) UserAPIResponse {
	return UserAPIResponse{ID: u.ID, Name: u.Name, CompanyID: u.CompanyID, Role: u.Role}
}

// ListUsers handles GET /api/v1/users. The optional ?q= parameter narrows
// the list to users whose name contains the query, case-insensitively;
// this backs the registration screen's live search.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	var (
		users []model.User
		err   error
	)

	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		users, err = h.queries.SearchUsersByName(r.Context(), q)
	} else {
		users, err = h.queries.ListUsers(r.Context())
	}
	if err != nil {
		WriteInternalError(w, "Failed to list users")
		return
	}

	responses := make([]UserAPIResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, userResponse(u))
	}

	WriteSuccess(w, responses, &Meta{Total: int64(len(responses))})
}

// SaveUser handles POST /api/v1/users (create or update by id).
func (h *Handler) SaveUser(w http.ResponseWriter, r *http.Request) {
	var req SaveUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created := req.ID == ""
	saved, err := h.queries.SaveUser(r.Context(), model.User{
		ID:        req.ID,
		Name:      req.Name,
		CompanyID: req.CompanyID,
		Role:      req.Role,
	}, req.Password)
	if err != nil {
		writeStoreError(w, err, "Failed to save user")
		return
	}

	action := "User updated"
	if created {
		action = "User created"
	}
	_ = h.events.LogUserEvent(r.Context(), model.EventLevelInfo, action,
		middleware.GetUserID(r), clientIP(r),
		map[string]any{"target_user_id": saved.ID, "name": saved.Name, "role": saved.Role})

	if created {
		WriteCreated(w, userResponse(saved))
		return
	}
	WriteSuccess(w, userResponse(saved), nil)
}

// DeleteUser handles DELETE /api/v1/users/{id}. The user's meal records
// survive with their denormalized snapshot of the name.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.queries.DeleteUser(r.Context(), id); err != nil {
		writeStoreError(w, err, "Failed to delete user")
		return
	}

	_ = h.events.LogUserEvent(r.Context(), model.EventLevelInfo, "User deleted",
		middleware.GetUserID(r), clientIP(r), map[string]any{"target_user_id": id})

	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}
