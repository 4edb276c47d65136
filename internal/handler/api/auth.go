// Copyright (c) 2026 IdealControl
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/idealcontrol/idealcontrol-go/internal/middleware"
	"github.com/idealcontrol/idealcontrol-go/internal/model"
	"github.com/idealcontrol/idealcontrol-go/internal/session"
)

// LoginRequest is the request body for POST /api/v1/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionResponse describes the authenticated user.
type SessionResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CompanyID string `json:"company_id,omitempty"`
	Role      string `json:"role"`
}

func sessionResponse(u *model.User) SessionResponse {
	return SessionResponse{
		ID:        u.ID,
		Name:      u.Name,
		CompanyID: u.CompanyID,
		Role:      u.Role,
	}
}

// Login handles POST /api/v1/auth/login. Failures are indistinguishable:
// unknown user, wrong password, and non-admin account all produce the same
// generic 401.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)

	if h.loginProtection != nil && !h.loginProtection.CheckIPRateLimit(ip) {
		WriteError(w, http.StatusTooManyRequests, "rate_limited", "Too many login attempts, slow down", nil)
		return
	}

	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		WriteUnauthorized(w, "Invalid credentials")
		return
	}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(username); locked {
			_ = h.events.LogAuthEvent(r.Context(), model.EventLevelWarning,
				"Login attempt on locked account", "", ip, map[string]any{"username": username})
			WriteError(w, http.StatusTooManyRequests, "account_locked",
				"Account temporarily locked, try again in "+remaining.Round(time.Second).String(), nil)
			return
		}
	}

	user, err := h.queries.Authenticate(r.Context(), username, req.Password)
	if err != nil {
		slog.Error("authentication query failed", "error", err)
		WriteInternalError(w, "Login failed")
		return
	}
	if user == nil {
		_ = h.events.LogAuthEvent(r.Context(), model.EventLevelWarning,
			"Login failed", "", ip, map[string]any{"username": username})
		if h.loginProtection != nil {
			if locked, lockDuration := h.loginProtection.RecordFailedAttempt(username); locked {
				_ = h.events.LogAuthEvent(r.Context(), model.EventLevelWarning,
					"Account locked due to failed attempts", "", ip,
					map[string]any{"username": username, "duration": lockDuration.String()})
				WriteError(w, http.StatusTooManyRequests, "account_locked",
					"Account temporarily locked, try again in "+lockDuration.Round(time.Second).String(), nil)
				return
			}
		}
		WriteError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid credentials", nil)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(username)
	}

	// Regenerate the session id to prevent session fixation.
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		slog.Error("session renewal failed", "error", err)
		WriteInternalError(w, "Login failed")
		return
	}
	h.sessionManager.Put(r.Context(), session.KeyUserID, user.ID)

	slog.Info("user logged in", "user_id", user.ID, "username", user.Name)
	_ = h.events.LogAuthEvent(r.Context(), model.EventLevelInfo,
		"User logged in", user.ID, ip, map[string]any{"username": user.Name})

	WriteSuccess(w, sessionResponse(user), nil)
}

// Logout handles POST /api/v1/auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		slog.Error("session destroy failed", "error", err)
		WriteInternalError(w, "Logout failed")
		return
	}

	if userID != "" {
		_ = h.events.LogAuthEvent(r.Context(), model.EventLevelInfo,
			"User logged out", userID, clientIP(r), nil)
	}

	WriteSuccess(w, map[string]string{"status": "logged_out"}, nil)
}

// Session handles GET /api/v1/auth/session. Returns the current user, or
// 401 when no valid session exists.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Not authenticated")
		return
	}
	WriteSuccess(w, sessionResponse(user), nil)
}
