// Copyright (c) 2026 IdealControl
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// User roles.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// ValidRoles contains all valid user roles.
var ValidRoles = []string{RoleAdmin, RoleUser}

// User represents a registered employee. PasswordHash is set if and only if
// the user holds the ADMIN role; the store enforces that invariant on every
// save.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CompanyID    string `json:"company_id"`
	Role         string `json:"role"`
	PasswordHash string `json:"-"` // Never expose in JSON
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsValidRole reports whether role is one of the recognized user roles.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if role == r {
			return true
		}
	}
	return false
}
