// Copyright (c) 2026 IdealControl
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// Meal types.
const (
	MealBreakfast = "BREAKFAST"
	MealLunch     = "LUNCH"
	MealDinner    = "DINNER"
)

// ValidMealTypes contains all recognized meal types.
var ValidMealTypes = []string{MealBreakfast, MealLunch, MealDinner}

// MealRecord represents a single meal registration. Records are append-only:
// once created they are never updated or deleted. UserName and CompanyName
// are snapshots taken at registration time so that later renames or
// deletions of the user or company never alter historical report rows.
type MealRecord struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	CompanyID   string    `json:"company_id"`
	UserName    string    `json:"user_name"`
	CompanyName string    `json:"company_name"`
	Type        string    `json:"type"`
	Date        time.Time `json:"date"`
}

// IsOutsourced reports whether the record was registered for an outsourced
// worker rather than a user from the user collection.
func (m *MealRecord) IsOutsourced() bool {
	return strings.HasPrefix(m.UserID, OutsourcedUserPrefix)
}

// IsValidMealType reports whether t is one of the recognized meal types.
func IsValidMealType(t string) bool {
	for _, v := range ValidMealTypes {
		if t == v {
			return true
		}
	}
	return false
}
