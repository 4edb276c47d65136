// Copyright (c) 2026 IdealControl
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain types shared across the application.
package model

// Markers for outsourced (visitor) meal registrations. Outsourced workers
// are not part of the user collection; their registrations carry synthetic
// ids and the fixed TERCEIRIZADO label.
const (
	OutsourcedCompanyID  = "outsourced_company_id"
	OutsourcedName       = "TERCEIRIZADO"
	OutsourcedUserPrefix = "outsourced_"
)

// UnknownCompanyName is the company label snapshotted into a meal record
// when the user's company no longer exists.
const UnknownCompanyName = "Unknown"

// Company represents an employer whose employees register meals.
type Company struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	LogoURL string `json:"logo_url,omitempty"`
}
