// Copyright (c) 2026 IdealControl
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import "testing"

func TestNullStringFromValue(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValid bool
	}{
		{"non-empty string", "hello", true},
		{"empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NullStringFromValue(tt.input)
			if got.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v", got.Valid, tt.wantValid)
			}
			if got.Valid && got.String != tt.input {
				t.Errorf("String = %q, want %q", got.String, tt.input)
			}
		})
	}
}

func TestNullStringFromPtr(t *testing.T) {
	t.Run("nil pointer", func(t *testing.T) {
		got := NullStringFromPtr(nil)
		if got.Valid {
			t.Error("Valid = true, want false for nil")
		}
	})

	t.Run("non-nil pointer", func(t *testing.T) {
		s := "hello"
		got := NullStringFromPtr(&s)
		if !got.Valid || got.String != "hello" {
			t.Errorf("got %+v, want valid hello", got)
		}
	})

	t.Run("pointer to empty string", func(t *testing.T) {
		s := ""
		got := NullStringFromPtr(&s)
		if !got.Valid {
			t.Error("Valid = false, want true for pointer to empty string")
		}
	})
}
