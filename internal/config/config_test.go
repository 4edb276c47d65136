// Copyright (c) 2026 IdealControl
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"os"
	"testing"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set %s: %v", key, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "./data/idealcontrol.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./data/idealcontrol.db")
	}
	if cfg.ServerHost != "localhost" {
		t.Errorf("ServerHost = %q, want %q", cfg.ServerHost, "localhost")
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want %d", cfg.ServerPort, 8080)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want %q", cfg.Env, "development")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.DoSeed {
		t.Error("DoSeed should default to false")
	}
	if cfg.EventRetentionDays != 90 {
		t.Errorf("EventRetentionDays = %d, want 90", cfg.EventRetentionDays)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	setEnv(t, "IDC_DB_PATH", "/custom/path.db")
	setEnv(t, "IDC_SERVER_HOST", "0.0.0.0")
	setEnv(t, "IDC_SERVER_PORT", "3000")
	setEnv(t, "IDC_ENV", "production")
	setEnv(t, "IDC_LOG_LEVEL", "debug")
	setEnv(t, "IDC_DO_SEED", "true")
	setEnv(t, "IDC_TRUSTED_ORIGINS", "app.example.com,admin.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "/custom/path.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "/custom/path.db")
	}
	if cfg.ServerAddr() != "0.0.0.0:3000" {
		t.Errorf("ServerAddr() = %q, want %q", cfg.ServerAddr(), "0.0.0.0:3000")
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() should be false for production")
	}
	if !cfg.DoSeed {
		t.Error("DoSeed should be true")
	}
	if len(cfg.TrustedOrigins) != 2 || cfg.TrustedOrigins[0] != "app.example.com" {
		t.Errorf("TrustedOrigins = %v", cfg.TrustedOrigins)
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	os.Clearenv()
	setEnv(t, "IDC_SERVER_PORT", "70000")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject an out-of-range port")
	}
}

func TestLoad_NegativeRetention(t *testing.T) {
	os.Clearenv()
	setEnv(t, "IDC_EVENT_RETENTION_DAYS", "-1")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject negative retention")
	}
}
