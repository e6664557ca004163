package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.SessionCookie != "qb_session" || cfg.SessionTTLH != 168 {
		t.Fatalf("defaults=%+v", cfg)
	}
}

func TestLoadYAMLAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "addr: \":9000\"\ndb_path: /tmp/qb.db\nsession_ttl_hours: 24\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9000" || cfg.DBPath != "/tmp/qb.db" || cfg.SessionTTLH != 24 {
		t.Fatalf("yaml config=%+v", cfg)
	}

	t.Setenv("QB_ADDR", ":7777")
	t.Setenv("QB_SESSION_COOKIE", "custom_session")
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load with env: %v", err)
	}
	if cfg.Addr != ":7777" || cfg.SessionCookie != "custom_session" {
		t.Fatalf("env override=%+v", cfg)
	}
	// YAML values without an env override survive.
	if cfg.DBPath != "/tmp/qb.db" {
		t.Fatalf("db path=%q", cfg.DBPath)
	}
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
		t.Fatalf("Load: %v", err)
	}
}
