package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SESSION_STORE", "")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("POSTGRES_DSN", "")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.App.Addr() != "0.0.0.0:9090" {
		t.Fatalf("addr: %s", cfg.App.Addr())
	}
	if cfg.Auth.SessionStore != "memory" || cfg.Postgres.DSN != "" {
		t.Fatalf("expected in-memory defaults: %+v", cfg)
	}
	if cfg.Auth.SessionTTL() != 480*time.Minute {
		t.Fatalf("session ttl: %v", cfg.Auth.SessionTTL())
	}
}

func TestLoadRejectsUnknownSessionStore(t *testing.T) {
	t.Setenv("SESSION_STORE", "memcached")
	if _, err := Load(); err == nil {
		t.Fatal("expected error")
	}
}
