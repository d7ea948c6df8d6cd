package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleConfig = `
server:
  host: 127.0.0.1
  port: 9090
database:
  host: db.local
  port: 5432
  user: app
  password: secret
  dbname: noous
  sslmode: disable
jwt:
  secret: test-secret
rate_limit:
  invite_max_attempts: 3
  invite_window_minutes: 10
log:
  level: debug
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9090 {
		t.Errorf("server = %s:%d, want 127.0.0.1:9090", cfg.Server.Host, cfg.Server.Port)
	}
	if cfg.JWT.Secret != "test-secret" {
		t.Errorf("jwt secret = %q", cfg.JWT.Secret)
	}
	if cfg.RateLimit.InviteMaxAttempts != 3 {
		t.Errorf("invite_max_attempts = %d, want 3", cfg.RateLimit.InviteMaxAttempts)
	}
	if cfg.RateLimit.InviteWindowMinutes != 10 {
		t.Errorf("invite_window_minutes = %d, want 10", cfg.RateLimit.InviteWindowMinutes)
	}

	want := "host=db.local port=5432 user=app password=secret dbname=noous sslmode=disable"
	if got := cfg.Database.DSN(); got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}
}

func TestLoadRateLimitDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "server:\n  port: 8080\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.RateLimit.InviteMaxAttempts != 5 {
		t.Errorf("invite_max_attempts default = %d, want 5", cfg.RateLimit.InviteMaxAttempts)
	}
	if cfg.RateLimit.InviteWindowMinutes != 60 {
		t.Errorf("invite_window_minutes default = %d, want 60", cfg.RateLimit.InviteWindowMinutes)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "server: [broken")); err == nil {
		t.Fatal("expected error for invalid yaml")
	}
}
