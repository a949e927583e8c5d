package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadParsesNestedSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: "9090"
redis:
  addr: localhost:6379
  ttl: 30m
questions:
  ttl: 5m
tests:
  tick: 1s
  retention: 15m
  default_time_limit: 900
  default_question_count: 20
auth:
  jwt_secret: from-file
cors:
  allowed_origins: ["http://localhost:5173"]
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("JWT_SECRET", "")
	t.Setenv("REDIS_ADDR", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("unexpected server/redis section: %+v", cfg)
	}
	if cfg.Tests.DefaultTimeLimit != 900 || cfg.Tests.DefaultQuestionCount != 20 {
		t.Fatalf("unexpected tests section: %+v", cfg.Tests)
	}
	if got := TTLDuration(cfg.Tests.Retention, time.Minute); got != 15*time.Minute {
		t.Fatalf("expected 15m retention, got %v", got)
	}
	if cfg.Auth.JWTSecret != "from-file" {
		t.Fatalf("expected secret from file, got %q", cfg.Auth.JWTSecret)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 {
		t.Fatalf("expected one origin, got %v", cfg.CORS.AllowedOrigins)
	}
}

func TestEnvOverridesSecrets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("auth:\n  jwt_secret: from-file\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DATABASE_URL", "postgres://env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Auth.JWTSecret != "from-env" || cfg.Postgres.URL != "postgres://env" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestLoadOrDefaultToleratesMissingFile(t *testing.T) {
	t.Setenv("REDIS_ADDR", "redis:6379")
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Redis.Addr != "redis:6379" {
		t.Fatalf("expected env redis addr, got %q", cfg.Redis.Addr)
	}
}

func TestTTLDurationFallsBack(t *testing.T) {
	if got := TTLDuration("", time.Second); got != time.Second {
		t.Fatalf("empty should fall back, got %v", got)
	}
	if got := TTLDuration("soon", time.Second); got != time.Second {
		t.Fatalf("invalid should fall back, got %v", got)
	}
	if got := TTLDuration("2h", time.Second); got != 2*time.Hour {
		t.Fatalf("expected 2h, got %v", got)
	}
}
