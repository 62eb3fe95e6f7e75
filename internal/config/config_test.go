package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{KeyHTTPAddr, KeyLogLevel, KeySessionTTL, KeySweepInterval, KeyArchiveDSN, KeyShutdownTimeout} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.LogLevel != "INFO" || cfg.ArchiveDSN != "" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.SessionTTL != 30*time.Minute || cfg.SweepInterval != time.Minute || cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("unexpected duration defaults: %+v", cfg)
	}
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "tasktracker.env")
	content := "TASKTRACKER_HTTP_ADDR=:9000\nTASKTRACKER_LOG_LEVEL=DEBUG\nTASKTRACKER_SESSION_TTL=10m\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(KeyHTTPAddr, ":7000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":7000" {
		t.Errorf("env should win over file, got %q", cfg.HTTPAddr)
	}
	if cfg.LogLevel != "DEBUG" {
		t.Errorf("file should win over default, got %q", cfg.LogLevel)
	}
	if cfg.SessionTTL != 10*time.Minute {
		t.Errorf("expected 10m session ttl, got %s", cfg.SessionTTL)
	}
	if cfg.SweepInterval != time.Minute {
		t.Errorf("expected default sweep interval, got %s", cfg.SweepInterval)
	}
}

func TestLoadBadDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv(KeySessionTTL, "soon")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for unparsable duration")
	}
	t.Setenv(KeySessionTTL, "-1m")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for negative duration")
	}
}
