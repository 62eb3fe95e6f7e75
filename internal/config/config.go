// Package config loads tasktracker settings from the environment and an
// optional dotenv file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	KeyHTTPAddr        = "TASKTRACKER_HTTP_ADDR"
	KeyLogLevel        = "TASKTRACKER_LOG_LEVEL"
	KeySessionTTL      = "TASKTRACKER_SESSION_TTL"
	KeySweepInterval   = "TASKTRACKER_SWEEP_INTERVAL"
	KeyArchiveDSN      = "TASKTRACKER_ARCHIVE_DSN"
	KeyShutdownTimeout = "TASKTRACKER_SHUTDOWN_TIMEOUT"
)

const (
	DefaultHTTPAddr        = ":8080"
	DefaultLogLevel        = "INFO"
	DefaultSessionTTL      = "30m"
	DefaultSweepInterval   = "1m"
	DefaultShutdownTimeout = "5s"
)

type Config struct {
	HTTPAddr        string
	LogLevel        string
	SessionTTL      time.Duration
	SweepInterval   time.Duration
	ArchiveDSN      string
	ShutdownTimeout time.Duration
}

// Load resolves each key from the process environment first, then from the
// dotenv file at path, then from the defaults. A missing file is not an
// error; an empty path skips the file.
func Load(path string) (Config, error) {
	fromFile := map[string]string{}
	if path != "" {
		m, err := godotenv.Read(path)
		switch {
		case err == nil:
			fromFile = m
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read %s: %w", path, err)
		}
	}

	get := func(key, def string) string {
		return coalesce(os.Getenv(key), fromFile[key], def)
	}

	cfg := Config{
		HTTPAddr:   get(KeyHTTPAddr, DefaultHTTPAddr),
		LogLevel:   get(KeyLogLevel, DefaultLogLevel),
		ArchiveDSN: get(KeyArchiveDSN, ""),
	}

	var err error
	if cfg.SessionTTL, err = duration(KeySessionTTL, get(KeySessionTTL, DefaultSessionTTL)); err != nil {
		return Config{}, err
	}
	if cfg.SweepInterval, err = duration(KeySweepInterval, get(KeySweepInterval, DefaultSweepInterval)); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = duration(KeyShutdownTimeout, get(KeyShutdownTimeout, DefaultShutdownTimeout)); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func duration(key, s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive, got %s", key, s)
	}
	return d, nil
}

func coalesce(args ...string) string {
	for _, s := range args {
		if s != "" {
			return s
		}
	}
	return ""
}
