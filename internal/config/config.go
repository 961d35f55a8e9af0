package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

type Config struct {
	DatabaseURL string
	Location    *time.Location
	HTTPAddr    string
	LogLevel    string
	Env         string // dev|prod
	SentryDSN   string
	Release     string

	PostersDir      string
	CertificatesDir string
	ExportDir       string
	BackupURL       string // пусто: снимки перед purge не делаем

	StatsInterval     time.Duration
	AutoFinalizeAfter time.Duration // 0: автофинализация выключена
}

func Load() (*Config, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, errors.New("required env DATABASE_URL is empty")
	}

	tz := getenv("TZ", "UTC")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("TZ: %w", err)
	}

	statsEvery, err := duration("STATS_INTERVAL", time.Minute)
	if err != nil {
		return nil, err
	}
	finalizeAfter, err := duration("AUTO_FINALIZE_AFTER", 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL:       dsn,
		Location:          loc,
		HTTPAddr:          getenv("HTTP_ADDR", ":8080"),
		LogLevel:          getenv("LOG_LEVEL", "info"),
		Env:               getenv("ENV", "dev"),
		SentryDSN:         os.Getenv("SENTRY_DSN"),
		Release:           getenv("RELEASE", "dev"),
		PostersDir:        getenv("POSTERS_DIR", "posters"),
		CertificatesDir:   getenv("CERTIFICATES_DIR", "certificates"),
		ExportDir:         getenv("EXPORT_DIR", os.TempDir()),
		BackupURL:         os.Getenv("BACKUPCTL_URL"),
		StatsInterval:     statsEvery,
		AutoFinalizeAfter: finalizeAfter,
	}
	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func duration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: negative duration %s", k, v)
	}
	return d, nil
}
