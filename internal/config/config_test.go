package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"TZ", "HTTP_ADDR", "LOG_LEVEL", "ENV", "SENTRY_DSN", "RELEASE",
		"POSTERS_DIR", "CERTIFICATES_DIR", "EXPORT_DIR", "BACKUPCTL_URL", "STATS_INTERVAL", "AUTO_FINALIZE_AFTER"} {
		t.Setenv(k, "")
	}
	t.Setenv("DATABASE_URL", "postgres://localhost/courses")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Location != time.UTC {
		t.Fatalf("пояс по умолчанию UTC, получили %s", cfg.Location)
	}
	if cfg.HTTPAddr != ":8080" || cfg.LogLevel != "info" || cfg.Env != "dev" || cfg.Release != "dev" {
		t.Fatalf("defaults: %+v", cfg)
	}
	if cfg.PostersDir != "posters" || cfg.CertificatesDir != "certificates" || cfg.ExportDir != os.TempDir() {
		t.Fatalf("dirs: %+v", cfg)
	}
	if cfg.StatsInterval != time.Minute || cfg.AutoFinalizeAfter != 0 || cfg.BackupURL != "" {
		t.Fatalf("jobs: %+v", cfg)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db/courses")
	t.Setenv("TZ", "Europe/Moscow")
	t.Setenv("STATS_INTERVAL", "30s")
	t.Setenv("AUTO_FINALIZE_AFTER", "24h")
	t.Setenv("BACKUPCTL_URL", "http://backup:8081")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Location.String() != "Europe/Moscow" {
		t.Fatalf("tz: %s", cfg.Location)
	}
	if cfg.StatsInterval != 30*time.Second || cfg.AutoFinalizeAfter != 24*time.Hour {
		t.Fatalf("durations: %+v", cfg)
	}
	if cfg.BackupURL != "http://backup:8081" {
		t.Fatalf("backup: %q", cfg.BackupURL)
	}
}

func TestLoad_Errors(t *testing.T) {
	cases := []struct {
		name, key, val, want string
	}{
		{"no_dsn", "DATABASE_URL", "", "DATABASE_URL"},
		{"bad_tz", "TZ", "Mars/Olympus", "TZ"},
		{"bad_interval", "STATS_INTERVAL", "often", "STATS_INTERVAL"},
		{"negative_after", "AUTO_FINALIZE_AFTER", "-1h", "AUTO_FINALIZE_AFTER"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", "postgres://db/courses")
			t.Setenv("TZ", "")
			t.Setenv("STATS_INTERVAL", "")
			t.Setenv("AUTO_FINALIZE_AFTER", "")
			t.Setenv(tc.key, tc.val)
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("ожидали ошибку про %s, получили %v", tc.want, err)
			}
		})
	}
}
