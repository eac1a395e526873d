package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "none.env")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadFile(missingEnvFile(t))
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}

	if cfg.Port != "8080" || cfg.StoreDriver != DriverMemory {
		t.Fatalf("unexpected defaults: port=%q driver=%q", cfg.Port, cfg.StoreDriver)
	}
	if cfg.CountdownInterval != time.Minute || cfg.AlertsDisplayLimit != 5 {
		t.Fatalf("unexpected derivation defaults: %s / %d", cfg.CountdownInterval, cfg.AlertsDisplayLimit)
	}
	if cfg.PatientID != "patient1" || cfg.DeviceID != "device1" {
		t.Fatalf("unexpected ids: %q %q", cfg.PatientID, cfg.DeviceID)
	}
	if cfg.Location == nil || len(cfg.Warnings) != 0 {
		t.Fatalf("expected location and no warnings, got %v %q", cfg.Location, cfg.Warnings)
	}
}

func TestLoad_EnvOverridesAndInvalidFallback(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOCAL_TIMEZONE", "America/Lima")
	t.Setenv("COUNTDOWN_INTERVAL", "soon")
	t.Setenv("ALERTS_DISPLAY_LIMIT", "-3")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")

	cfg, err := LoadFile(missingEnvFile(t))
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}

	if cfg.Addr() != ":9090" {
		t.Fatalf("expected :9090, got %q", cfg.Addr())
	}
	if cfg.Location.String() != "America/Lima" {
		t.Fatalf("expected America/Lima, got %s", cfg.Location)
	}
	if cfg.CountdownInterval != DefaultCountdownInterval || cfg.AlertsDisplayLimit != DefaultAlertsDisplayLimit {
		t.Fatalf("expected fallbacks, got %s / %d", cfg.CountdownInterval, cfg.AlertsDisplayLimit)
	}
	if len(cfg.Warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %q", cfg.Warnings)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins: %q", cfg.CORSOrigins)
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "STORE_DRIVER=sqlite\nSQLITE_PATH=/tmp/automed-test.db\nALERTS_DISPLAY_LIMIT=10\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}
	if cfg.StoreDriver != DriverSQLite || cfg.SQLitePath != "/tmp/automed-test.db" || cfg.AlertsDisplayLimit != 10 {
		t.Fatalf("expected values from .env, got %+v", cfg)
	}
}

func TestLoad_StoreDriverValidation(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")
	if _, err := LoadFile(missingEnvFile(t)); err == nil {
		t.Fatalf("expected error for unknown driver")
	}

	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DB_DSN", "")
	if _, err := LoadFile(missingEnvFile(t)); err == nil {
		t.Fatalf("expected error for postgres without DB_DSN")
	}

	t.Setenv("STORE_DRIVER", "firebase")
	t.Setenv("FIREBASE_DATABASE_URL", "https://automed-default-rtdb.firebaseio.com")
	if _, err := LoadFile(missingEnvFile(t)); err != nil {
		t.Fatalf("expected firebase config to be valid, got %v", err)
	}
}
