package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverFirebase = "firebase"
)

const (
	DefaultCountdownInterval  = time.Minute
	DefaultAlertsDisplayLimit = 5
)

type Config struct {
	Port      string
	Env       string
	AppName   string
	LogLevel  string
	LogFormat string

	StoreDriver         string
	DBDSN               string
	SQLitePath          string
	FirebaseDatabaseURL string
	FirebaseAuth        string

	LocalTimezone      string
	CountdownInterval  time.Duration
	AlertsDisplayLimit int
	CORSOrigins        []string

	DeviceID            string
	PatientID           string
	DefaultPatientName  string
	DefaultPatientEmail string

	// Location resuelta desde LOCAL_TIMEZONE.
	Location *time.Location

	// Warnings: valores inválidos reemplazados por defaults (se loguean al arrancar).
	Warnings []string
}

var keys = []string{
	"PORT", "ENV", "APP_NAME", "LOG_LEVEL", "LOG_FORMAT",
	"STORE_DRIVER", "DB_DSN", "SQLITE_PATH", "FIREBASE_DATABASE_URL", "FIREBASE_AUTH",
	"LOCAL_TIMEZONE", "COUNTDOWN_INTERVAL", "ALERTS_DISPLAY_LIMIT", "CORS_ORIGINS",
	"DEVICE_ID", "PATIENT_ID", "DEFAULT_PATIENT_NAME", "DEFAULT_PATIENT_EMAIL",
}

// Load lee .env (si existe) y variables de entorno.
func Load() (*Config, error) {
	return LoadFile(".env")
}

func LoadFile(envFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("APP_NAME", "automed-dashboard")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("STORE_DRIVER", DriverMemory)
	v.SetDefault("SQLITE_PATH", "automed.db")
	v.SetDefault("LOCAL_TIMEZONE", "Local")
	v.SetDefault("COUNTDOWN_INTERVAL", DefaultCountdownInterval.String())
	v.SetDefault("ALERTS_DISPLAY_LIMIT", DefaultAlertsDisplayLimit)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("DEVICE_ID", "device1")
	v.SetDefault("PATIENT_ID", "patient1")
	v.SetDefault("DEFAULT_PATIENT_NAME", "John Doe")
	v.SetDefault("DEFAULT_PATIENT_EMAIL", "patient@example.com")

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// .env es opcional
	_ = v.ReadInConfig()

	cfg := &Config{}
	var warnings []string

	// lectura campo a campo: los inválidos caen al default con warning
	cfg.Port = strings.TrimSpace(v.GetString("PORT"))
	cfg.Env = strings.TrimSpace(v.GetString("ENV"))
	cfg.AppName = strings.TrimSpace(v.GetString("APP_NAME"))
	cfg.LogLevel = v.GetString("LOG_LEVEL")
	cfg.LogFormat = v.GetString("LOG_FORMAT")
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER")))
	cfg.DBDSN = strings.TrimSpace(v.GetString("DB_DSN"))
	cfg.SQLitePath = strings.TrimSpace(v.GetString("SQLITE_PATH"))
	cfg.FirebaseDatabaseURL = strings.TrimSpace(v.GetString("FIREBASE_DATABASE_URL"))
	cfg.FirebaseAuth = strings.TrimSpace(v.GetString("FIREBASE_AUTH"))
	cfg.LocalTimezone = strings.TrimSpace(v.GetString("LOCAL_TIMEZONE"))
	cfg.DeviceID = strings.TrimSpace(v.GetString("DEVICE_ID"))
	cfg.PatientID = strings.TrimSpace(v.GetString("PATIENT_ID"))
	cfg.DefaultPatientName = strings.TrimSpace(v.GetString("DEFAULT_PATIENT_NAME"))
	cfg.DefaultPatientEmail = strings.TrimSpace(v.GetString("DEFAULT_PATIENT_EMAIL"))

	raw := strings.TrimSpace(v.GetString("COUNTDOWN_INTERVAL"))
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		cfg.CountdownInterval = d
	} else {
		cfg.CountdownInterval = DefaultCountdownInterval
		warnings = append(warnings, fmt.Sprintf("COUNTDOWN_INTERVAL %q invalid, using %s", raw, DefaultCountdownInterval))
	}

	limit := v.GetInt("ALERTS_DISPLAY_LIMIT")
	if limit > 0 {
		cfg.AlertsDisplayLimit = limit
	} else {
		cfg.AlertsDisplayLimit = DefaultAlertsDisplayLimit
		warnings = append(warnings, fmt.Sprintf("ALERTS_DISPLAY_LIMIT %q invalid, using %d", v.GetString("ALERTS_DISPLAY_LIMIT"), DefaultAlertsDisplayLimit))
	}

	for _, o := range strings.Split(v.GetString("CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	loc, err := time.LoadLocation(cfg.LocalTimezone)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("LOCAL_TIMEZONE %q invalid, using system local", cfg.LocalTimezone))
		loc = time.Local
	}
	cfg.Location = loc

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	cfg.Warnings = warnings

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate revisa combinaciones que impiden arrancar.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMemory:
	case DriverPostgres:
		if c.DBDSN == "" {
			return fmt.Errorf("DB_DSN is required when STORE_DRIVER is %q", DriverPostgres)
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required when STORE_DRIVER is %q", DriverSQLite)
		}
	case DriverFirebase:
		if c.FirebaseDatabaseURL == "" {
			return fmt.Errorf("FIREBASE_DATABASE_URL is required when STORE_DRIVER is %q", DriverFirebase)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (memory, postgres, sqlite, firebase)", c.StoreDriver)
	}
	if c.DeviceID == "" || c.PatientID == "" {
		return fmt.Errorf("DEVICE_ID and PATIENT_ID must not be empty")
	}
	return nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
