package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Validation ValidationConfig
	Credential CredentialConfig
	OTEL       OTELConfig
}

// AppConfig holds process-level settings
type AppConfig struct {
	Env      string
	LogLevel string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path              string
	BusyTimeoutMS     int
	EnforceForeignKey bool
}

// ValidationConfig controls how strictly form fields are checked
type ValidationConfig struct {
	StrictSchedule bool
}

// CredentialConfig holds the credential seeded into an empty users table
type CredentialConfig struct {
	DefaultUsername string
	DefaultPassword string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present; variables already set in the
// environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	return &Config{
		App: AppConfig{
			Env:      getEnv("APP_ENV", "production"),
			LogLevel: getEnv("LOG_LEVEL", "warn"),
		},
		Database: DatabaseConfig{
			Path:              getEnv("HOSPITAL_DB_PATH", "hospital.db"),
			BusyTimeoutMS:     getEnvAsInt("HOSPITAL_DB_BUSY_TIMEOUT_MS", 5000),
			EnforceForeignKey: getEnvAsBool("HOSPITAL_DB_FOREIGN_KEYS", false),
		},
		Validation: ValidationConfig{
			StrictSchedule: getEnvAsBool("HOSPITAL_STRICT_SCHEDULE", false),
		},
		Credential: CredentialConfig{
			DefaultUsername: getEnv("HOSPITAL_DEFAULT_USERNAME", "admin"),
			DefaultPassword: getEnv("HOSPITAL_DEFAULT_PASSWORD", "admin"),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "hospital-records"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}, nil
}

// DSN returns the go-sqlite3 connection string for the database file
func (c *DatabaseConfig) DSN() string {
	fk := "0"
	if c.EnforceForeignKey {
		fk = "1"
	}
	sep := "?"
	if strings.Contains(c.Path, "?") {
		sep = "&"
	}
	return c.Path + sep + "_busy_timeout=" + strconv.Itoa(c.BusyTimeoutMS) + "&_foreign_keys=" + fk
}

// InMemory reports whether the database lives only in process memory
func (c *DatabaseConfig) InMemory() bool {
	return c.Path == ":memory:" || strings.Contains(c.Path, "mode=memory")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
