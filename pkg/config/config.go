package config

import (
	"fmt"
	"os"
	"strconv"
)

// DataSourceMock selects the deterministic in-memory record source;
// DataSourceAirtable selects the live record store. The choice is made
// here, at construction time, never by a compile-time flag, so tests
// can exercise both paths.
const (
	DataSourceMock     = "mock"
	DataSourceAirtable = "airtable"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Airtable   AirtableConfig
	Auth       AuthConfig
	OpenAI     OpenAIConfig
	Forms      FormsConfig
	OTEL       OTELConfig
	DataSource string
	Env        string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds the audit store (PostgreSQL) configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// AirtableConfig holds record-store configuration. BaseID scopes every
// request; the table names default to the store's standard layout.
type AirtableConfig struct {
	BaseURL         string
	APIKey          string
	BaseID          string
	PrescreenTable  string
	DropOffTable    string
	FailReasonTable string
	TreatmentTable  string
}

// AuthConfig holds bearer-session validation settings for the hosted
// auth provider. SigningKey is an HS256 escape hatch for development
// and tests; production validation goes through the JWKS endpoint.
type AuthConfig struct {
	Issuer     string
	Audience   string
	JWKSURL    string
	SigningKey string
}

// OpenAIConfig holds the question-insight summarizer configuration
type OpenAIConfig struct {
	APIKey         string
	Model          string
	RateLimitRPM   int
	RateLimitBurst int
}

// FormsConfig holds the forms-backend endpoint used by the consult
// submission proxy
type FormsConfig struct {
	Endpoint string
	APIKey   string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "prescreen_dashboard"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Airtable: AirtableConfig{
			BaseURL:         getEnv("AIRTABLE_BASE_URL", "https://api.airtable.com/v0"),
			APIKey:          getEnv("AIRTABLE_API_KEY", ""),
			BaseID:          getEnv("AIRTABLE_BASE_ID", ""),
			PrescreenTable:  getEnv("AIRTABLE_PRESCREEN_TABLE", "Prescreens"),
			DropOffTable:    getEnv("AIRTABLE_DROPOFF_TABLE", "Drop Offs"),
			FailReasonTable: getEnv("AIRTABLE_FAIL_REASON_TABLE", "Fail Reasons"),
			TreatmentTable:  getEnv("AIRTABLE_TREATMENT_TABLE", "Treatment Stats"),
		},
		Auth: AuthConfig{
			Issuer:     getEnv("AUTH_ISSUER", ""),
			Audience:   getEnv("AUTH_AUDIENCE", ""),
			JWKSURL:    getEnv("AUTH_JWKS_URL", ""),
			SigningKey: getEnv("AUTH_SIGNING_KEY", ""),
		},
		OpenAI: OpenAIConfig{
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			Model:          getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			RateLimitRPM:   getEnvAsInt("OPENAI_RATE_LIMIT_RPM", 30),
			RateLimitBurst: getEnvAsInt("OPENAI_RATE_LIMIT_BURST", 5),
		},
		Forms: FormsConfig{
			Endpoint: getEnv("FORMS_ENDPOINT", ""),
			APIKey:   getEnv("FORMS_API_KEY", ""),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "prescreen-dashboard"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		DataSource: getEnv("DATA_SOURCE", DataSourceMock),
		Env:        getEnv("APP_ENV", "development"),
	}

	if cfg.DataSource != DataSourceMock && cfg.DataSource != DataSourceAirtable {
		return nil, fmt.Errorf("invalid DATA_SOURCE %q: must be %q or %q", cfg.DataSource, DataSourceMock, DataSourceAirtable)
	}
	if cfg.DataSource == DataSourceAirtable && (cfg.Airtable.APIKey == "" || cfg.Airtable.BaseID == "") {
		return nil, fmt.Errorf("AIRTABLE_API_KEY and AIRTABLE_BASE_ID are required when DATA_SOURCE=airtable")
	}

	return cfg, nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
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
