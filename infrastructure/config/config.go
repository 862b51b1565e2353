package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string

	// Identity provider (hosted identity service)
	IdentityProviderURL string
	IdentityServiceKey  string
	IdentityJWTSecret   string

	// Superadmin allowlist, comma separated emails. Loaded from
	// deployment configuration so it can rotate without a rebuild.
	SuperadminAllowlist []string

	// Provisioning lock
	RedisURL             string
	ProvisionLockEnabled bool
	ProvisionLockTTL     time.Duration

	// Operator role substitution for non-production testing. Never
	// honored when Environment is production.
	TestRoleOverride   string
	TestTenantOverride string

	TempCredentialPrefix string

	ServerPort         string
	ServerHost         string
	Environment        string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	LogLevel               string
	LogFormat              string
	LogCorrelationIDHeader string
}

var (
	ErrMissingDatabaseURL       = errors.New("DATABASE_URL is required")
	ErrMissingIdentityProvider  = errors.New("IDENTITY_PROVIDER_URL is required")
	ErrMissingIdentityKey       = errors.New("IDENTITY_SERVICE_KEY is required")
	ErrMissingIdentityJWTSecret = errors.New("IDENTITY_JWT_SECRET is required")
	ErrInvalidDuration          = errors.New("invalid duration format")
)

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		IdentityProviderURL:    os.Getenv("IDENTITY_PROVIDER_URL"),
		IdentityServiceKey:     os.Getenv("IDENTITY_SERVICE_KEY"),
		IdentityJWTSecret:      os.Getenv("IDENTITY_JWT_SECRET"),
		SuperadminAllowlist:    parseEmailList(os.Getenv("SUPERADMIN_ALLOWLIST")),
		RedisURL:               getEnvOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		ProvisionLockEnabled:   getEnvOrDefaultBool("PROVISION_LOCK_ENABLED", true),
		TestRoleOverride:       os.Getenv("TEST_ROLE_OVERRIDE"),
		TestTenantOverride:     os.Getenv("TEST_TENANT_OVERRIDE"),
		TempCredentialPrefix:   getEnvOrDefault("TEMP_CREDENTIAL_PREFIX", "Sef-"),
		ServerPort:             getEnvOrDefault("SERVER_PORT", "8080"),
		ServerHost:             getEnvOrDefault("SERVER_HOST", "localhost"),
		Environment:            getEnvOrDefault("ENV", "development"),
		LogLevel:               getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:              getEnvOrDefault("LOG_FORMAT", "json"),
		LogCorrelationIDHeader: getEnvOrDefault("LOG_CORRELATION_ID_HEADER", "X-Correlation-ID"),
	}

	// Validate required fields
	if cfg.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}
	if cfg.IdentityProviderURL == "" {
		return nil, ErrMissingIdentityProvider
	}
	if cfg.IdentityServiceKey == "" {
		return nil, ErrMissingIdentityKey
	}
	if cfg.IdentityJWTSecret == "" {
		return nil, ErrMissingIdentityJWTSecret
	}

	lockTTL, err := parseSeconds(getEnvOrDefault("PROVISION_LOCK_TTL", "30"))
	if err != nil {
		return nil, ErrInvalidDuration
	}
	cfg.ProvisionLockTTL = lockTTL

	readTimeout, err := parseSeconds(getEnvOrDefault("SERVER_READ_TIMEOUT", "15"))
	if err != nil {
		return nil, ErrInvalidDuration
	}
	cfg.ServerReadTimeout = readTimeout

	writeTimeout, err := parseSeconds(getEnvOrDefault("SERVER_WRITE_TIMEOUT", "15"))
	if err != nil {
		return nil, ErrInvalidDuration
	}
	cfg.ServerWriteTimeout = writeTimeout

	idleTimeout, err := parseSeconds(getEnvOrDefault("SERVER_IDLE_TIMEOUT", "60"))
	if err != nil {
		return nil, ErrInvalidDuration
	}
	cfg.ServerIdleTimeout = idleTimeout

	return cfg, nil
}

// NonProduction reports whether operator test overrides may activate.
// Overrides never activate in a deployment that sets ENV=production,
// regardless of caller input.
func (c *Config) NonProduction() bool {
	return !strings.EqualFold(c.Environment, "production")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrDefaultBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

func parseSeconds(value string) (time.Duration, error) {
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return time.Duration(seconds) * time.Second, nil
}

func parseEmailList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	emails := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			emails = append(emails, p)
		}
	}
	return emails
}
