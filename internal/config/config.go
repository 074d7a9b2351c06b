// Package config provides configuration management for the Wiz GraphQL proxy
// and the wiz-sync job. It handles loading configuration from environment
// variables with sensible defaults and validates the configuration to ensure
// each binary starts safely.
//
// Proxy environment variables:
//
//	PORT              - HTTP listen port (default: 8080)
//	WIZ_AUTH_URL      - OAuth token endpoint (default: https://auth.app.wiz.io/oauth/token)
//	WIZ_GRAPHQL_URL   - Upstream GraphQL endpoint (default: https://api.us48.app.wiz.io/graphql)
//	WIZ_CLIENT_ID     - OAuth client ID (required)
//	WIZ_CLIENT_SECRET - OAuth client secret (required)
//	WIZ_AUDIENCE      - OAuth audience parameter (default: wiz-api)
//
// Sync environment variables:
//
//	WIZ_PROXY_URL     - Proxy GraphQL endpoint (default: http://localhost:8080/graphql)
//	POSTGRES_HOST     - PostgreSQL host (default: localhost)
//	POSTGRES_PORT     - PostgreSQL port (default: 5432)
//	POSTGRES_DB       - PostgreSQL database name (default: reporting)
//	POSTGRES_USER     - PostgreSQL user (default: postgres)
//	POSTGRES_PASSWORD - PostgreSQL password (required for sync)
//	POSTGRES_SSL_MODE - PostgreSQL SSL mode (default: disable)
//	SYNC_SCHEDULE     - Cron expression for periodic sync (default: run once and exit)
//
// Shared environment variables:
//
//	LOG_LEVEL - Log verbosity: DEBUG, INFO, WARN, ERROR (default: INFO)
//	LOG_FILE  - Log file path (default: stdout)
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// Port is the HTTP listen port for the proxy
	Port string

	// WizAuthURL is the OAuth token endpoint
	WizAuthURL string

	// WizGraphQLURL is the upstream GraphQL endpoint
	WizGraphQLURL string

	// WizClientID is the OAuth client ID
	WizClientID string

	// WizClientSecret is the OAuth client secret
	WizClientSecret string

	// WizAudience is the audience parameter sent with token requests
	WizAudience string

	// WizProxyURL is the proxy endpoint the sync job queries
	WizProxyURL string

	// PostgresHost is the PostgreSQL server host
	PostgresHost string

	// PostgresPort is the PostgreSQL server port
	PostgresPort string

	// PostgresDB is the PostgreSQL database name
	PostgresDB string

	// PostgresUser is the PostgreSQL user
	PostgresUser string

	// PostgresPassword is the PostgreSQL password
	PostgresPassword string

	// PostgresSSLMode is the PostgreSQL SSL mode
	PostgresSSLMode string

	// SyncSchedule is an optional cron expression for periodic sync runs
	SyncSchedule string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:             getEnv("PORT", "8080"),
		WizAuthURL:       getEnv("WIZ_AUTH_URL", "https://auth.app.wiz.io/oauth/token"),
		WizGraphQLURL:    getEnv("WIZ_GRAPHQL_URL", "https://api.us48.app.wiz.io/graphql"),
		WizClientID:      getEnv("WIZ_CLIENT_ID", ""),
		WizClientSecret:  getEnv("WIZ_CLIENT_SECRET", ""),
		WizAudience:      getEnv("WIZ_AUDIENCE", "wiz-api"),
		WizProxyURL:      getEnv("WIZ_PROXY_URL", "http://localhost:8080/graphql"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresDB:       getEnv("POSTGRES_DB", "reporting"),
		PostgresUser:     getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", ""),
		PostgresSSLMode:  getEnv("POSTGRES_SSL_MODE", "disable"),
		SyncSchedule:     getEnv("SYNC_SCHEDULE", ""),
	}
}

// Validate checks that the proxy configuration is complete
func (c *Config) Validate() error {
	if c.WizClientID == "" {
		return fmt.Errorf("WIZ_CLIENT_ID environment variable is required")
	}

	if c.WizClientSecret == "" {
		return fmt.Errorf("WIZ_CLIENT_SECRET environment variable is required")
	}

	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a valid port number between 1 and 65535")
	}

	return nil
}

// ValidateSync checks that the sync job configuration is complete
func (c *Config) ValidateSync() error {
	if c.WizProxyURL == "" {
		return fmt.Errorf("WIZ_PROXY_URL environment variable is required")
	}

	if c.PostgresPassword == "" {
		return fmt.Errorf("POSTGRES_PASSWORD environment variable is required")
	}

	if port, err := strconv.Atoi(c.PostgresPort); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("POSTGRES_PORT must be a valid port number between 1 and 65535")
	}

	return nil
}

// getEnv returns the value of an environment variable or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
