package postgres

import (
	"fmt"

	"wiz-graphql-proxy/internal/config"
)

// Config holds PostgreSQL connection parameters.
type Config struct {
	Host     string
	Port     string
	Database string
	Username string
	Password string
	SSLMode  string
}

// NewConfig builds connection parameters from the application config.
func NewConfig(cfg *config.Config) *Config {
	return &Config{
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		Database: cfg.PostgresDB,
		Username: cfg.PostgresUser,
		Password: cfg.PostgresPassword,
		SSLMode:  cfg.PostgresSSLMode,
	}
}

// ConnectionString renders the config as a keyword/value DSN.
func (c *Config) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, c.Database, c.SSLMode)
}
