package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wiz-graphql-proxy/internal/config"
)

func TestNewConfig(t *testing.T) {
	appCfg := &config.Config{
		PostgresHost:     "db.internal",
		PostgresPort:     "5433",
		PostgresDB:       "reporting",
		PostgresUser:     "grafana",
		PostgresPassword: "secret",
		PostgresSSLMode:  "require",
	}

	cfg := NewConfig(appCfg)

	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, "5433", cfg.Port)
	assert.Equal(t, "reporting", cfg.Database)
	assert.Equal(t, "grafana", cfg.Username)
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, "require", cfg.SSLMode)
}

func TestConnectionString(t *testing.T) {
	cfg := &Config{
		Host:     "localhost",
		Port:     "5432",
		Database: "reporting",
		Username: "postgres",
		Password: "pw",
		SSLMode:  "disable",
	}

	got := cfg.ConnectionString()
	assert.Equal(t, "host=localhost port=5432 user=postgres password=pw dbname=reporting sslmode=disable", got)
}

func TestSchemaStatements(t *testing.T) {
	require.Len(t, schema, 3)

	table := schema[0]
	assert.True(t, strings.HasPrefix(strings.TrimSpace(table), "CREATE TABLE IF NOT EXISTS wiz_issues"))

	columns := []string{
		"id VARCHAR(255) PRIMARY KEY",
		"severity VARCHAR(50)",
		"status VARCHAR(50)",
		"created_at TIMESTAMPTZ",
		"entity_name VARCHAR(255)",
		"entity_type VARCHAR(100)",
		"last_synced TIMESTAMPTZ DEFAULT NOW()",
	}
	for _, column := range columns {
		assert.Contains(t, table, column)
	}

	assert.Contains(t, schema[1], "idx_wiz_issues_severity")
	assert.Contains(t, schema[2], "idx_wiz_issues_status")
	for _, idx := range schema[1:] {
		assert.Contains(t, idx, "CREATE INDEX IF NOT EXISTS")
	}
}

func TestUpsertStatement(t *testing.T) {
	assert.Contains(t, upsertIssueSQL, "INSERT INTO wiz_issues")
	assert.Contains(t, upsertIssueSQL, "VALUES ($1, $2, $3, $4, $5, $6)")
	assert.Contains(t, upsertIssueSQL, "ON CONFLICT (id) DO UPDATE SET")
	assert.Contains(t, upsertIssueSQL, "last_synced = NOW()")

	// created_at keeps its first-seen value on conflict.
	assert.NotContains(t, upsertIssueSQL, "created_at = EXCLUDED")
}
