// Package postgres persists Wiz issues in PostgreSQL for the Grafana
// dashboards that read the reporting database.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"wiz-graphql-proxy/internal/common/errors"
	"wiz-graphql-proxy/internal/common/logging"
	"wiz-graphql-proxy/internal/wiz"
)

// schema statements are idempotent and applied on every connect.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS wiz_issues (
		id VARCHAR(255) PRIMARY KEY,
		severity VARCHAR(50),
		status VARCHAR(50),
		created_at TIMESTAMPTZ,
		entity_name VARCHAR(255),
		entity_type VARCHAR(100),
		last_synced TIMESTAMPTZ DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_wiz_issues_severity ON wiz_issues(severity)`,
	`CREATE INDEX IF NOT EXISTS idx_wiz_issues_status ON wiz_issues(status)`,
}

const upsertIssueSQL = `
INSERT INTO wiz_issues (id, severity, status, created_at, entity_name, entity_type)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
	severity = EXCLUDED.severity,
	status = EXCLUDED.status,
	entity_name = EXCLUDED.entity_name,
	entity_type = EXCLUDED.entity_type,
	last_synced = NOW()`

// Store writes Wiz issues to the reporting database.
type Store struct {
	conn   *pgx.Conn
	logger logging.Logger
}

// Connect opens a connection and ensures the schema exists.
func Connect(ctx context.Context, cfg *Config) (*Store, error) {
	conn, err := pgx.Connect(ctx, cfg.ConnectionString())
	if err != nil {
		return nil, errors.InternalError("failed to connect to PostgreSQL", err)
	}

	store := &Store{
		conn:   conn,
		logger: logging.WithFields(logging.String("component", "postgres")),
	}

	if err := store.migrate(ctx); err != nil {
		conn.Close(ctx)
		return nil, err
	}

	return store, nil
}

func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.conn.Exec(ctx, stmt); err != nil {
			return errors.InternalError("failed to apply schema", err)
		}
	}
	return nil
}

// ReplaceIssues refreshes the wiz_issues table in one transaction:
// truncate, then upsert every issue. A failure rolls the whole refresh
// back, leaving the previous data intact.
func (s *Store) ReplaceIssues(ctx context.Context, issues []wiz.Issue) error {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return errors.InternalError("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "TRUNCATE TABLE wiz_issues"); err != nil {
		return errors.InternalError("failed to clear issues", err)
	}

	for _, issue := range issues {
		var entityName, entityType *string
		if issue.EntitySnapshot != nil {
			entityName = &issue.EntitySnapshot.Name
			entityType = &issue.EntitySnapshot.Type
		}

		_, err := tx.Exec(ctx, upsertIssueSQL,
			issue.ID, issue.Severity, issue.Status, issue.CreatedAt, entityName, entityType)
		if err != nil {
			return errors.InternalError("failed to insert issue", err).
				WithContext("issue_id", issue.ID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.InternalError("failed to commit refresh", err)
	}

	s.logger.Debug("Issues table refreshed", logging.Int("count", len(issues)))
	return nil
}

// Health verifies the connection is alive.
func (s *Store) Health(ctx context.Context) error {
	return s.conn.Ping(ctx)
}

// Close releases the connection.
func (s *Store) Close(ctx context.Context) error {
	return s.conn.Close(ctx)
}
