// Package sync pulls the current Wiz issue set through the proxy and
// refreshes the reporting database with it. Each run replaces the whole
// wiz_issues table so dashboards always reflect the latest snapshot.
package sync

import (
	"context"

	"wiz-graphql-proxy/internal/common/logging"
	"wiz-graphql-proxy/internal/wiz"
)

// IssueFetcher retrieves the current page of issues from Wiz.
type IssueFetcher interface {
	FetchIssues(ctx context.Context) (*wiz.IssuesPage, error)
}

// IssueStore replaces the persisted issue set with a fresh snapshot.
type IssueStore interface {
	ReplaceIssues(ctx context.Context, issues []wiz.Issue) error
}

// Syncer runs one fetch-and-refresh cycle against the store.
type Syncer struct {
	fetcher IssueFetcher
	store   IssueStore
	logger  logging.Logger
}

// New creates a Syncer wired to the given fetcher and store.
func New(fetcher IssueFetcher, store IssueStore) *Syncer {
	return &Syncer{
		fetcher: fetcher,
		store:   store,
		logger:  logging.WithFields(logging.String("component", "sync")),
	}
}

// Run fetches issues through the proxy and replaces the stored set.
func (s *Syncer) Run(ctx context.Context) error {
	s.logger.Info("Starting Wiz data sync")

	page, err := s.fetcher.FetchIssues(ctx)
	if err != nil {
		s.logger.Error("Sync failed", err)
		return err
	}

	if err := s.store.ReplaceIssues(ctx, page.Nodes); err != nil {
		s.logger.Error("Sync failed", err)
		return err
	}

	s.logger.Info("Synced issues to PostgreSQL",
		logging.Int("count", len(page.Nodes)),
		logging.Int("total", page.TotalCount))
	s.logger.Info("Sync completed successfully")
	return nil
}
