// Package wiz fetches security issues from the Wiz API by way of the
// GraphQL proxy, which handles authentication.
package wiz

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"wiz-graphql-proxy/internal/common/errors"
	commonhttp "wiz-graphql-proxy/internal/common/http"
	"wiz-graphql-proxy/internal/common/logging"
)

// issuesQuery is the query the sync job sends through the proxy.
const issuesQuery = `
query GetWizIssues {
  issuesV2(first: 100) {
    nodes {
      id
      severity
      status
      createdAt
      entitySnapshot {
        name
        type
      }
    }
    totalCount
  }
}
`

// EntitySnapshot identifies the cloud resource an issue points at.
type EntitySnapshot struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Issue is one security finding returned by the issuesV2 query.
type Issue struct {
	ID             string          `json:"id"`
	Severity       string          `json:"severity"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
	EntitySnapshot *EntitySnapshot `json:"entitySnapshot"`
}

// IssuesPage is one page of issues plus the overall count.
type IssuesPage struct {
	Nodes      []Issue `json:"nodes"`
	TotalCount int     `json:"totalCount"`
}

// Client queries the Wiz API through the GraphQL proxy.
type Client struct {
	proxyURL string
	http     *http.Client
	logger   logging.Logger
}

// NewClient creates a client that sends queries to the given proxy
// endpoint. A nil client gets the default client.
func NewClient(proxyURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = commonhttp.NewDefaultHTTPClient()
	}
	return &Client{
		proxyURL: proxyURL,
		http:     httpClient,
		logger:   logging.WithFields(logging.String("component", "wiz")),
	}
}

// FetchIssues retrieves the current page of issues. The proxy handles
// authentication, so the request itself carries no credentials.
func (c *Client) FetchIssues(ctx context.Context) (*IssuesPage, error) {
	payload, err := json.Marshal(map[string]string{"query": issuesQuery})
	if err != nil {
		return nil, errors.InternalError("failed to encode query", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.proxyURL, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.InternalError("failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("Fetching issues from proxy")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.UpstreamError("proxy request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.UpstreamError("failed to read proxy response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.UpstreamError("proxy returned an error", nil).
			WithContext("status", resp.StatusCode).
			WithContext("body", string(body))
	}

	var result struct {
		Data struct {
			IssuesV2 *IssuesPage `json:"issuesV2"`
		} `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, errors.UpstreamError("failed to decode issues response", err)
	}

	if len(result.Errors) > 0 {
		return nil, errors.UpstreamError("issues query failed", nil).
			WithContext("message", result.Errors[0].Message)
	}

	if result.Data.IssuesV2 == nil {
		return nil, errors.UpstreamError("response missing issuesV2 data", nil)
	}

	return result.Data.IssuesV2, nil
}
