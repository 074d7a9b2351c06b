package oauth2

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"wiz-graphql-proxy/internal/common/errors"
	commonhttp "wiz-graphql-proxy/internal/common/http"
	"wiz-graphql-proxy/internal/common/logging"
)

// TokenResponse is the token endpoint's success payload.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	ExpiresIn   int64  `json:"expires_in,omitempty"`
}

// Credentials holds the client-credentials grant parameters.
type Credentials struct {
	AuthURL      string
	ClientID     string
	ClientSecret string
	Audience     string
}

// Manager acquires and caches access tokens for one set of credentials.
type Manager struct {
	creds  Credentials
	client *http.Client
	cache  *TokenCache
	logger logging.Logger

	// acquireMu serializes acquisition so concurrent cache misses result
	// in a single token request.
	acquireMu sync.Mutex
}

// NewManager creates a token manager that requests tokens with the given
// HTTP client. A nil client gets the default client.
func NewManager(creds Credentials, client *http.Client) *Manager {
	if client == nil {
		client = commonhttp.NewDefaultHTTPClient()
	}
	return &Manager{
		creds:  creds,
		client: client,
		cache:  NewTokenCache(),
		logger: logging.WithFields(logging.String("component", "oauth2")),
	}
}

// Token returns a valid access token, requesting a new one when the cache
// is cold or expired.
func (m *Manager) Token(ctx context.Context) (string, error) {
	if token, ok := m.cache.Get(); ok {
		m.logger.Debug("Using cached token")
		return token, nil
	}

	m.acquireMu.Lock()
	defer m.acquireMu.Unlock()

	// Another caller may have refreshed the token while we waited.
	if token, ok := m.cache.Get(); ok {
		return token, nil
	}

	m.logger.Info("Fetching new token from Wiz")

	tokenResp, err := m.requestToken(ctx)
	if err != nil {
		m.logger.Error("Failed to get Wiz token", err)
		return "", err
	}

	m.cache.Set(tokenResp.AccessToken, time.Duration(tokenResp.ExpiresIn)*time.Second)

	token, ok := m.cache.Get()
	if !ok {
		err := errors.AuthError("token lifetime shorter than safety margin").
			WithContext("expires_in", tokenResp.ExpiresIn)
		m.logger.Error("Failed to get Wiz token", err)
		return "", err
	}

	m.logger.Info("Token refreshed", logging.Time("expires_at", m.cache.ExpiresAt()))
	return token, nil
}

// Invalidate drops the cached token so the next call acquires a fresh one.
func (m *Manager) Invalidate() {
	m.cache.Clear()
}

// requestToken performs a single client_credentials grant request.
func (m *Manager) requestToken(ctx context.Context) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", m.creds.ClientID)
	form.Set("client_secret", m.creds.ClientSecret)
	form.Set("audience", m.creds.Audience)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.creds.AuthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.InternalError("failed to create token request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, errors.AuthError("token request failed").WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.AuthError("failed to read token response").WithCause(err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.AuthError("token request rejected").
			WithContext("status", resp.StatusCode).
			WithContext("body", truncate(string(body), maxErrorBodyLen))
	}

	var tokenResp TokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, errors.AuthError("failed to decode token response").WithCause(err)
	}

	if tokenResp.AccessToken == "" {
		return nil, errors.AuthError("no access token in response")
	}

	return &tokenResp, nil
}

// maxErrorBodyLen caps how much of a rejection body is carried in errors,
// keeping log lines readable when the endpoint returns a page of HTML.
const maxErrorBodyLen = 512

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
