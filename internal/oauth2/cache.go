package oauth2

import (
	"sync"
	"time"
)

const (
	// safetyMargin is subtracted from the advertised lifetime when a token
	// is cached, so a token about to expire is never handed out.
	safetyMargin = 60 * time.Second

	// defaultLifetime applies when the token endpoint omits expires_in.
	defaultLifetime = 3600 * time.Second
)

// TokenCache holds the proxy's single cached access token.
type TokenCache struct {
	mu        sync.RWMutex
	token     string
	expiresAt time.Time

	now func() time.Time
}

// NewTokenCache creates an empty token cache.
func NewTokenCache() *TokenCache {
	return &TokenCache{now: time.Now}
}

// Get returns the cached token when one is present and still valid.
func (c *TokenCache) Get() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.token == "" || !c.now().Before(c.expiresAt) {
		return "", false
	}
	return c.token, true
}

// Set stores a token for the advertised lifetime less the safety margin.
// A zero or negative lifetime falls back to defaultLifetime.
func (c *TokenCache) Set(token string, lifetime time.Duration) {
	if lifetime <= 0 {
		lifetime = defaultLifetime
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.expiresAt = c.now().Add(lifetime - safetyMargin)
}

// Clear drops the cached token.
func (c *TokenCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.expiresAt = time.Time{}
}

// ExpiresAt returns the deadline after which Get reports a miss.
func (c *TokenCache) ExpiresAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.expiresAt
}
