package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IdentityProvider is a fake OAuth token endpoint for tests. It validates
// client_credentials form requests and mints signed JWTs.
type IdentityProvider struct {
	Server *httptest.Server

	// Expected credentials. Requests with anything else get invalid_client.
	ClientID     string
	ClientSecret string
	Audience     string

	// SigningKey signs issued tokens.
	SigningKey []byte

	// ExpiresIn is the advertised token lifetime in seconds. Zero omits
	// expires_in from the response.
	ExpiresIn int64

	// FailStatus, when non-zero, makes the endpoint reject every request
	// with that status and FailBody as the response body.
	FailStatus int
	FailBody   string

	// RawBody, when set, is returned verbatim with a 200 status. Useful
	// for malformed success payloads.
	RawBody string

	grants int32
}

// NewIdentityProvider starts a fake token endpoint with default test
// credentials. Callers must Close it.
func NewIdentityProvider() *IdentityProvider {
	idp := &IdentityProvider{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		Audience:     "wiz-api",
		SigningKey:   []byte("test-signing-key"),
		ExpiresIn:    3600,
	}
	idp.Server = httptest.NewServer(http.HandlerFunc(idp.handleToken))
	return idp
}

// URL returns the token endpoint URL.
func (idp *IdentityProvider) URL() string {
	return idp.Server.URL
}

// Close shuts down the fake endpoint.
func (idp *IdentityProvider) Close() {
	idp.Server.Close()
}

// Grants returns how many tokens the endpoint has issued.
func (idp *IdentityProvider) Grants() int {
	return int(atomic.LoadInt32(&idp.grants))
}

func (idp *IdentityProvider) handleToken(w http.ResponseWriter, r *http.Request) {
	if idp.FailStatus != 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(idp.FailStatus)
		w.Write([]byte(idp.FailBody))
		return
	}

	if idp.RawBody != "" {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(idp.RawBody))
		return
	}

	if err := r.ParseForm(); err != nil {
		writeOAuthError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	if r.Form.Get("grant_type") != "client_credentials" {
		writeOAuthError(w, http.StatusBadRequest, "unsupported_grant_type")
		return
	}

	if r.Form.Get("client_id") != idp.ClientID || r.Form.Get("client_secret") != idp.ClientSecret {
		writeOAuthError(w, http.StatusUnauthorized, "invalid_client")
		return
	}

	token, err := idp.mintToken()
	if err != nil {
		writeOAuthError(w, http.StatusInternalServerError, "server_error")
		return
	}

	atomic.AddInt32(&idp.grants, 1)

	resp := map[string]interface{}{
		"access_token": token,
		"token_type":   "Bearer",
	}
	if idp.ExpiresIn > 0 {
		resp["expires_in"] = idp.ExpiresIn
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (idp *IdentityProvider) mintToken() (string, error) {
	lifetime := idp.ExpiresIn
	if lifetime <= 0 {
		lifetime = 3600
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": idp.ClientID,
		"aud": idp.Audience,
		"iat": now.Unix(),
		"exp": now.Add(time.Duration(lifetime) * time.Second).Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(idp.SigningKey)
}

func writeOAuthError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": code})
}
