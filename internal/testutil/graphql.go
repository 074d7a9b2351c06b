package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// UpstreamRequest records one request received by a GraphQLUpstream.
type UpstreamRequest struct {
	Authorization string
	ContentType   string
	Body          []byte
}

// GraphQLUpstream is a fake GraphQL endpoint for tests. It records every
// request and replies with a configurable status and body.
type GraphQLUpstream struct {
	Server *httptest.Server

	// Status and Body form the response. Status zero means 200.
	Status int
	Body   string

	mu       sync.Mutex
	requests []UpstreamRequest
}

// NewGraphQLUpstream starts a fake GraphQL endpoint. Callers must Close it.
func NewGraphQLUpstream() *GraphQLUpstream {
	upstream := &GraphQLUpstream{
		Body: `{"data":{}}`,
	}
	upstream.Server = httptest.NewServer(http.HandlerFunc(upstream.handle))
	return upstream
}

// URL returns the endpoint URL.
func (u *GraphQLUpstream) URL() string {
	return u.Server.URL
}

// Close shuts down the fake endpoint.
func (u *GraphQLUpstream) Close() {
	u.Server.Close()
}

// Requests returns a copy of all recorded requests.
func (u *GraphQLUpstream) Requests() []UpstreamRequest {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]UpstreamRequest(nil), u.requests...)
}

// LastRequest returns the most recent recorded request, or nil.
func (u *GraphQLUpstream) LastRequest() *UpstreamRequest {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.requests) == 0 {
		return nil
	}
	req := u.requests[len(u.requests)-1]
	return &req
}

func (u *GraphQLUpstream) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	u.mu.Lock()
	u.requests = append(u.requests, UpstreamRequest{
		Authorization: r.Header.Get("Authorization"),
		ContentType:   r.Header.Get("Content-Type"),
		Body:          body,
	})
	u.mu.Unlock()

	status := u.Status
	if status == 0 {
		status = http.StatusOK
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(u.Body))
}
