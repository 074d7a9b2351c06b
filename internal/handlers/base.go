package handlers

import (
	"encoding/json"
	"net/http"

	"wiz-graphql-proxy/internal/common/errors"
	"wiz-graphql-proxy/internal/common/logging"
	"wiz-graphql-proxy/internal/config"
	"wiz-graphql-proxy/internal/oauth2"
)

// Handlers bundles the dependencies shared by the proxy's HTTP handlers.
type Handlers struct {
	config   *config.Config
	tokens   *oauth2.Manager
	upstream *http.Client
	logger   logging.Logger
}

// New creates the handler set. The upstream client carries the timeout for
// the forwarded GraphQL call.
func New(cfg *config.Config, tokens *oauth2.Manager, upstream *http.Client) *Handlers {
	return &Handlers{
		config:   cfg,
		tokens:   tokens,
		upstream: upstream,
		logger:   logging.WithFields(logging.String("component", "handlers")),
	}
}

// writeError maps a proxy-side failure to a gateway response. The body is
// always JSON with a single error field.
func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)

	h.logger.Error("Proxy request failed", err, logging.Int("status", status))

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
