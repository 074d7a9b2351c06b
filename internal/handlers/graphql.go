package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"

	apperrors "wiz-graphql-proxy/internal/common/errors"
)

// HandleGraphQL forwards a GraphQL request to the Wiz API with a bearer
// token attached and relays the upstream status and body verbatim.
func (h *Handlers) HandleGraphQL(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeError(w, apperrors.InternalError("failed to read request body", err))
		return
	}

	// Both outbound legs run detached from the caller's context so a dropped
	// client connection cannot cancel token acquisition or the upstream call
	// mid-flight. The clients' own timeouts bound each leg.
	ctx := context.Background()

	token, err := h.tokens.Token(ctx)
	if err != nil {
		h.writeError(w, err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.config.WizGraphQLURL, bytes.NewReader(body))
	if err != nil {
		h.writeError(w, apperrors.InternalError("failed to create upstream request", err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := h.upstream.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			h.writeError(w, apperrors.TimeoutError("upstream request"))
			return
		}
		h.writeError(w, apperrors.UpstreamError("upstream request failed", err))
		return
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		h.writeError(w, apperrors.UpstreamError("failed to read upstream response", err))
		return
	}

	// Upstream errors, GraphQL errors included, belong to the caller and
	// pass through untouched.
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(resp.StatusCode)
	w.Write(respBody)
}

// HandleGraphQLPreflight answers CORS preflight requests locally, without
// any token acquisition or upstream call.
func (h *Handlers) HandleGraphQLPreflight(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.WriteHeader(http.StatusOK)
}
