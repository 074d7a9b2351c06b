package handlers

import (
	"encoding/json"
	"net/http"
)

// HealthCheck reports liveness. It never calls the auth endpoint or the
// upstream, so it stays green while Wiz is down.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}
