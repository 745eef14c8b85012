package handlers

import (
	"encoding/json"
	"net/http"
)

// HealthResponse represents the health check payload.
type HealthResponse struct {
	Status string `json:"status"`
}

// Health responds to liveness probes.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}
