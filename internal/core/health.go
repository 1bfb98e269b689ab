package core

import (
	"net/http"
	"time"
)

// healthResponse is the JSON body for the liveness endpoint.
type healthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// HandleHealth is the liveness endpoint, mounted at GET /health. It is
// public and does not probe dependencies; a process that can serve it is
// considered alive.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	JSON(w, r, http.StatusOK, healthResponse{
		Status:    "healthy",
		Service:   s.Config.Service,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   s.Config.Build.Version,
	})
}
