package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// GET /health
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// GET /metrics
func (s *Server) exportMetrics(w http.ResponseWriter, r *http.Request) {
	body, err := s.exporter.Export()
	if err != nil {
		s.logger.Error("Failed to export metrics", slog.Any("error", err))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("failed to export metrics\n"))
		return
	}

	w.Header().Set("Content-Type", s.exporter.ContentType())
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
