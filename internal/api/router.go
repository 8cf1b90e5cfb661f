package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Telemetry ingestion and unit state
		r.With(s.bodyLimit(maxJSONBodySize)).Post("/telemetry", s.handleSubmitTelemetry)
		r.Get("/units", s.handleListUnits)
		r.Get("/units/{id}", s.handleGetUnit)

		// Media pipeline
		r.Route("/media", func(r chi.Router) {
			r.Get("/", s.handleListMedia)
			r.With(s.bodyLimit(maxImageBodySize)).Post("/images", s.handleCreateImage)
			r.With(s.bodyLimit(s.videoBodyLimit())).Post("/videos", s.handleCreateVideo)
			r.Delete("/{id}", s.handleDeleteMedia)

			// Stored capture binaries, served straight off disk.
			if s.mediaDir != "" {
				fileServer := http.StripPrefix("/api/v1/media/files/", http.FileServer(http.Dir(s.mediaDir)))
				r.Get("/files/*", fileServer.ServeHTTP)
			}
		})

		// WebSocket event stream
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// videoBodyLimit is the request body cap for video uploads: the configured
// payload ceiling plus headroom for multipart framing. The media store
// enforces the exact payload limit.
func (s *Server) videoBodyLimit() int64 {
	return s.media.MaxVideoBytes() + maxJSONBodySize
}

// handleHealth returns the server health status with store counts.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	mediaCount, err := s.media.Count(r.Context())
	if err != nil {
		s.logger.Warn("health: media count failed", "error", err)
		mediaCount = -1
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"version":   s.version,
		"units":     s.units.Count(),
		"media":     mediaCount,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
