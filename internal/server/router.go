package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/jens-limbach/SSv2-webhook-sync-and-async/internal/handlers"
	"github.com/jens-limbach/SSv2-webhook-sync-and-async/internal/middleware"
)

// NewRouter constructs a ServeMux with the webhook routes registered.
func NewRouter(h *handlers.WebhookHandler, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()

	// Webhook endpoints (Go 1.22+ method routing)
	mux.HandleFunc("POST /webhooks/calculate-score-sync", h.CalculateScoreSync)
	mux.HandleFunc("POST /webhooks/calculate-score-async", h.CalculateScoreAsync)

	// Health check and metrics
	mux.HandleFunc("GET /health", h.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", middleware.HeaderRequestID},
	})

	return middleware.RequestID(corsHandler.Handler(mux))
}
