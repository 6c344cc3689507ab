package server

import (
	"os"

	"github.com/fulmenhq/gofulmen/signals"

	"go.uber.org/zap"

	"github.com/alertgate/alertgate/internal/observability"
	"github.com/alertgate/alertgate/internal/server/handlers"
)

// registerRoutes registers all HTTP routes
func (s *Server) registerRoutes() {
	// Standard health endpoints
	s.router.Get("/health", handlers.HealthHandler)
	s.router.Get("/health/live", handlers.LivenessHandler)
	s.router.Get("/health/ready", handlers.ReadinessHandler)
	s.router.Get("/health/startup", handlers.StartupHandler)

	// Version endpoint
	s.router.Get("/version", handlers.VersionHandler)

	// Metrics endpoint (in server package to access HandleError)
	s.router.Get("/metrics", MetricsHandler)

	// Event intake and gate administration
	s.router.Post("/api/trigger", handlers.TriggerHandler(s.deps.Dispatcher))
	s.router.Get("/api/gates", handlers.GatesListHandler(s.deps.Gate))
	s.router.Post("/api/gates/prune", handlers.GatesPruneHandler(s.deps.Gate))
	s.router.Post("/api/gates/reset", handlers.GatesResetHandler(s.deps.Gate))
	s.router.Get("/api/history", handlers.HistoryHandler(s.deps.Store))

	// Admin signal endpoint (optional, requires ALERTGATE_ADMIN_TOKEN)
	s.registerAdminEndpoint()
}

// registerAdminEndpoint optionally registers the admin signal endpoint
func (s *Server) registerAdminEndpoint() {
	adminToken := os.Getenv("ALERTGATE_ADMIN_TOKEN")
	logger := observability.ServerLogger

	if adminToken == "" {
		if logger != nil {
			logger.Debug("Admin signal endpoint disabled (no ALERTGATE_ADMIN_TOKEN set)")
		}
		return
	}

	// Create HTTP signal handler with bearer token auth and rate limiting
	handler := signals.NewHTTPHandler(signals.HTTPConfig{
		TokenAuth: adminToken,
		RateLimit: 10,  // 10 requests per minute
		RateBurst: 5,   // burst size
		Manager:   nil, // use default global manager
	})

	// Register admin endpoint
	s.router.Post("/admin/signal", handler.ServeHTTP)

	if logger != nil {
		logger.Info("Admin signal endpoint enabled",
			zap.String("path", "/admin/signal"),
			zap.String("auth", "bearer token"),
			zap.String("rate_limit", "10/min, burst 5"))
		logger.Warn("Admin endpoint enabled - ensure this server is not exposed to public internet")
	}
}
