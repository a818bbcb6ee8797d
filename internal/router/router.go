package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/Creativityliberty/Trace-AI/internal/handler"
	"github.com/Creativityliberty/Trace-AI/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Analyze *handler.AnalyzeHandler
	Archive *handler.ArchiveHandler
	Stats   *handler.StatsHandler
	Export  *handler.ExportHandler
	Health  *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(middleware.NewCORS(corsOrigins))
	app.Use(handler.MetricsMiddleware())

	// Health checks (before API group)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)

	// Prometheus metrics
	app.Get("/metrics", handler.MetricsHandler())

	// Rate limiters, per route family
	analyzeLimiter := middleware.NewAnalyzeRateLimiter()
	archiveLimiter := middleware.NewArchiveRateLimiter()
	statsLimiter := middleware.NewStatsRateLimiter()
	exportLimiter := middleware.NewExportRateLimiter()

	// API routes
	api := app.Group("/api")

	// Analysis routes
	api.Post("/analyze", h.Analyze.Analyze, analyzeLimiter.Handler())
	api.Get("/analyze/status", h.Analyze.Status)

	// Archive routes
	api.Get("/archive", h.Archive.List, archiveLimiter.Handler())
	api.Get("/archive/:videoId", h.Archive.Get, archiveLimiter.Handler())
	api.Delete("/archive/:videoId", h.Archive.Delete, archiveLimiter.Handler())

	// Stats routes
	api.Get("/stats", h.Stats.GetStats, statsLimiter.Handler())

	// Export routes
	api.Get("/export/archive", h.Export.ExportArchive, exportLimiter.Handler())
	api.Get("/export/:videoId", h.Export.ExportResult, exportLimiter.Handler())
	api.Get("/export/:videoId/markdown", h.Export.ExportResultMarkdown, exportLimiter.Handler())
}
