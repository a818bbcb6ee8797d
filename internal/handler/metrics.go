package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/Creativityliberty/Trace-AI/internal/service"
)

// Metrics holds all Prometheus collectors for the Trace AI backend.
var Metrics = struct {
	AnalysesTotal    *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	ArchiveEntries   prometheus.GaugeFunc
}{}

// InitMetrics registers all Prometheus metrics. Call once at startup.
func InitMetrics(archive *service.ArchiveService) {
	Metrics.AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trace_analyses_total",
			Help: "Total analysis runs, by outcome.",
		},
		[]string{"outcome"},
	)

	Metrics.AnalysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "trace_analysis_duration_seconds",
			Help:    "End-to-end duration of completed analysis runs.",
			Buckets: []float64{1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)

	Metrics.RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trace_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by endpoint and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	Metrics.RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "trace_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	// Archive gauge — read live from the archive service
	if archive != nil {
		Metrics.ArchiveEntries = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "trace_archive_entries",
				Help: "Number of analysis results currently archived.",
			},
			func() float64 {
				return float64(archive.Len())
			},
		)

		prometheus.MustRegister(Metrics.ArchiveEntries)
	}

	prometheus.MustRegister(
		Metrics.AnalysesTotal,
		Metrics.AnalysisDuration,
		Metrics.RequestDuration,
		Metrics.RequestsInFlight,
	)
}

// MetricsMiddleware records request duration and in-flight count for Prometheus.
func MetricsMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		// Don't instrument the /metrics endpoint itself
		if c.Path() == "/metrics" {
			return c.Next()
		}

		// Copy path and method into owned strings BEFORE c.Next() — Fiber
		// returns slices backed by the fasthttp buffer which can be reused
		// or overwritten by handlers (especially fasthttpadaptor).
		path := string([]byte(c.Path()))
		method := string([]byte(c.Method()))
		endpoint := sanitizeEndpoint(path)

		Metrics.RequestsInFlight.Inc()
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())

		Metrics.RequestDuration.WithLabelValues(endpoint, method, status).Observe(duration)
		Metrics.RequestsInFlight.Dec()

		return err
	}
}

// sanitizeEndpoint normalizes paths to avoid cardinality explosion.
func sanitizeEndpoint(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/archive/"):
		return "/api/archive/:videoId"
	case strings.HasPrefix(path, "/api/export/") && path != "/api/export/archive":
		if strings.HasSuffix(path, "/markdown") {
			return "/api/export/:videoId/markdown"
		}
		return "/api/export/:videoId"
	default:
		return path
	}
}

// MetricsHandler serves the Prometheus /metrics endpoint via Fiber.
func MetricsHandler() fiber.Handler {
	httpHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c fiber.Ctx) error {
		httpHandler(c.Context())
		return nil
	}
}
