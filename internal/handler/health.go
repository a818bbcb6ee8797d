package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/Creativityliberty/Trace-AI/internal/storage"
)

type HealthHandler struct {
	store   storage.Store
	startAt time.Time
}

func NewHealthHandler(store storage.Store) *HealthHandler {
	return &HealthHandler{
		store:   store,
		startAt: time.Now(),
	}
}

// Live handles GET /health/live.
func (h *HealthHandler) Live(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready handles GET /health/ready, including a storage backend check.
func (h *HealthHandler) Ready(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
	defer cancel()

	overallStatus := "healthy"
	checks := fiber.Map{
		"storage": checkStorage(ctx, h.store),
	}
	if storageCheck, ok := checks["storage"].(fiber.Map); ok {
		if storageCheck["status"] != "up" {
			overallStatus = "degraded"
		}
	}

	resp := fiber.Map{
		"status":         overallStatus,
		"checks":         checks,
		"uptime_seconds": int(time.Since(h.startAt).Seconds()),
		"version":        "1.0.0",
	}

	status := fiber.StatusOK
	if overallStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(resp)
}

func checkStorage(ctx context.Context, store storage.Store) fiber.Map {
	pinger, ok := store.(storage.Pinger)
	if !ok {
		return fiber.Map{"status": "up"}
	}

	start := time.Now()
	err := pinger.Ping(ctx)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return fiber.Map{
			"status":     "down",
			"latency_ms": latency,
			"error":      "storage unreachable",
		}
	}
	return fiber.Map{
		"status":     "up",
		"latency_ms": latency,
	}
}
