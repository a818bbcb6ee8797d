package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Creativityliberty/Trace-AI/internal/service"
)

type StatsHandler struct {
	svc *service.StatsService
}

func NewStatsHandler(svc *service.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

// GetStats handles GET /api/stats
func (h *StatsHandler) GetStats(c fiber.Ctx) error {
	return c.JSON(h.svc.GetStats())
}
