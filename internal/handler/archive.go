package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Creativityliberty/Trace-AI/internal/middleware"
	"github.com/Creativityliberty/Trace-AI/internal/service"
)

type ArchiveHandler struct {
	svc *service.ArchiveService
}

func NewArchiveHandler(svc *service.ArchiveService) *ArchiveHandler {
	return &ArchiveHandler{svc: svc}
}

// List handles GET /api/archive
func (h *ArchiveHandler) List(c fiber.Ctx) error {
	return c.JSON(h.svc.List())
}

// Get handles GET /api/archive/:videoId
func (h *ArchiveHandler) Get(c fiber.Ctx) error {
	videoID, errMsg := middleware.ValidateVideoID(c.Params("videoId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	res, ok := h.svc.Get(videoID)
	if !ok {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "No archived result for this video")
	}
	return c.JSON(res)
}

// Delete handles DELETE /api/archive/:videoId?confirm=true
// Deletion is irreversible, so the caller must confirm explicitly.
func (h *ArchiveHandler) Delete(c fiber.Ctx) error {
	videoID, errMsg := middleware.ValidateVideoID(c.Params("videoId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	if fiber.Query[string](c, "confirm") != "true" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "CONFIRM_REQUIRED",
			"Deletion is irreversible; pass confirm=true to proceed")
	}

	if !h.svc.Delete(c.Context(), videoID) {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "No archived result for this video")
	}
	return c.JSON(fiber.Map{"success": true})
}
