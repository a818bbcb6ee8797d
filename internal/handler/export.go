package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Creativityliberty/Trace-AI/internal/middleware"
	"github.com/Creativityliberty/Trace-AI/internal/service"
)

type ExportHandler struct {
	svc *service.ExportService
}

func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// ExportArchive handles GET /api/export/archive
// Serves the full archive as a downloadable JSON document.
func (h *ExportHandler) ExportArchive(c fiber.Ctx) error {
	data, filename, err := h.svc.ArchiveJSON()
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to export archive")
	}
	return sendDownload(c, data, filename, "application/json")
}

// ExportResult handles GET /api/export/:videoId
func (h *ExportHandler) ExportResult(c fiber.Ctx) error {
	videoID, errMsg := middleware.ValidateVideoID(c.Params("videoId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	data, filename, err := h.svc.ResultJSON(videoID)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "No archived result for this video")
	}
	return sendDownload(c, data, filename, "application/json")
}

// ExportResultMarkdown handles GET /api/export/:videoId/markdown
func (h *ExportHandler) ExportResultMarkdown(c fiber.Ctx) error {
	videoID, errMsg := middleware.ValidateVideoID(c.Params("videoId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	data, filename, err := h.svc.ResultMarkdown(videoID)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "No archived result for this video")
	}
	return sendDownload(c, data, filename, "text/markdown")
}

func sendDownload(c fiber.Ctx, data []byte, filename, contentType string) error {
	c.Set("Content-Type", contentType)
	c.Set("Content-Disposition", "attachment; filename="+filename)
	return c.Send(data)
}
