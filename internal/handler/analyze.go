package handler

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/Creativityliberty/Trace-AI/internal/apperr"
	"github.com/Creativityliberty/Trace-AI/internal/middleware"
	"github.com/Creativityliberty/Trace-AI/internal/service"
)

type AnalyzeHandler struct {
	svc *service.PipelineService
}

func NewAnalyzeHandler(svc *service.PipelineService) *AnalyzeHandler {
	return &AnalyzeHandler{svc: svc}
}

// AnalyzeRequest is the API request body for starting an analysis.
type AnalyzeRequest struct {
	URL string `json:"url"`
}

// Analyze handles POST /api/analyze
func (h *AnalyzeHandler) Analyze(c fiber.Ctx) error {
	var req AnalyzeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	url, errMsg := middleware.ValidateAnalyzeURL(req.URL)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_URL", errMsg)
	}

	start := time.Now()
	result, err := h.svc.Analyze(c.Context(), url)
	if err != nil {
		Metrics.AnalysesTotal.WithLabelValues(string(apperr.KindOf(err))).Inc()
		return analyzeError(c, err)
	}

	Metrics.AnalysesTotal.WithLabelValues("completed").Inc()
	Metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	return c.JSON(result)
}

// Status handles GET /api/analyze/status
func (h *AnalyzeHandler) Status(c fiber.Ctx) error {
	step, lastErr := h.svc.Status()
	resp := fiber.Map{"step": step}
	if lastErr != "" {
		resp["error"] = lastErr
	}
	return c.JSON(resp)
}

// analyzeError maps pipeline error kinds to API error responses.
func analyzeError(c fiber.Ctx, err error) error {
	msg := apperr.UserMessage(err)
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_URL", msg)
	case apperr.KindBusy:
		return middleware.ErrorResponse(c, fiber.StatusConflict, "PIPELINE_BUSY", msg)
	case apperr.KindEmptyTranscript:
		return middleware.ErrorResponse(c, fiber.StatusUnprocessableEntity, "EMPTY_TRANSCRIPT", msg)
	case apperr.KindSafetyBlocked:
		return middleware.ErrorResponse(c, fiber.StatusUnprocessableEntity, "SAFETY_BLOCKED", msg)
	case apperr.KindTranscript:
		return middleware.ErrorResponse(c, fiber.StatusBadGateway, "TRANSCRIPT_FAILED", msg)
	case apperr.KindExtraction:
		return middleware.ErrorResponse(c, fiber.StatusBadGateway, "EXTRACTION_FAILED", msg)
	default:
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", msg)
	}
}
