package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3"

	"github.com/Creativityliberty/Trace-AI/internal/config"
	"github.com/Creativityliberty/Trace-AI/internal/gemini"
	"github.com/Creativityliberty/Trace-AI/internal/handler"
	"github.com/Creativityliberty/Trace-AI/internal/middleware"
	"github.com/Creativityliberty/Trace-AI/internal/router"
	"github.com/Creativityliberty/Trace-AI/internal/service"
	"github.com/Creativityliberty/Trace-AI/internal/storage"
	"github.com/Creativityliberty/Trace-AI/internal/supadata"
)

func main() {
	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, "trace-ai")
	logger := middleware.Logger

	ctx := context.Background()
	store, err := newStore(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open archive storage: %v", err)
	}

	archive := service.NewArchiveService(store, cfg.MaxArchiveItems, cfg.KeepThumbnailsCount, logger)
	archive.Load(ctx)

	transcripts := supadata.NewClient(cfg.SupadataAPIURL, cfg.SupadataAPIKey)
	ai := gemini.NewClient(cfg.GeminiAPIURL, cfg.GeminiAPIKey, cfg.GeminiExtractionModel, cfg.GeminiImageModel, logger)

	pipeline := service.NewPipelineService(transcripts, ai, ai, archive, logger)
	stats := service.NewStatsService(archive)
	export := service.NewExportService(archive)

	handler.InitMetrics(archive)

	h := &router.Handlers{
		Analyze: handler.NewAnalyzeHandler(pipeline),
		Archive: handler.NewArchiveHandler(archive),
		Stats:   handler.NewStatsHandler(stats),
		Export:  handler.NewExportHandler(export),
		Health:  handler.NewHealthHandler(store),
	}

	app := fiber.New(fiber.Config{
		AppName:      "Trace AI API",
		ServerHeader: "TraceAI",
	})

	router.Setup(app, h, cfg.CORSOrigins)

	logger.Info().
		Str("port", cfg.Port).
		Str("env", cfg.Environment).
		Str("backend", cfg.ArchiveBackend).
		Int("archived", archive.Len()).
		Msg("trace-ai backend starting")
	log.Fatal(app.Listen(":" + cfg.Port))
}

// newStore selects the archive backend from configuration.
func newStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	if cfg.ArchiveBackend == "redis" {
		return storage.NewRedisStore(ctx, cfg.RedisURL)
	}
	return storage.NewFileStore(cfg.ArchivePath, cfg.ArchiveMaxBytes)
}
