package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	LogLevel    string
	Environment string
	CORSOrigins string

	SupadataAPIURL string
	SupadataAPIKey string

	GeminiAPIURL          string
	GeminiAPIKey          string
	GeminiExtractionModel string
	GeminiImageModel      string

	ArchiveBackend  string // "file" or "redis"
	ArchivePath     string
	ArchiveMaxBytes int
	RedisURL        string

	MaxArchiveItems     int
	KeepThumbnailsCount int
}

func Load() *Config {
	// A missing .env is fine; real environments inject variables directly.
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Environment: getEnv("ENVIRONMENT", "development"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		SupadataAPIURL: getEnv("SUPADATA_API_URL", "https://api.supadata.ai"),
		SupadataAPIKey: getEnv("SUPADATA_API_KEY", ""),

		GeminiAPIURL:          getEnv("GEMINI_API_URL", "https://generativelanguage.googleapis.com"),
		GeminiAPIKey:          getEnv("GEMINI_API_KEY", ""),
		GeminiExtractionModel: getEnv("GEMINI_EXTRACTION_MODEL", "gemini-3-pro-preview"),
		GeminiImageModel:      getEnv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),

		ArchiveBackend:  getEnv("ARCHIVE_BACKEND", "file"),
		ArchivePath:     getEnv("ARCHIVE_PATH", "./data"),
		ArchiveMaxBytes: getEnvInt("ARCHIVE_MAX_BYTES", 5*1024*1024),
		RedisURL:        getEnv("REDIS_URL", ""),

		MaxArchiveItems:     getEnvInt("MAX_ARCHIVE_ITEMS", 50),
		KeepThumbnailsCount: getEnvInt("KEEP_THUMBNAILS_COUNT", 10),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
