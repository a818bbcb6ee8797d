package middleware

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// Input limits for the public API surface.
const (
	MaxURLLen  = 2048 // analyze request URL field
	VideoIDLen = 11   // YouTube video identifier length
)

// videoIDRe matches an exact YouTube video id: 11 characters of
// alphanumeric, dash or underscore.
var videoIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateAnalyzeURL checks the free-text URL field before it reaches the
// pipeline. Shape recognition happens later; this only rejects empty or
// absurdly long input.
func ValidateAnalyzeURL(url string) (string, string) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", "url is required"
	}
	if len(url) > MaxURLLen {
		return "", "url is too long"
	}
	return url, ""
}

// ValidateVideoID checks that a path parameter is a well-formed video id.
func ValidateVideoID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "videoId is required"
	}
	if !videoIDRe.MatchString(id) {
		return "", "videoId must be an 11-character video identifier"
	}
	return id, ""
}
