// Package gemini talks to the Gemini generateContent REST API for two jobs:
// structured tool extraction (search-grounded, low temperature) and
// best-effort icon synthesis per tool.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Creativityliberty/Trace-AI/internal/apperr"
	"github.com/Creativityliberty/Trace-AI/internal/model"
)

const (
	requestTimeout = 120 * time.Second

	// maxPromptChunks bounds the transcript prefix sent for extraction
	// (500 chunks is roughly 5-10k tokens).
	maxPromptChunks = 500

	extractionTemperature = 0.15
)

type Client struct {
	httpClient      *http.Client
	baseURL         string
	apiKey          string
	extractionModel string
	imageModel      string
	log             zerolog.Logger
}

func NewClient(baseURL, apiKey, extractionModel, imageModel string, logger zerolog.Logger) *Client {
	return &Client{
		httpClient:      &http.Client{Timeout: requestTimeout},
		baseURL:         baseURL,
		apiKey:          apiKey,
		extractionModel: extractionModel,
		imageModel:      imageModel,
		log:             logger,
	}
}

func (c *Client) generateContent(ctx context.Context, modelName string, reqBody *generateRequest) (*generateResponse, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, modelName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("gemini: %s returned status %d: %s", modelName, resp.StatusCode, truncate(string(body), 200))
	}

	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("gemini: unreadable response: %w", err)
	}
	return &out, nil
}

// ExtractTools sends the transcript to the extraction model and decodes its
// JSON answer. The model occasionally wraps the JSON in prose, so only the
// substring between the first '{' and the last '}' is parsed.
func (c *Client) ExtractTools(ctx context.Context, chunks []model.TranscriptChunk) (*model.ExtractionResult, error) {
	prompt := buildTranscriptPrompt(chunks)
	temp := extractionTemperature

	resp, err := c.generateContent(ctx, c.extractionModel, &generateRequest{
		Contents: []content{{Parts: []part{{
			Text: "Process this transcript and extract technical tools/projects. Verify URLs via Google Search tool. Transcript data: " + prompt,
		}}}},
		SystemInstruction: &content{Parts: []part{{Text: systemPrompt}}},
		Tools:             []toolSpec{{GoogleSearch: &struct{}{}}},
		GenerationConfig: &generationConfig{
			Temperature:      &temp,
			ResponseMimeType: "application/json",
		},
	})
	if err != nil {
		if isSafetyBlock(err.Error()) {
			return nil, apperr.Wrap(apperr.KindSafetyBlocked, "Safety filters prevented transcript processing", err)
		}
		return nil, apperr.Wrap(apperr.KindExtraction, "Tool extraction failed", err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return nil, apperr.New(apperr.KindSafetyBlocked, "Safety filters prevented transcript processing")
	}
	if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason == "SAFETY" {
		return nil, apperr.New(apperr.KindSafetyBlocked, "Safety filters prevented transcript processing")
	}

	rawText := resp.text()
	if rawText == "" {
		return nil, apperr.New(apperr.KindExtraction, "Extraction model returned an empty response")
	}

	result, err := parseExtractionText(rawText)
	if err != nil {
		c.log.Error().Str("raw", truncate(rawText, 500)).Msg("extraction response not parseable")
		return nil, err
	}

	result.GroundingURLs = groundingURLs(resp)
	return result, nil
}

// parseExtractionText recovers the JSON object embedded in a raw model
// response and decodes it, coercing a missing tools field to an empty list.
func parseExtractionText(rawText string) (*model.ExtractionResult, error) {
	start := strings.Index(rawText, "{")
	end := strings.LastIndex(rawText, "}")
	if start == -1 || end == -1 || end < start {
		return nil, apperr.New(apperr.KindExtraction, "Extraction model returned no structured output")
	}

	var result model.ExtractionResult
	if err := json.Unmarshal([]byte(rawText[start:end+1]), &result); err != nil {
		return nil, apperr.Wrap(apperr.KindExtraction, "Extraction model returned malformed JSON", err)
	}

	if result.Tools == nil {
		result.Tools = []model.ToolMention{}
	}
	return &result, nil
}

// groundingURLs pulls citation URLs from the first candidate's grounding
// metadata, keeping order and dropping anything that is not http(s).
func groundingURLs(resp *generateResponse) []string {
	if len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return nil
	}
	var urls []string
	for _, gc := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if gc.Web == nil {
			continue
		}
		uri := gc.Web.URI
		if uri == "" {
			continue
		}
		if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
			urls = append(urls, uri)
		}
	}
	return urls
}

// SynthesizeVisual requests one icon image for a tool and returns it as a
// data URI. Any failure or missing image yields an empty string and an
// error for the caller to log; the pipeline never aborts on it.
func (c *Client) SynthesizeVisual(ctx context.Context, toolName, category string) (string, error) {
	if toolName == "" {
		toolName = "Technology"
	}
	if category == "" {
		category = "General"
	}

	resp, err := c.generateContent(ctx, c.imageModel, &generateRequest{
		Contents: []content{{Parts: []part{{
			Text: fmt.Sprintf(visualPromptTemplate, toolName, category),
		}}}},
		GenerationConfig: &generationConfig{
			ImageConfig: &imageConfig{AspectRatio: "1:1"},
		},
	})
	if err != nil {
		return "", err
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, p := range cand.Content.Parts {
			if p.InlineData != nil && p.InlineData.Data != "" {
				return "data:image/png;base64," + p.InlineData.Data, nil
			}
		}
	}
	return "", nil
}

func buildTranscriptPrompt(chunks []model.TranscriptChunk) string {
	if len(chunks) > maxPromptChunks {
		chunks = chunks[:maxPromptChunks]
	}
	parts := make([]string, 0, len(chunks))
	for i, ch := range chunks {
		parts = append(parts, fmt.Sprintf("[%d] %s", i, ch.Text))
	}
	return strings.Join(parts, " ")
}

func isSafetyBlock(msg string) bool {
	return strings.Contains(strings.ToLower(msg), "block")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
