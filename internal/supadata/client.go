// Package supadata wraps the Supadata transcript API. One endpoint, no
// retries: the first failure is terminal for that invocation.
package supadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Creativityliberty/Trace-AI/internal/apperr"
	"github.com/Creativityliberty/Trace-AI/internal/model"
)

const requestTimeout = 60 * time.Second

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// errorBody is the JSON shape of a non-2xx Supadata response.
type errorBody struct {
	Message string `json:"message"`
}

// FetchTranscript requests the transcript for a video URL. On a non-2xx
// status it fails with the server-supplied message, degrading to a generic
// one when the error body is not valid JSON. The payload is returned as-is;
// the caller normalizes its shape.
func (c *Client) FetchTranscript(ctx context.Context, videoURL string) (*model.TranscriptPayload, error) {
	endpoint := fmt.Sprintf("%s/v1/transcript?url=%s&text=false", c.baseURL, url.QueryEscape(videoURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTranscript, "Failed to fetch transcript", err)
	}
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTranscript, "Failed to fetch transcript", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTranscript, "Failed to fetch transcript", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := "Failed to fetch transcript"
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil && eb.Message != "" {
			msg = eb.Message
		}
		return nil, apperr.New(apperr.KindTranscript, msg)
	}

	var payload model.TranscriptPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, apperr.Wrap(apperr.KindTranscript, "Transcript service returned an unreadable response", err)
	}
	return &payload, nil
}
