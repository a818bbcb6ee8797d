package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Creativityliberty/Trace-AI/internal/apperr"
	"github.com/Creativityliberty/Trace-AI/internal/model"
	"github.com/Creativityliberty/Trace-AI/pkg/videoid"
)

// Fallback video metadata used when neither the transcript service nor the
// extraction model supplied any.
const (
	fallbackTitle  = "Untitled Session"
	fallbackAuthor = "Unknown Creator"
)

// TranscriptFetcher retrieves the raw transcript payload for a video URL.
type TranscriptFetcher interface {
	FetchTranscript(ctx context.Context, videoURL string) (*model.TranscriptPayload, error)
}

// ToolExtractor turns transcript chunks into an extraction result.
type ToolExtractor interface {
	ExtractTools(ctx context.Context, chunks []model.TranscriptChunk) (*model.ExtractionResult, error)
}

// VisualSynthesizer produces a best-effort icon data URI for one tool.
type VisualSynthesizer interface {
	SynthesizeVisual(ctx context.Context, toolName, category string) (string, error)
}

// PipelineService sequences transcript fetch, AI extraction and per-tool
// visual synthesis, then hands the assembled result to the archive. One run
// at a time: a second analysis is rejected while one is in flight.
type PipelineService struct {
	transcripts TranscriptFetcher
	extractor   ToolExtractor
	visuals     VisualSynthesizer
	archive     *ArchiveService
	log         zerolog.Logger

	mu      sync.Mutex
	step    model.AnalysisStep
	lastErr string
}

func NewPipelineService(
	transcripts TranscriptFetcher,
	extractor ToolExtractor,
	visuals VisualSynthesizer,
	archive *ArchiveService,
	logger zerolog.Logger,
) *PipelineService {
	return &PipelineService{
		transcripts: transcripts,
		extractor:   extractor,
		visuals:     visuals,
		archive:     archive,
		log:         logger,
		step:        model.StepIdle,
	}
}

// Status reports the current phase and, when FAILED, the surfaced message.
func (s *PipelineService) Status() (model.AnalysisStep, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step, s.lastErr
}

// begin claims the pipeline for a new run. Only one run may be in flight.
func (s *PipelineService) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.step {
	case model.StepFetchingTranscript, model.StepAIExtraction, model.StepAIVisualGen:
		return apperr.New(apperr.KindBusy, "An analysis is already running")
	}
	s.step = model.StepFetchingTranscript
	s.lastErr = ""
	return nil
}

func (s *PipelineService) setStep(step model.AnalysisStep) {
	s.mu.Lock()
	s.step = step
	s.mu.Unlock()
}

func (s *PipelineService) fail(err error) error {
	s.mu.Lock()
	s.step = model.StepFailed
	s.lastErr = apperr.UserMessage(err)
	s.mu.Unlock()
	return err
}

// Analyze runs the full pipeline for one video URL. On any step failure the
// phase transitions to FAILED and no partial result is kept; visual
// synthesis failures are the one exception, degrading per-tool to no image.
func (s *PipelineService) Analyze(ctx context.Context, rawURL string) (*model.ExtractionResult, error) {
	vid, ok := videoid.Extract(rawURL)
	if !ok {
		return nil, apperr.New(apperr.KindValidation, "Invalid video URL")
	}

	if err := s.begin(); err != nil {
		return nil, err
	}
	start := time.Now()
	s.log.Info().Str("video_id", vid).Msg("analysis started")

	payload, err := s.transcripts.FetchTranscript(ctx, rawURL)
	if err != nil {
		return nil, s.fail(err)
	}

	chunks := payload.Chunks()
	if len(chunks) == 0 {
		return nil, s.fail(apperr.New(apperr.KindEmptyTranscript, "No transcript available for this video"))
	}

	s.setStep(model.StepAIExtraction)
	result, err := s.extractor.ExtractTools(ctx, chunks)
	if err != nil {
		return nil, s.fail(err)
	}
	if result == nil || result.Tools == nil {
		return nil, s.fail(apperr.New(apperr.KindExtraction, "Extraction produced no usable tool list"))
	}

	s.setStep(model.StepAIVisualGen)
	s.synthesizeVisuals(ctx, result.Tools)

	result.ID = vid
	result.Timestamp = time.Now().UnixMilli()
	result.Video = buildVideoMeta(payload.Metadata, vid)
	result.GroundingURLs = dedupeURLs(result.GroundingURLs)
	result.Stats = model.ResultStats{
		TotalTools:       len(result.Tools),
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}

	s.archive.Upsert(ctx, *result)
	s.setStep(model.StepCompleted)
	s.log.Info().
		Str("video_id", vid).
		Int("tools", len(result.Tools)).
		Int64("duration_ms", result.Stats.ProcessingTimeMs).
		Msg("analysis completed")

	return result, nil
}

// synthesizeVisuals fans out one image request per tool and waits for all
// of them to settle. A tool whose request fails simply keeps no thumbnail;
// one flaky image call must never abort an otherwise-successful run.
func (s *PipelineService) synthesizeVisuals(ctx context.Context, tools []model.ToolMention) {
	var wg sync.WaitGroup
	for i := range tools {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			uri, err := s.visuals.SynthesizeVisual(ctx, tools[i].Name, tools[i].Category)
			if err != nil {
				s.log.Warn().Err(err).Str("tool", tools[i].Name).Msg("visual synthesis skipped")
				return
			}
			tools[i].AIThumbnail = uri
		}(i)
	}
	wg.Wait()
}

// dedupeURLs removes repeated citations, keeping first-seen order. The
// extraction client passes grounding URLs through as the API reports them.
func dedupeURLs(urls []string) []string {
	if len(urls) < 2 {
		return urls
	}
	seen := make(map[string]struct{}, len(urls))
	out := urls[:0]
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

func buildVideoMeta(meta *model.VideoMeta, vid string) *model.VideoMeta {
	out := model.VideoMeta{
		Title:  fallbackTitle,
		Author: fallbackAuthor,
	}
	if meta != nil {
		if meta.Title != "" {
			out.Title = meta.Title
		}
		if meta.Author != "" {
			out.Author = meta.Author
		}
		out.ThumbnailURL = meta.ThumbnailURL
	}
	if out.ThumbnailURL == "" {
		out.ThumbnailURL = videoid.ThumbnailURL(vid)
	}
	return &out
}
