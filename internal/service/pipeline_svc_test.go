package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Creativityliberty/Trace-AI/internal/apperr"
	"github.com/Creativityliberty/Trace-AI/internal/model"
)

type fakeFetcher struct {
	payload *model.TranscriptPayload
	err     error
	calls   int
	block   chan struct{} // when set, FetchTranscript waits until closed
}

func (f *fakeFetcher) FetchTranscript(ctx context.Context, videoURL string) (*model.TranscriptPayload, error) {
	f.calls++
	if f.block != nil {
		<-f.block
	}
	return f.payload, f.err
}

type fakeExtractor struct {
	result *model.ExtractionResult
	err    error
}

func (f *fakeExtractor) ExtractTools(ctx context.Context, chunks []model.TranscriptChunk) (*model.ExtractionResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	// Return a copy so the pipeline may mutate freely.
	res := *f.result
	res.Tools = append([]model.ToolMention(nil), f.result.Tools...)
	return &res, nil
}

type fakeVisuals struct {
	mu     sync.Mutex
	calls  int
	uri    string
	errFor map[string]error // per-tool failures
}

func (f *fakeVisuals) SynthesizeVisual(ctx context.Context, toolName, category string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if err, ok := f.errFor[toolName]; ok {
		return "", err
	}
	return f.uri, nil
}

func threeTools() *model.ExtractionResult {
	return &model.ExtractionResult{
		Tools: []model.ToolMention{
			{Name: "Zed", Normalized: "zed", Category: "devtools", MentionsCount: 3},
			{Name: "Bun", Normalized: "bun", Category: "devtools", MentionsCount: 2},
			{Name: "Ollama", Normalized: "ollama", Category: "ai-model", MentionsCount: 1},
		},
	}
}

func newTestPipeline(f TranscriptFetcher, e ToolExtractor, v VisualSynthesizer) (*PipelineService, *ArchiveService) {
	archive := NewArchiveService(newMemStore(), 50, 10, zerolog.Nop())
	return NewPipelineService(f, e, v, archive, zerolog.Nop()), archive
}

const validURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

func TestAnalyze_HappyPath(t *testing.T) {
	fetcher := &fakeFetcher{payload: &model.TranscriptPayload{
		Content:  []model.TranscriptChunk{{Text: "we used Zed and Bun"}},
		Metadata: &model.VideoMeta{Title: "Tooling Review", Author: "Dev"},
	}}
	visuals := &fakeVisuals{uri: "data:image/png;base64,abc"}
	pipeline, archive := newTestPipeline(fetcher, &fakeExtractor{result: threeTools()}, visuals)

	result, err := pipeline.Analyze(context.Background(), validURL)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if result.ID != "dQw4w9WgXcQ" {
		t.Errorf("id = %q, want parsed video id", result.ID)
	}
	if result.Stats.TotalTools != 3 {
		t.Errorf("stats.totalTools = %d, want 3", result.Stats.TotalTools)
	}
	if result.Timestamp == 0 {
		t.Error("timestamp not stamped")
	}
	if result.Video == nil || result.Video.Title != "Tooling Review" {
		t.Errorf("video meta = %+v, want service metadata", result.Video)
	}
	if result.Video.ThumbnailURL != "https://img.youtube.com/vi/dQw4w9WgXcQ/maxresdefault.jpg" {
		t.Errorf("thumbnail = %q, want synthesized from video id", result.Video.ThumbnailURL)
	}
	for _, tool := range result.Tools {
		if tool.AIThumbnail != "data:image/png;base64,abc" {
			t.Errorf("tool %q missing synthesized visual", tool.Name)
		}
	}
	if visuals.calls != 3 {
		t.Errorf("visual synthesis calls = %d, want one per tool", visuals.calls)
	}

	if step, _ := pipeline.Status(); step != model.StepCompleted {
		t.Errorf("step = %q, want COMPLETED", step)
	}
	if archive.Len() != 1 {
		t.Errorf("archive length = %d, want the result upserted", archive.Len())
	}
}

func TestAnalyze_MetadataFallbacks(t *testing.T) {
	fetcher := &fakeFetcher{payload: &model.TranscriptPayload{
		Content: []model.TranscriptChunk{{Text: "x"}},
	}}
	pipeline, _ := newTestPipeline(fetcher, &fakeExtractor{result: threeTools()}, &fakeVisuals{})

	result, err := pipeline.Analyze(context.Background(), validURL)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if result.Video.Title != "Untitled Session" || result.Video.Author != "Unknown Creator" {
		t.Errorf("video meta = %+v, want hardcoded fallbacks", result.Video)
	}
}

func TestAnalyze_InvalidURLNeverFetches(t *testing.T) {
	fetcher := &fakeFetcher{}
	pipeline, _ := newTestPipeline(fetcher, &fakeExtractor{result: threeTools()}, &fakeVisuals{})

	_, err := pipeline.Analyze(context.Background(), "https://example.com/nope")
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("kind = %q, want validation", apperr.KindOf(err))
	}
	if fetcher.calls != 0 {
		t.Errorf("transcript fetch calls = %d, want 0 for invalid URL", fetcher.calls)
	}
	// Validation failure happens before the run claims the pipeline.
	if step, _ := pipeline.Status(); step != model.StepIdle {
		t.Errorf("step = %q, want IDLE", step)
	}
}

func TestAnalyze_TranscriptFailureSurfacesMessage(t *testing.T) {
	fetcher := &fakeFetcher{err: apperr.New(apperr.KindTranscript, "rate limited")}
	pipeline, archive := newTestPipeline(fetcher, &fakeExtractor{result: threeTools()}, &fakeVisuals{})

	_, err := pipeline.Analyze(context.Background(), validURL)
	if err == nil {
		t.Fatal("Analyze() error = nil, want transcript failure")
	}

	step, msg := pipeline.Status()
	if step != model.StepFailed {
		t.Errorf("step = %q, want FAILED", step)
	}
	if !strings.Contains(msg, "rate limited") {
		t.Errorf("surfaced message = %q, want it to contain 'rate limited'", msg)
	}
	if archive.Len() != 0 {
		t.Error("failed run must not leave a partial result in the archive")
	}
}

func TestAnalyze_EmptyTranscript(t *testing.T) {
	fetcher := &fakeFetcher{payload: &model.TranscriptPayload{}}
	pipeline, _ := newTestPipeline(fetcher, &fakeExtractor{result: threeTools()}, &fakeVisuals{})

	_, err := pipeline.Analyze(context.Background(), validURL)
	if apperr.KindOf(err) != apperr.KindEmptyTranscript {
		t.Errorf("kind = %q, want empty_transcript", apperr.KindOf(err))
	}
}

func TestAnalyze_VisualFailuresAreSwallowed(t *testing.T) {
	fetcher := &fakeFetcher{payload: &model.TranscriptPayload{
		Content: []model.TranscriptChunk{{Text: "x"}},
	}}
	visuals := &fakeVisuals{
		uri:    "data:image/png;base64,ok",
		errFor: map[string]error{"Bun": errors.New("image backend down")},
	}
	pipeline, _ := newTestPipeline(fetcher, &fakeExtractor{result: threeTools()}, visuals)

	result, err := pipeline.Analyze(context.Background(), validURL)
	if err != nil {
		t.Fatalf("Analyze() error = %v, want per-tool failure swallowed", err)
	}
	for _, tool := range result.Tools {
		if tool.Name == "Bun" && tool.AIThumbnail != "" {
			t.Error("failed tool kept a thumbnail")
		}
		if tool.Name != "Bun" && tool.AIThumbnail == "" {
			t.Errorf("tool %q lost its thumbnail to a sibling failure", tool.Name)
		}
	}
	if step, _ := pipeline.Status(); step != model.StepCompleted {
		t.Errorf("step = %q, want COMPLETED despite one bad image", step)
	}
}

func TestAnalyze_DeduplicatesGroundingURLs(t *testing.T) {
	fetcher := &fakeFetcher{payload: &model.TranscriptPayload{
		Content: []model.TranscriptChunk{{Text: "x"}},
	}}
	extracted := threeTools()
	extracted.GroundingURLs = []string{
		"https://zed.dev",
		"https://bun.sh",
		"https://zed.dev",
	}
	pipeline, _ := newTestPipeline(fetcher, &fakeExtractor{result: extracted}, &fakeVisuals{})

	result, err := pipeline.Analyze(context.Background(), validURL)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	want := []string{"https://zed.dev", "https://bun.sh"}
	if len(result.GroundingURLs) != len(want) {
		t.Fatalf("groundingUrls = %v, want %v", result.GroundingURLs, want)
	}
	for i := range want {
		if result.GroundingURLs[i] != want[i] {
			t.Errorf("groundingUrls[%d] = %q, want %q (first-seen order)", i, result.GroundingURLs[i], want[i])
		}
	}
}

func TestAnalyze_RejectsOverlappingRun(t *testing.T) {
	block := make(chan struct{})
	fetcher := &fakeFetcher{
		payload: &model.TranscriptPayload{Content: []model.TranscriptChunk{{Text: "x"}}},
		block:   block,
	}
	pipeline, _ := newTestPipeline(fetcher, &fakeExtractor{result: threeTools()}, &fakeVisuals{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		pipeline.Analyze(context.Background(), validURL)
	}()

	// Wait until the first run is inside the transcript fetch.
	for {
		if step, _ := pipeline.Status(); step == model.StepFetchingTranscript {
			break
		}
		time.Sleep(time.Millisecond)
	}

	_, err := pipeline.Analyze(context.Background(), validURL)
	if apperr.KindOf(err) != apperr.KindBusy {
		t.Errorf("kind = %q, want busy", apperr.KindOf(err))
	}

	close(block)
	<-done

	if fetcher.calls != 1 {
		t.Errorf("transcript fetch calls = %d, want 1 (second run must be a no-op)", fetcher.calls)
	}
}

func TestAnalyze_StepOrder(t *testing.T) {
	var mu sync.Mutex
	var steps []model.AnalysisStep
	pipeline, _ := newTestPipeline(nil, nil, nil)

	// The visual fan-out records concurrently.
	record := func() {
		step, _ := pipeline.Status()
		mu.Lock()
		steps = append(steps, step)
		mu.Unlock()
	}

	pipeline.transcripts = fetcherFunc(func(ctx context.Context, url string) (*model.TranscriptPayload, error) {
		record()
		return &model.TranscriptPayload{Content: []model.TranscriptChunk{{Text: "x"}}}, nil
	})
	pipeline.extractor = extractorFunc(func(ctx context.Context, chunks []model.TranscriptChunk) (*model.ExtractionResult, error) {
		record()
		return threeTools(), nil
	})
	pipeline.visuals = visualFunc(func(ctx context.Context, name, category string) (string, error) {
		record()
		return "", nil
	})

	if _, err := pipeline.Analyze(context.Background(), validURL); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	record()

	want := []model.AnalysisStep{
		model.StepFetchingTranscript,
		model.StepAIExtraction,
		model.StepAIVisualGen, model.StepAIVisualGen, model.StepAIVisualGen,
		model.StepCompleted,
	}
	if len(steps) != len(want) {
		t.Fatalf("observed %d steps, want %d: %v", len(steps), len(want), steps)
	}
	for i := range want {
		if steps[i] != want[i] {
			t.Errorf("step[%d] = %q, want %q", i, steps[i], want[i])
		}
	}
}

type fetcherFunc func(ctx context.Context, url string) (*model.TranscriptPayload, error)

func (f fetcherFunc) FetchTranscript(ctx context.Context, url string) (*model.TranscriptPayload, error) {
	return f(ctx, url)
}

type extractorFunc func(ctx context.Context, chunks []model.TranscriptChunk) (*model.ExtractionResult, error)

func (f extractorFunc) ExtractTools(ctx context.Context, chunks []model.TranscriptChunk) (*model.ExtractionResult, error) {
	return f(ctx, chunks)
}

type visualFunc func(ctx context.Context, name, category string) (string, error)

func (f visualFunc) SynthesizeVisual(ctx context.Context, name, category string) (string, error) {
	return f(ctx, name, category)
}
