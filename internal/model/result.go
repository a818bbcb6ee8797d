package model

// AnalysisStep is the user-visible phase of a pipeline run.
type AnalysisStep string

const (
	StepIdle               AnalysisStep = "IDLE"
	StepFetchingTranscript AnalysisStep = "FETCHING_TRANSCRIPT"
	StepAIExtraction       AnalysisStep = "AI_EXTRACTION"
	StepAIVisualGen        AnalysisStep = "AI_VISUAL_GEN"
	StepCompleted          AnalysisStep = "COMPLETED"
	StepFailed             AnalysisStep = "FAILED"
)

// SourceInfo describes where an extraction came from, as reported by the
// extraction model.
type SourceInfo struct {
	Type string `json:"type"`
	Note string `json:"note"`
}

// ResultStats summarizes one completed analysis.
type ResultStats struct {
	TotalTools       int   `json:"totalTools"`
	ProcessingTimeMs int64 `json:"processingTimeMs"`
}

// ExtractionResult is one completed analysis of a video. ID is the video
// identifier and the archive dedup key; Timestamp is epoch milliseconds.
type ExtractionResult struct {
	ID            string        `json:"id"`
	Source        *SourceInfo   `json:"source,omitempty"`
	Video         *VideoMeta    `json:"video,omitempty"`
	Tools         []ToolMention `json:"tools"`
	GroundingURLs []string      `json:"groundingUrls,omitempty"`
	QualityFlags  []QualityFlag `json:"qualityFlags,omitempty"`
	Timestamp     int64         `json:"timestamp"`
	Stats         ResultStats   `json:"stats"`
}

// AggregateStats is derived from the full archive on demand, never stored.
type AggregateStats struct {
	TotalUniqueTools int            `json:"totalUniqueTools"`
	Categories       map[string]int `json:"categories"`
	MostMentioned    []ToolMention  `json:"mostMentioned"`
}
