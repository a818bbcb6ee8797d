package model

// TranscriptChunk is one timestamped fragment of a video transcript, as
// returned by the Supadata transcript API.
type TranscriptChunk struct {
	Text     string  `json:"text"`
	Offset   float64 `json:"offset"`
	Duration float64 `json:"duration"`
	Lang     string  `json:"lang,omitempty"`
}

// VideoMeta describes the source video. Fields may be empty when the
// transcript service has no metadata for the video.
type VideoMeta struct {
	Title        string `json:"title,omitempty"`
	Author       string `json:"author,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// TranscriptPayload is the raw response of the transcript API. The shape is
// owned by the external service; depending on the endpoint version the
// chunks arrive either in "content" or in "transcript".
type TranscriptPayload struct {
	Content    []TranscriptChunk `json:"content"`
	Transcript []TranscriptChunk `json:"transcript"`
	Metadata   *VideoMeta        `json:"metadata,omitempty"`
	Lang       string            `json:"lang,omitempty"`
}

// Chunks returns the transcript chunks regardless of which field the
// service populated. Content takes precedence.
func (p *TranscriptPayload) Chunks() []TranscriptChunk {
	if len(p.Content) > 0 {
		return p.Content
	}
	return p.Transcript
}
