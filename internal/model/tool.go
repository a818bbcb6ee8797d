package model

import "strings"

// Suggested tool categories. The set is open: the extraction model may
// return other tags and they are preserved as-is.
const (
	CategoryAIModel       = "ai-model"
	CategoryAICodingAgent = "ai-coding-agent"
	CategoryDevtools      = "devtools"
	CategoryCLI           = "cli"
	CategoryNetworking    = "networking"
	CategoryCreativeCode  = "creative-coding"
	CategoryOther         = "other"
)

// Evidence is a verbatim transcript quote supporting a tool mention.
// Offsets are nullable because the model does not always locate them.
type Evidence struct {
	OffsetMs   *int64 `json:"offsetMs"`
	DurationMs *int64 `json:"durationMs"`
	Quote      string `json:"quote"`
}

// QualityFlag is a data-quality annotation emitted by the extraction model.
type QualityFlag struct {
	Type     string   `json:"type"`
	Severity string   `json:"severity"`
	Message  string   `json:"message"`
	Items    []string `json:"items,omitempty"`
}

// ToolMention is one software tool identified in a transcript, with
// aggregated occurrence data.
type ToolMention struct {
	Name            string     `json:"name"`
	Normalized      string     `json:"normalized"`
	Category        string     `json:"category"`
	MentionsCount   int        `json:"mentionsCount"`
	Confidence      float64    `json:"confidence"`
	OfficialURL     string     `json:"officialUrl,omitempty"`
	GithubURL       string     `json:"githubUrl,omitempty"`
	AIThumbnail     string     `json:"aiThumbnail,omitempty"`
	TimestampLabel  string     `json:"timestampLabel,omitempty"`
	TimestampOffset *float64   `json:"timestampOffset,omitempty"`
	Evidence        []Evidence `json:"evidence,omitempty"`
	Notes           []string   `json:"notes"`
}

// DedupKey returns the stable key under which mentions of the same
// real-world tool collapse. The model-supplied slug wins; otherwise the
// key is derived deterministically from the display name.
func (t ToolMention) DedupKey() string {
	if t.Normalized != "" {
		return t.Normalized
	}
	return NormalizeToolName(t.Name)
}

// NormalizeToolName produces a kebab-case slug from a tool display name:
// lowercased, every run of non-alphanumeric characters collapsed to a
// single hyphen, leading and trailing hyphens trimmed.
func NormalizeToolName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	prevHyphen := false
	for _, r := range strings.ToLower(name) {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if alnum {
			b.WriteRune(r)
			prevHyphen = false
			continue
		}
		if !prevHyphen {
			b.WriteByte('-')
			prevHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}
