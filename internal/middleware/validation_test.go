package middleware

import (
	"strings"
	"testing"
)

func TestValidateAnalyzeURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid", "https://youtu.be/dQw4w9WgXcQ", false},
		{"trimmed", "  https://youtu.be/dQw4w9WgXcQ  ", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"too long", "https://youtube.com/watch?v=" + strings.Repeat("x", MaxURLLen), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, errMsg := ValidateAnalyzeURL(tt.url)
			if tt.wantErr && errMsg == "" {
				t.Errorf("ValidateAnalyzeURL(%q) accepted, want rejection", tt.url)
			}
			if !tt.wantErr {
				if errMsg != "" {
					t.Errorf("ValidateAnalyzeURL(%q) rejected: %s", tt.url, errMsg)
				}
				if url != strings.TrimSpace(tt.url) {
					t.Errorf("ValidateAnalyzeURL(%q) = %q, want trimmed input", tt.url, url)
				}
			}
		})
	}
}

func TestValidateVideoID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid", "dQw4w9WgXcQ", false},
		{"with dash and underscore", "a-b_c1234Xy", false},
		{"empty", "", true},
		{"too short", "abc", true},
		{"too long", "dQw4w9WgXcQx", true},
		{"invalid characters", "dQw4w9WgXc!", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errMsg := ValidateVideoID(tt.id)
			if tt.wantErr && errMsg == "" {
				t.Errorf("ValidateVideoID(%q) accepted, want rejection", tt.id)
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("ValidateVideoID(%q) rejected: %s", tt.id, errMsg)
			}
		})
	}
}

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/archive/dQw4w9WgXcQ", "/api/archive/:videoId"},
		{"/api/export/dQw4w9WgXcQ", "/api/export/:videoId"},
		{"/api/stats", "/api/stats"},
		{"/health/live", "/health/live"},
	}

	for _, tt := range tests {
		if got := sanitizePath(tt.path); got != tt.want {
			t.Errorf("sanitizePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
