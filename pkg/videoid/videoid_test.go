package videoid

import "testing"

func TestExtract_RecognizedShapes(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"short link", "https://youtu.be/dQw4w9WgXcQ"},
		{"watch", "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		{"watch with extra params", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s"},
		{"embed", "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{"v path", "https://www.youtube.com/v/dQw4w9WgXcQ"},
		{"screening room", "https://www.youtube.com/ytscreeningroom?v=dQw4w9WgXcQ"},
		{"no scheme", "youtube.com/watch?v=dQw4w9WgXcQ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := Extract(tt.url)
			if !ok {
				t.Fatalf("Extract(%q) not recognized", tt.url)
			}
			if id != "dQw4w9WgXcQ" {
				t.Errorf("Extract(%q) = %q, want dQw4w9WgXcQ", tt.url, id)
			}
			if len(id) != IDLength {
				t.Errorf("id length = %d, want %d", len(id), IDLength)
			}
		})
	}
}

func TestExtract_UnrecognizedShapes(t *testing.T) {
	tests := []string{
		"",
		"not a url",
		"https://vimeo.com/12345678901",
		"https://www.youtube.com/",
		"https://www.youtube.com/watch?v=short",
		"https://example.com/watch?v=dQw4w9WgXcQ",
	}

	for _, url := range tests {
		if id, ok := Extract(url); ok {
			t.Errorf("Extract(%q) = %q, want no match", url, id)
		}
	}
}

func TestThumbnailURL(t *testing.T) {
	want := "https://img.youtube.com/vi/dQw4w9WgXcQ/maxresdefault.jpg"
	if got := ThumbnailURL("dQw4w9WgXcQ"); got != want {
		t.Errorf("ThumbnailURL() = %q, want %q", got, want)
	}
}
