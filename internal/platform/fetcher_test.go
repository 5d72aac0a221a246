package platform

import (
	"testing"
)

const sampleDumpJSON = `{
	"id": "dQw4w9WgXcQ",
	"title": "Never Gonna Give You Up",
	"ext": "mp4",
	"formats": [
		{"format_id": "18", "ext": "mp4", "url": "https://example.com/18", "height": 360, "acodec": "mp4a.40.2", "vcodec": "avc1.42001E", "filesize": 1000},
		{"format_id": "137", "ext": "mp4", "url": "https://example.com/137", "height": 1080, "acodec": "none", "vcodec": "avc1.640028", "filesize": 5000},
		{"format_id": "140", "ext": "m4a", "url": "https://example.com/140", "acodec": "mp4a.40.2", "vcodec": "none", "filesize": 800},
		{"format_id": "sb0", "ext": "mhtml", "height": 0, "acodec": "none", "vcodec": "none"}
	]
}`

func TestParseVideoJSON(t *testing.T) {
	meta, err := parseVideoJSON(sampleDumpJSON)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if meta.ID != "dQw4w9WgXcQ" {
		t.Errorf("Expected ID 'dQw4w9WgXcQ', got %q", meta.ID)
	}
	if meta.Title != "Never Gonna Give You Up" {
		t.Errorf("Expected title, got %q", meta.Title)
	}
	if meta.Ext != "mp4" {
		t.Errorf("Expected ext 'mp4', got %q", meta.Ext)
	}

	// The storyboard entry has no URL and must be dropped.
	if len(meta.Variants) != 3 {
		t.Fatalf("Expected 3 variants, got %d", len(meta.Variants))
	}

	muxed := meta.Variants[0]
	if muxed.Itag != "18" || !muxed.HasAudio || !muxed.HasVideo || muxed.Height != 360 {
		t.Errorf("Unexpected muxed variant: %+v", muxed)
	}

	videoOnly := meta.Variants[1]
	if videoOnly.HasAudio || !videoOnly.HasVideo {
		t.Errorf("Unexpected video-only variant: %+v", videoOnly)
	}

	audioOnly := meta.Variants[2]
	if !audioOnly.HasAudio || audioOnly.HasVideo {
		t.Errorf("Unexpected audio-only variant: %+v", audioOnly)
	}
}

func TestParseVideoJSON_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty output", ""},
		{"malformed JSON", "{not json"},
		{"missing title", `{"id": "dQw4w9WgXcQ"}`},
	}

	for _, test := range tests {
		if _, err := parseVideoJSON(test.input); err == nil {
			t.Errorf("%s: expected error, got nil", test.name)
		}
	}
}

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"bare ID", "dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch URL", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch URL with params", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=10s", "dQw4w9WgXcQ"},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"short link with params", "https://youtu.be/dQw4w9WgXcQ?t=10", "dQw4w9WgXcQ"},
		{"too short", "abc123", ""},
		{"not a video URL", "https://example.com/page", ""},
	}

	for _, test := range tests {
		result := ExtractVideoID(test.input)
		if result != test.expected {
			t.Errorf("%s: ExtractVideoID(%q) = %q, expected %q", test.name, test.input, result, test.expected)
		}
	}
}

func TestWatchURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"dQw4w9WgXcQ", "https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "https://youtu.be/dQw4w9WgXcQ"},
	}

	for _, test := range tests {
		result := WatchURL(test.input)
		if result != test.expected {
			t.Errorf("WatchURL(%q) = %q, expected %q", test.input, result, test.expected)
		}
	}
}

func TestYTDLPFetcher_Validate(t *testing.T) {
	f := NewYTDLPFetcher()

	tests := []struct {
		input    string
		expected bool
	}{
		{"dQw4w9WgXcQ", true},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"https://www.youtube.com/playlist?list=PLtest123", true},
		{"", false},
		{"not an id", false},
	}

	for _, test := range tests {
		result := f.Validate(test.input)
		if result != test.expected {
			t.Errorf("Validate(%q) = %v, expected %v", test.input, result, test.expected)
		}
	}
}
