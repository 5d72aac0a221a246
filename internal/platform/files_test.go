package platform

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ytget/ytqueue/internal/download"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain title", "My Video", "My Video"},
		{"path separators", "a/b\\c", "a_b_c"},
		{"hostile characters", `clip: "the best" <ever>?`, "clip_ _the best_ _ever__"},
		{"collapsed whitespace", "  too   many\tspaces  ", "too many spaces"},
		{"control characters dropped", "tab\there", "tabhere"},
		{"empty input", "", "untitled"},
		{"only invalid input", "///", "___"},
	}

	for _, test := range tests {
		result := SanitizeFilename(test.input)
		if result != test.expected {
			t.Errorf("%s: SanitizeFilename(%q) = %q, expected %q", test.name, test.input, result, test.expected)
		}
	}
}

func TestSanitizeFilename_CapsLength(t *testing.T) {
	long := strings.Repeat("a", MaxFilenameLength+50)

	result := SanitizeFilename(long)
	if len([]rune(result)) != MaxFilenameLength {
		t.Errorf("Expected length %d, got %d", MaxFilenameLength, len([]rune(result)))
	}
}

func TestOutputKey(t *testing.T) {
	tests := []struct {
		name     string
		meta     download.Metadata
		expected string
	}{
		{
			name:     "title and extension",
			meta:     download.Metadata{Title: "Some Video", Ext: "webm"},
			expected: "Some Video.webm",
		},
		{
			name:     "default extension",
			meta:     download.Metadata{Title: "Some Video"},
			expected: "Some Video.mp4",
		},
		{
			name:     "sanitized title",
			meta:     download.Metadata{Title: "a/b", Ext: "mp4"},
			expected: "a_b.mp4",
		},
	}

	for _, test := range tests {
		result := OutputKey(test.meta)
		if result != test.expected {
			t.Errorf("%s: OutputKey() = %q, expected %q", test.name, result, test.expected)
		}
	}
}

func TestCreateDirectoryIfNotExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "output")

	if err := CreateDirectoryIfNotExists(dir); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Expected directory to exist, got %v", err)
	}
	if !info.IsDir() {
		t.Error("Expected a directory")
	}

	// Second call on an existing directory is a no-op.
	if err := CreateDirectoryIfNotExists(dir); err != nil {
		t.Errorf("Expected no error on existing directory, got %v", err)
	}
}
