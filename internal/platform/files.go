package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ytget/ytqueue/internal/download"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Filename constraints
const (
	MaxFilenameLength = 150
	FallbackFilename  = "untitled"
	DefaultOutputExt  = "mp4"
)

// filesystem-hostile characters replaced during sanitization
const invalidFilenameChars = `/\:*?"<>|`

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// GetHomeDownloadsDir returns the standard Downloads directory for the user
func GetHomeDownloadsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, "Downloads"), nil
}

// SanitizeFilename turns a video title into a safe filename: path
// separators and other hostile characters become underscores, control
// characters are dropped, whitespace is collapsed, and the result is
// capped at MaxFilenameLength.
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r < 32 || r == 127:
			// drop control characters
		case strings.ContainsRune(invalidFilenameChars, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}

	sanitized := strings.Join(strings.Fields(b.String()), " ")
	if runes := []rune(sanitized); len(runes) > MaxFilenameLength {
		sanitized = strings.TrimSpace(string(runes[:MaxFilenameLength]))
	}
	if sanitized == "" {
		return FallbackFilename
	}
	return sanitized
}

// OutputKey derives the storage key for a resolved video: sanitized title
// plus the container extension.
func OutputKey(meta download.Metadata) string {
	ext := meta.Ext
	if ext == "" {
		ext = DefaultOutputExt
	}
	return SanitizeFilename(meta.Title) + "." + ext
}
