package platform

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ytget/ytdlp/v2"
)

// Timeout constants
const (
	DefaultListTimeout = 60 * time.Second
)

// URL parameters
const (
	PlaylistParam = "list="
)

// YTDLPPlaylistLister expands playlist queue entries into video IDs using
// the ytdlp library.
type YTDLPPlaylistLister struct {
	timeout time.Duration
}

// NewYTDLPPlaylistLister creates a new playlist lister
func NewYTDLPPlaylistLister() *YTDLPPlaylistLister {
	return &YTDLPPlaylistLister{
		timeout: DefaultListTimeout,
	}
}

// SetTimeout sets the timeout for listing operations
func (l *YTDLPPlaylistLister) SetTimeout(timeout time.Duration) {
	l.timeout = timeout
}

// IsPlaylist reports whether the queue entry names a playlist
func (l *YTDLPPlaylistLister) IsPlaylist(raw string) bool {
	return ExtractPlaylistID(raw) != ""
}

// ListVideos returns the video identifiers contained in the playlist
func (l *YTDLPPlaylistLister) ListVideos(ctx context.Context, raw string) ([]string, error) {
	playlistID := ExtractPlaylistID(raw)
	if playlistID == "" {
		return nil, fmt.Errorf("could not extract playlist ID from %q", raw)
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	d := ytdlp.New()
	items, err := d.GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %v", err)
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.VideoID)
	}
	return ids, nil
}

// ExtractPlaylistID extracts the playlist ID from URLs carrying a list=
// parameter. Returns "" for anything else.
func ExtractPlaylistID(raw string) string {
	if !strings.Contains(raw, PlaylistParam) {
		return ""
	}
	parts := strings.Split(raw, PlaylistParam)
	if len(parts) < 2 {
		return ""
	}
	playlistPart := parts[1]
	if strings.Contains(playlistPart, ParamSeparator) {
		playlistPart = strings.Split(playlistPart, ParamSeparator)[0]
	}
	return playlistPart
}
