package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/ytget/ytqueue/internal/download"
)

// Timeout constants
const (
	DefaultResolveTimeout = 60 * time.Second
)

// URL parameters and separators
const (
	VideoParam     = "v="
	ParamSeparator = "&"
	ShortHost      = "youtu.be/"
)

// URL templates
const (
	YouTubeVideoURLTemplate = "https://www.youtube.com/watch?v=%s"
)

// CodecNone is yt-dlp's marker for a missing audio or video track
const CodecNone = "none"

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// YTDLPFetcher resolves videos through the yt-dlp tool and streams the
// selected variant over plain HTTP.
type YTDLPFetcher struct {
	timeout time.Duration
	client  *http.Client
}

// NewYTDLPFetcher creates a new fetcher
func NewYTDLPFetcher() *YTDLPFetcher {
	transport := &http.Transport{
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
		DisableCompression:  true, // raw bytes, progress counts must match
	}
	return &YTDLPFetcher{
		timeout: DefaultResolveTimeout,
		client:  &http.Client{Transport: transport},
	}
}

// SetResolveTimeout sets the timeout for metadata resolution
func (f *YTDLPFetcher) SetResolveTimeout(timeout time.Duration) {
	f.timeout = timeout
}

// Validate reports whether raw names a downloadable resource: a bare video
// ID, a watch URL, or a playlist URL (expanded before dispatch).
func (f *YTDLPFetcher) Validate(raw string) bool {
	return videoIDPattern.MatchString(raw) || ExtractVideoID(raw) != "" || ExtractPlaylistID(raw) != ""
}

// Resolve fetches metadata for the identifier via yt-dlp without
// downloading anything.
func (f *YTDLPFetcher) Resolve(ctx context.Context, id string) (download.Metadata, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	dl := ytdlp.New().
		SkipDownload().
		DumpJSON().
		NoPlaylist()

	result, err := dl.Run(ctx, WatchURL(id))
	if err != nil {
		return download.Metadata{}, fmt.Errorf("run yt-dlp for %s: %w", id, err)
	}

	meta, err := parseVideoJSON(result.Stdout)
	if err != nil {
		return download.Metadata{}, fmt.Errorf("parse metadata for %s: %w", id, err)
	}
	return meta, nil
}

// OpenStream opens an HTTP stream for the selected variant. The variant's
// own URL is used; nothing is re-derived from the metadata.
func (f *YTDLPFetcher) OpenStream(ctx context.Context, id string, v download.Variant) (download.Stream, error) {
	if v.URL == "" {
		return nil, fmt.Errorf("variant %s of %s has no stream URL", v.Itag, id)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		resp.Body.Close()
		return nil, fmt.Errorf("stream request for %s returned %s", id, resp.Status)
	}

	size := resp.ContentLength
	if size <= 0 {
		size = v.Size
	}
	return &httpStream{body: resp.Body, size: size}, nil
}

// httpStream adapts an HTTP response body to download.Stream
type httpStream struct {
	body io.ReadCloser
	size int64
}

func (s *httpStream) Read(p []byte) (int, error) { return s.body.Read(p) }

func (s *httpStream) Close() error { return s.body.Close() }

func (s *httpStream) Size() int64 {
	if s.size < 0 {
		return 0
	}
	return s.size
}

// videoInfo mirrors the subset of yt-dlp's JSON output we consume
type videoInfo struct {
	ID      string       `json:"id"`
	Title   string       `json:"title"`
	Ext     string       `json:"ext"`
	Formats []formatInfo `json:"formats"`
}

type formatInfo struct {
	FormatID string `json:"format_id"`
	Ext      string `json:"ext"`
	URL      string `json:"url"`
	Height   int    `json:"height"`
	ACodec   string `json:"acodec"`
	VCodec   string `json:"vcodec"`
	Filesize int64  `json:"filesize"`
}

// parseVideoJSON parses yt-dlp --dump-json output into Metadata
func parseVideoJSON(output string) (download.Metadata, error) {
	output = strings.TrimSpace(output)
	if output == "" {
		return download.Metadata{}, fmt.Errorf("empty yt-dlp output")
	}

	var info videoInfo
	if err := json.Unmarshal([]byte(output), &info); err != nil {
		return download.Metadata{}, fmt.Errorf("unmarshal video info: %w", err)
	}
	if info.ID == "" || info.Title == "" {
		return download.Metadata{}, fmt.Errorf("incomplete video info")
	}

	variants := make([]download.Variant, 0, len(info.Formats))
	for _, fi := range info.Formats {
		if fi.URL == "" {
			continue
		}
		variants = append(variants, download.Variant{
			Itag:     fi.FormatID,
			Ext:      fi.Ext,
			URL:      fi.URL,
			Height:   fi.Height,
			HasAudio: fi.ACodec != "" && fi.ACodec != CodecNone,
			HasVideo: fi.VCodec != "" && fi.VCodec != CodecNone,
			Size:     fi.Filesize,
		})
	}

	return download.Metadata{
		ID:       info.ID,
		Title:    info.Title,
		Ext:      info.Ext,
		Variants: variants,
	}, nil
}

// WatchURL returns the canonical watch URL for an identifier. Entries that
// already are URLs pass through unchanged.
func WatchURL(id string) string {
	if strings.HasPrefix(id, "http://") || strings.HasPrefix(id, "https://") {
		return id
	}
	return fmt.Sprintf(YouTubeVideoURLTemplate, id)
}

// ExtractVideoID extracts the video ID from bare IDs, watch URLs, and
// youtu.be short links. Returns "" when raw has no recognizable ID.
func ExtractVideoID(raw string) string {
	if videoIDPattern.MatchString(raw) {
		return raw
	}

	candidate := ""
	if strings.Contains(raw, VideoParam) {
		parts := strings.Split(raw, VideoParam)
		if len(parts) > 1 {
			candidate = parts[1]
		}
	} else if idx := strings.Index(raw, ShortHost); idx >= 0 {
		candidate = raw[idx+len(ShortHost):]
	}

	if i := strings.IndexAny(candidate, ParamSeparator+"?/"); i >= 0 {
		candidate = candidate[:i]
	}
	if videoIDPattern.MatchString(candidate) {
		return candidate
	}
	return ""
}
