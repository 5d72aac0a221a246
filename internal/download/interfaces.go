package download

import (
	"context"
	"errors"
	"io"
)

// ErrNoVariant is returned by a Selector when no variant satisfies its
// selection policy.
var ErrNoVariant = errors.New("download: no suitable variant")

// Variant is one quality/format rendition of a video.
type Variant struct {
	Itag     string // format identifier used when requesting the stream
	Ext      string // container extension, e.g. "mp4"
	URL      string // direct stream URL
	Height   int    // video height in pixels, 0 for audio-only
	HasAudio bool
	HasVideo bool
	Size     int64 // size in bytes, 0 if unknown
}

// Metadata describes a resolved video: its title and the renditions
// available for transfer.
type Metadata struct {
	ID       string
	Title    string
	Ext      string // extension of the default rendition
	Variants []Variant
}

// Selector picks the variant to transfer, or returns ErrNoVariant.
// Selection policy (quality, codec, container) is external to the
// download core.
type Selector func([]Variant) (Variant, error)

// KeyFunc derives the output storage key for a resolved video. Filename
// sanitization is external policy supplied by the caller.
type KeyFunc func(Metadata) string

// Stream is an open byte stream for one variant.
type Stream interface {
	io.ReadCloser

	// Size returns the total byte count of the stream, or 0 if unknown.
	Size() int64
}

// Fetcher resolves identifiers to metadata and byte streams.
type Fetcher interface {
	// Validate reports whether raw is an admissible identifier. Used as
	// the queue's admission predicate.
	Validate(raw string) bool

	// Resolve fetches metadata for the identifier.
	Resolve(ctx context.Context, id string) (Metadata, error)

	// OpenStream opens the byte stream for the selected variant.
	OpenStream(ctx context.Context, id string, v Variant) (Stream, error)
}

// PlaylistLister expands a playlist entry into its video identifiers.
type PlaylistLister interface {
	// IsPlaylist reports whether the queue entry names a playlist rather
	// than a single video.
	IsPlaylist(raw string) bool

	// ListVideos returns the video identifiers contained in the playlist.
	ListVideos(ctx context.Context, raw string) ([]string, error)
}
