package domain

import (
	"context"
	"io"
)

// MediaInfo is the metadata an extractor reports for a URL
type MediaInfo struct {
	ID         string
	Title      string
	Ext        string
	Uploader   string
	UploaderID string
	Channel    string
}

// BestUploader returns the most specific uploader identity available,
// preferring channel over uploader over uploader id.
func (m *MediaInfo) BestUploader() string {
	switch {
	case m.Channel != "":
		return m.Channel
	case m.Uploader != "":
		return m.Uploader
	case m.UploaderID != "":
		return m.UploaderID
	}
	return ""
}

// StreamOptions control the extractor's format selection
type StreamOptions struct {
	Audio        bool
	AudioBitrate string // kbps, digits only
	Quality      string // optional height hint for video, e.g. "1080p"
}

// Extractor is the external media extraction capability. Stream returns a
// live byte source that the caller owns; closing it must release every
// underlying resource (process, pipe, temp file).
type Extractor interface {
	// Probe retrieves metadata without downloading
	Probe(ctx context.Context, url string) (*MediaInfo, error)

	// Stream opens a byte source for the media at url
	Stream(ctx context.Context, url string, opts StreamOptions) (io.ReadCloser, error)
}

// TrackInfo is the result of a catalog track lookup
type TrackInfo struct {
	Title  string
	Artist string
}

// TrackLookup is the external music-catalog capability
type TrackLookup interface {
	// Track retrieves title and primary artist for a catalog track URL
	Track(ctx context.Context, trackURL string) (*TrackInfo, error)
}

// VideoSearcher finds a video for a free-text query
type VideoSearcher interface {
	// FirstVideoID returns the identifier of the first matching video
	FirstVideoID(ctx context.Context, query string) (string, error)
}

// PostItem is one child of a structured post
type PostItem struct {
	IsVideo    bool
	DisplayURL string // preview/image asset
	VideoURL   string // video asset, empty for photos
}

// Post is the metadata of a structured post. Single-item posts carry their
// asset URLs directly; multi-item posts list children in display order.
type Post struct {
	Shortcode  string
	Owner      string
	IsVideo    bool
	DisplayURL string
	VideoURL   string
	Items      []PostItem // non-empty only for carousels
}

// IsCarousel reports whether the post has multiple child items
func (p *Post) IsCarousel() bool {
	return len(p.Items) > 1
}

// PostReader is the external structured-post capability
type PostReader interface {
	// Post retrieves metadata for a post identified by its shortcode
	Post(ctx context.Context, shortcode string) (*Post, error)
}

// AssetFetcher retrieves a remote asset URL as a byte stream
type AssetFetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}
