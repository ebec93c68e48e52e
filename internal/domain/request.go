package domain

// FormatType selects between video and audio output
type FormatType string

const (
	FormatVideo FormatType = "video"
	FormatAudio FormatType = "audio"
)

// NoCarouselItem is the carousel index meaning "no specific item requested"
const NoCarouselItem = -1

// DownloadRequest is a validated, immutable download request
type DownloadRequest struct {
	SourceURL     string
	FormatType    FormatType
	Quality       string // best-effort hint, e.g. "best", "1080p", "192k"
	CarouselIndex int    // NoCarouselItem when not targeting a carousel child
}

// NewDownloadRequest builds a request with the documented defaults applied
func NewDownloadRequest(url string) DownloadRequest {
	return DownloadRequest{
		SourceURL:     url,
		FormatType:    FormatVideo,
		Quality:       "best",
		CarouselIndex: NoCarouselItem,
	}
}

// IsAudio reports whether the request asks for audio-only output
func (r DownloadRequest) IsAudio() bool {
	return r.FormatType == FormatAudio
}

// ResolvedTarget is the single resolution result for a request. EffectiveURL
// may differ from the request URL after track search or post resolution.
type ResolvedTarget struct {
	EffectiveURL    string
	DisplayFilename string
	MediaType       string

	// DirectFetch marks targets whose EffectiveURL is a concrete media asset
	// to be fetched as-is, bypassing the extractor.
	DirectFetch bool
}

// CarouselManifestItem describes one child of a multi-item post
type CarouselManifestItem struct {
	Index   int    `json:"index"`
	IsVideo bool   `json:"is_video"`
	URL     string `json:"url"`
	Kind    string `json:"type"` // "photo" or "video"
}

// Manifest is the metadata-only response for carousel discovery. It is
// returned instead of bytes and never persisted server-side.
type Manifest struct {
	Type  string                 `json:"type"`
	Items []CarouselManifestItem `json:"items"`
}

// NewCarouselManifest builds a manifest from ordered post items
func NewCarouselManifest(items []PostItem) *Manifest {
	manifest := &Manifest{Type: "carousel", Items: make([]CarouselManifestItem, 0, len(items))}
	for i, item := range items {
		kind := "photo"
		if item.IsVideo {
			kind = "video"
		}
		manifest.Items = append(manifest.Items, CarouselManifestItem{
			Index:   i,
			IsVideo: item.IsVideo,
			URL:     item.DisplayURL,
			Kind:    kind,
		})
	}
	return manifest
}
