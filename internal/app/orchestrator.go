package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/yourusername/social-fetch-go/internal/domain"
	"github.com/yourusername/social-fetch-go/pkg/sanitize"
)

const (
	mediaTypeBinary = "application/octet-stream"
	mediaTypeJPEG   = "image/jpeg"
	mediaTypeMP4    = "video/mp4"

	defaultAudioBitrate = "192"
)

// Resolution is the outcome of resolving one download request: either a
// carousel manifest, or a resolved target with its open byte source. The
// caller owns Body and must close it.
type Resolution struct {
	Manifest *domain.Manifest
	Target   *domain.ResolvedTarget
	Body     io.ReadCloser
}

// Orchestrator is the single entry point for turning a download request
// into a byte stream or a manifest. It holds only immutable collaborators,
// so one instance serves concurrent requests.
type Orchestrator struct {
	extractor domain.Extractor
	tracks    domain.TrackLookup
	search    domain.VideoSearcher
	posts     domain.PostReader
	fetcher   domain.AssetFetcher
	logger    *zap.Logger
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(
	extractor domain.Extractor,
	tracks domain.TrackLookup,
	search domain.VideoSearcher,
	posts domain.PostReader,
	fetcher domain.AssetFetcher,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		extractor: extractor,
		tracks:    tracks,
		search:    search,
		posts:     posts,
		fetcher:   fetcher,
		logger:    logger,
	}
}

// Resolve validates the request against the platform and dispatches to the
// platform's resolution strategy. Every request ends in exactly one
// Resolution or one error.
func (o *Orchestrator) Resolve(ctx context.Context, platform domain.Platform, req domain.DownloadRequest) (*Resolution, error) {
	if err := domain.ClassifyURL(platform, req.SourceURL); err != nil {
		return nil, err
	}

	switch platform.Strategy() {
	case domain.StrategyTrackSearch:
		// No fallback here: there is no alternative source for catalog tracks
		return o.resolveTrack(ctx, req)

	case domain.StrategyPost:
		res, err := o.resolvePost(ctx, req)
		if err == nil {
			return res, nil
		}
		if !isDecline(err) {
			return nil, err
		}
		// Post resolution is an optimization; the extractor is ground truth
		o.logger.Debug("post resolver declined, falling back to direct extraction",
			zap.String("url", req.SourceURL))
		return o.resolveDirect(ctx, platform, req, req.SourceURL, "")

	default:
		return o.resolveDirect(ctx, platform, req, req.SourceURL, "")
	}
}

// resolveTrack handles the music-catalog strategy: look the track up, search
// the video platform for "{title} {artist} official audio", and stream the
// first hit as audio.
func (o *Orchestrator) resolveTrack(ctx context.Context, req domain.DownloadRequest) (*Resolution, error) {
	track, err := o.tracks.Track(ctx, req.SourceURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTrackLookupFailed, err)
	}

	query := fmt.Sprintf("%s %s official audio", track.Title, track.Artist)
	videoID, err := o.search.FirstVideoID(ctx, query)
	if err != nil {
		return nil, err
	}

	target := &domain.ResolvedTarget{
		EffectiveURL:    "https://www.youtube.com/watch?v=" + videoID,
		DisplayFilename: sanitize.Filename(fmt.Sprintf("%s - %s.mp3", track.Title, track.Artist)),
		MediaType:       mediaTypeBinary,
	}

	// Catalog tracks are always delivered as audio regardless of the
	// requested format
	body, err := o.extractor.Stream(ctx, target.EffectiveURL, domain.StreamOptions{
		Audio:        true,
		AudioBitrate: audioBitrate(req.Quality),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrResolutionFailed, err)
	}

	return &Resolution{Target: target, Body: body}, nil
}

// resolvePost handles the structured-post strategy. It returns
// domain.ErrPostDeclined when the URL carries no post shortcode, the reader
// fails, or the post is a single video better served by the extractor.
func (o *Orchestrator) resolvePost(ctx context.Context, req domain.DownloadRequest) (*Resolution, error) {
	shortcode, ok := postShortcode(req.SourceURL)
	if !ok {
		return nil, domain.ErrPostDeclined
	}

	post, err := o.posts.Post(ctx, shortcode)
	if err != nil {
		o.logger.Warn("post reader failed, deferring to extractor",
			zap.String("shortcode", shortcode), zap.Error(err))
		return nil, domain.ErrPostDeclined
	}

	if post.IsCarousel() {
		return o.resolveCarousel(ctx, req, post)
	}

	if req.CarouselIndex > 0 {
		return nil, fmt.Errorf("%w: post has a single item, got index %d",
			domain.ErrInvalidCarouselIndex, req.CarouselIndex)
	}

	if post.IsVideo {
		// The reader's video asset is not guaranteed streamable across all
		// post variants; the extractor handles those better
		return nil, domain.ErrPostDeclined
	}

	target := &domain.ResolvedTarget{
		EffectiveURL:    post.DisplayURL,
		DisplayFilename: sanitize.Filename(fmt.Sprintf("Photo by %s.jpg", post.Owner)),
		MediaType:       mediaTypeJPEG,
		DirectFetch:     true,
	}

	return o.openDirectAsset(ctx, target)
}

func (o *Orchestrator) resolveCarousel(ctx context.Context, req domain.DownloadRequest, post *domain.Post) (*Resolution, error) {
	if req.CarouselIndex == domain.NoCarouselItem {
		// Discovery: structured data instead of bytes, never a download
		return &Resolution{Manifest: domain.NewCarouselManifest(post.Items)}, nil
	}

	if req.CarouselIndex < 0 || req.CarouselIndex >= len(post.Items) {
		return nil, fmt.Errorf("%w: index %d out of range for %d items",
			domain.ErrInvalidCarouselIndex, req.CarouselIndex, len(post.Items))
	}

	item := post.Items[req.CarouselIndex]
	ordinal := req.CarouselIndex + 1

	target := &domain.ResolvedTarget{DirectFetch: true}
	if item.IsVideo {
		target.EffectiveURL = item.VideoURL
		target.DisplayFilename = sanitize.Filename(fmt.Sprintf("Video by %s (%d).mp4", post.Owner, ordinal))
		target.MediaType = mediaTypeMP4
	} else {
		target.EffectiveURL = item.DisplayURL
		target.DisplayFilename = sanitize.Filename(fmt.Sprintf("Photo by %s (%d).jpg", post.Owner, ordinal))
		target.MediaType = mediaTypeJPEG
	}

	return o.openDirectAsset(ctx, target)
}

func (o *Orchestrator) openDirectAsset(ctx context.Context, target *domain.ResolvedTarget) (*Resolution, error) {
	body, err := o.fetcher.Fetch(ctx, target.EffectiveURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamFetchFailed, err)
	}
	return &Resolution{Target: target, Body: body}, nil
}

// resolveDirect invokes the general-purpose extractor on the target URL
func (o *Orchestrator) resolveDirect(ctx context.Context, platform domain.Platform, req domain.DownloadRequest, targetURL, fixedFilename string) (*Resolution, error) {
	info, err := o.extractor.Probe(ctx, targetURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrResolutionFailed, err)
	}

	target := &domain.ResolvedTarget{EffectiveURL: targetURL}

	opts := domain.StreamOptions{}
	if req.IsAudio() {
		opts.Audio = true
		opts.AudioBitrate = audioBitrate(req.Quality)
		target.MediaType = mediaTypeBinary
	} else {
		opts.Quality = req.Quality
		target.MediaType = mediaTypeMP4
	}

	filename := fixedFilename
	if filename == "" {
		filename = displayFilename(platform, req, info)
	}
	target.DisplayFilename = sanitize.Filename(filename)

	body, err := o.extractor.Stream(ctx, targetURL, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrResolutionFailed, err)
	}

	return &Resolution{Target: target, Body: body}, nil
}

// displayFilename derives the user-facing filename from extractor metadata.
// The social-post platform prefers the uploader identity, everything else
// uses the media title.
func displayFilename(platform domain.Platform, req domain.DownloadRequest, info *domain.MediaInfo) string {
	ext := "mp4"
	if info.Ext != "" {
		ext = info.Ext
	}
	if req.IsAudio() {
		ext = "mp3"
	}

	if platform == domain.PlatformInstagram {
		uploader := info.BestUploader()
		if uploader == "" {
			uploader = "Instagram User"
		}
		return fmt.Sprintf("Video by %s.%s", uploader, ext)
	}

	title := info.Title
	if title == "" {
		title = "video"
	}
	return fmt.Sprintf("%s.%s", title, ext)
}

// audioBitrate turns the caller's quality hint into a numeric kbps value,
// falling back to 192 when the hint is not purely numeric.
func audioBitrate(quality string) string {
	trimmed := strings.TrimSuffix(strings.TrimSpace(quality), "k")
	if trimmed == "" || !isDigits(trimmed) {
		return defaultAudioBitrate
	}
	return trimmed
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isDecline(err error) bool {
	return errors.Is(err, domain.ErrPostDeclined)
}

// postShortcode extracts the post identifier from a structured-post URL.
// Returns false when the URL carries none, in which case post resolution is
// skipped entirely.
func postShortcode(rawURL string) (string, bool) {
	for _, marker := range []string{"/p/", "/reels/", "/reel/"} {
		idx := strings.Index(rawURL, marker)
		if idx < 0 {
			continue
		}
		rest := rawURL[idx+len(marker):]
		end := strings.IndexAny(rest, "/?#")
		if end >= 0 {
			rest = rest[:end]
		}
		if rest != "" {
			return rest, true
		}
	}
	return "", false
}
