package infrastructure

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/social-fetch-go/internal/domain"
)

const (
	youtubeSearchURL = "https://www.youtube.com/results"

	// Marker preceding a video identifier in the search results markup.
	// This is a heuristic scrape of the results page, not a search API
	// call, and it is expected to be brittle against markup changes.
	videoIDMarker = "watch?v="
)

// YouTubeSearcher implements domain.VideoSearcher by scraping the video
// platform's search-results page for the first video identifier.
type YouTubeSearcher struct {
	httpClient *http.Client
	logger     *zap.Logger

	searchURL string // test seam
}

// NewYouTubeSearcher creates a new search-page scraper
func NewYouTubeSearcher(logger *zap.Logger) *YouTubeSearcher {
	return &YouTubeSearcher{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
		searchURL:  youtubeSearchURL,
	}
}

// FirstVideoID fetches the search-results page for query and returns the
// first video identifier found, or domain.ErrNoMatchFound when the page
// carries none.
func (s *YouTubeSearcher) FirstVideoID(ctx context.Context, query string) (string, error) {
	searchURL := s.searchURL + "?search_query=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search request returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read search page: %w", err)
	}

	videoID, ok := firstVideoID(string(body))
	if !ok {
		s.logger.Info("search page carried no video marker", zap.String("query", query))
		return "", fmt.Errorf("%w: no video for query %q", domain.ErrNoMatchFound, query)
	}

	return videoID, nil
}

// firstVideoID locates the first marker occurrence and reads up to the next
// quote character
func firstVideoID(body string) (string, bool) {
	idx := strings.Index(body, videoIDMarker)
	if idx < 0 {
		return "", false
	}

	rest := body[idx+len(videoIDMarker):]
	end := strings.IndexByte(rest, '"')
	if end >= 0 {
		rest = rest[:end]
	}
	if rest == "" {
		return "", false
	}

	return rest, true
}
