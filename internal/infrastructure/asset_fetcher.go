package infrastructure

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yourusername/social-fetch-go/internal/domain"
)

// HTTPAssetFetcher implements domain.AssetFetcher with a plain HTTP GET.
// Used for resolved post assets and the image proxy, where the service acts
// as a pass-through for a concrete media URL.
type HTTPAssetFetcher struct {
	httpClient *http.Client
	userAgent  string
}

// NewHTTPAssetFetcher creates a new asset fetcher
func NewHTTPAssetFetcher(userAgent string) *HTTPAssetFetcher {
	return &HTTPAssetFetcher{
		// No overall timeout: bodies are streamed and may legitimately take
		// long; cancellation comes from the request context
		httpClient: &http.Client{
			Transport: &http.Transport{
				ResponseHeaderTimeout: 30 * time.Second,
			},
		},
		userAgent: userAgent,
	}
}

// Fetch opens url and returns its body. The caller owns the returned reader;
// closing it releases the connection.
func (f *HTTPAssetFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("asset request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("asset request returned status %d", resp.StatusCode)
	}

	return resp.Body, nil
}

var _ domain.AssetFetcher = (*HTTPAssetFetcher)(nil)
