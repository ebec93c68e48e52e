package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/social-fetch-go/internal/domain"
)

const instagramPostURL = "https://www.instagram.com/p/%s/?__a=1&__d=dis"

// InstagramReader implements domain.PostReader against Instagram's post
// metadata endpoint. Failures here are expected (private posts, rate
// limits); the orchestrator treats them as a soft decline and lets the
// extractor take over.
type InstagramReader struct {
	config     *domain.InstagramConfig
	httpClient *http.Client
	logger     *zap.Logger

	postURL string // test seam, format string taking the shortcode
}

// NewInstagramReader creates a new structured-post reader
func NewInstagramReader(config *domain.InstagramConfig, logger *zap.Logger) *InstagramReader {
	return &InstagramReader{
		config:     config,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
		postURL:    instagramPostURL,
	}
}

type igChildJSON struct {
	IsVideo    bool   `json:"is_video"`
	DisplayURL string `json:"display_url"`
	VideoURL   string `json:"video_url"`
}

type igMediaJSON struct {
	Typename   string `json:"__typename"`
	IsVideo    bool   `json:"is_video"`
	DisplayURL string `json:"display_url"`
	VideoURL   string `json:"video_url"`
	Owner      struct {
		Username string `json:"username"`
	} `json:"owner"`
	EdgeSidecarToChildren struct {
		Edges []struct {
			Node igChildJSON `json:"node"`
		} `json:"edges"`
	} `json:"edge_sidecar_to_children"`
}

type igPostJSON struct {
	GraphQL struct {
		ShortcodeMedia igMediaJSON `json:"shortcode_media"`
	} `json:"graphql"`
}

// Post retrieves metadata for a post identified by its shortcode
func (r *InstagramReader) Post(ctx context.Context, shortcode string) (*domain.Post, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf(r.postURL, shortcode), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", r.config.UserAgent)
	if r.config.SessionID != "" {
		req.AddCookie(&http.Cookie{Name: "sessionid", Value: r.config.SessionID})
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("post request returned status %d", resp.StatusCode)
	}

	var data igPostJSON
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse post response: %w", err)
	}

	media := data.GraphQL.ShortcodeMedia
	if media.DisplayURL == "" && len(media.EdgeSidecarToChildren.Edges) == 0 {
		return nil, fmt.Errorf("post metadata missing or restricted")
	}

	post := &domain.Post{
		Shortcode:  shortcode,
		Owner:      media.Owner.Username,
		IsVideo:    media.IsVideo,
		DisplayURL: media.DisplayURL,
		VideoURL:   media.VideoURL,
	}

	for _, edge := range media.EdgeSidecarToChildren.Edges {
		post.Items = append(post.Items, domain.PostItem{
			IsVideo:    edge.Node.IsVideo,
			DisplayURL: edge.Node.DisplayURL,
			VideoURL:   edge.Node.VideoURL,
		})
	}

	r.logger.Debug("fetched post metadata",
		zap.String("shortcode", shortcode),
		zap.String("owner", post.Owner),
		zap.Int("children", len(post.Items)))

	return post, nil
}
