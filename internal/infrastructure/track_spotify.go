package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/social-fetch-go/internal/domain"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyAPIURL   = "https://api.spotify.com"
)

// SpotifyClient implements domain.TrackLookup against the Spotify Web API
// using the client-credentials flow. One long-lived instance is shared by
// all requests; only the cached token is mutable and it is guarded by a
// mutex, so concurrent lookups never share in-flight call state.
type SpotifyClient struct {
	config     *domain.SpotifyConfig
	httpClient *http.Client
	logger     *zap.Logger

	// test seams
	tokenURL string
	apiURL   string

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

// NewSpotifyClient creates a new Spotify track-lookup client
func NewSpotifyClient(config *domain.SpotifyConfig, logger *zap.Logger) *SpotifyClient {
	return &SpotifyClient{
		config:     config,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
		tokenURL:   spotifyTokenURL,
		apiURL:     spotifyAPIURL,
	}
}

type spotifyTrackJSON struct {
	Name    string `json:"name"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
}

type spotifyTokenJSON struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// Track retrieves title and primary artist for a catalog track URL
func (c *SpotifyClient) Track(ctx context.Context, trackURL string) (*domain.TrackInfo, error) {
	trackID, err := trackIDFromURL(trackURL)
	if err != nil {
		return nil, err
	}

	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.apiURL+"/v1/tracks/"+trackID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("track request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("track request returned status %d", resp.StatusCode)
	}

	var track spotifyTrackJSON
	if err := json.NewDecoder(resp.Body).Decode(&track); err != nil {
		return nil, fmt.Errorf("failed to parse track response: %w", err)
	}

	if track.Name == "" || len(track.Artists) == 0 {
		return nil, fmt.Errorf("track metadata incomplete")
	}

	return &domain.TrackInfo{
		Title:  track.Name,
		Artist: track.Artists[0].Name,
	}, nil
}

// token returns a valid access token, refreshing it when missing or expired
func (c *SpotifyClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.expiresAt) {
		return c.accessToken, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.config.ClientID, c.config.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request returned status %d", resp.StatusCode)
	}

	var token spotifyTokenJSON
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("token response missing access token")
	}

	c.accessToken = token.AccessToken
	// Refresh one minute early to avoid using a token at the edge of expiry
	c.expiresAt = time.Now().Add(time.Duration(token.ExpiresIn)*time.Second - time.Minute)

	c.logger.Debug("refreshed catalog API token", zap.Time("expires_at", c.expiresAt))

	return c.accessToken, nil
}

// trackIDFromURL extracts the track ID from URLs like
// https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC?si=abc
func trackIDFromURL(trackURL string) (string, error) {
	idx := strings.Index(trackURL, "/track/")
	if idx < 0 {
		return "", fmt.Errorf("not a track URL: %s", trackURL)
	}

	id := trackURL[idx+len("/track/"):]
	if end := strings.IndexAny(id, "/?#"); end >= 0 {
		id = id[:end]
	}
	if id == "" {
		return "", fmt.Errorf("not a track URL: %s", trackURL)
	}

	return id, nil
}
