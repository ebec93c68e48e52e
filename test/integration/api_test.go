//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yourusername/social-fetch-go/api"
	"github.com/yourusername/social-fetch-go/internal/app"
	"github.com/yourusername/social-fetch-go/internal/domain"
	"github.com/yourusername/social-fetch-go/internal/infrastructure"
)

type stubExtractor struct{}

func (s *stubExtractor) Probe(ctx context.Context, url string) (*domain.MediaInfo, error) {
	return &domain.MediaInfo{Title: "Test Video", Ext: "mp4", Uploader: "tester"}, nil
}

func (s *stubExtractor) Stream(ctx context.Context, url string, opts domain.StreamOptions) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("fake-media-bytes")), nil
}

type stubTrackLookup struct{}

func (s *stubTrackLookup) Track(ctx context.Context, trackURL string) (*domain.TrackInfo, error) {
	return &domain.TrackInfo{Title: "Song", Artist: "Artist"}, nil
}

type stubSearcher struct{}

func (s *stubSearcher) FirstVideoID(ctx context.Context, query string) (string, error) {
	return "vid123", nil
}

type stubPostReader struct{}

func (s *stubPostReader) Post(ctx context.Context, shortcode string) (*domain.Post, error) {
	return nil, errors.New("unavailable")
}

type stubFetcher struct{}

func (s *stubFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("fake-image-bytes")), nil
}

func setupTestServer(t *testing.T) (*httptest.Server, *infrastructure.SQLiteHistoryRepository) {
	repo, err := infrastructure.NewSQLiteHistoryRepository(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	logger := zap.NewNop()
	config := domain.DefaultConfig()

	orchestrator := app.NewOrchestrator(
		&stubExtractor{}, &stubTrackLookup{}, &stubSearcher{}, &stubPostReader{}, &stubFetcher{}, logger)

	router := api.SetupRouter(api.Deps{
		Orchestrator: orchestrator,
		Fetcher:      &stubFetcher{},
		History:      repo,
		Ready:        repo,
		Config:       config,
		Logger:       logger,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return server, repo
}

func postDownload(t *testing.T, server *httptest.Server, platform string, payload map[string]interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := http.Post(server.URL+"/api/v1/download/"+platform, "application/json", bytes.NewBuffer(data))
	require.NoError(t, err)
	return resp
}

func TestAPI_Health(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestAPI_DownloadVideo(t *testing.T) {
	server, _ := setupTestServer(t)

	resp := postDownload(t, server, "youtube", map[string]interface{}{
		"url": "https://www.youtube.com/watch?v=abc",
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "video/mp4", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "Test%20Video.mp4")

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "fake-media-bytes", string(data))
}

func TestAPI_DownloadRejectsMismatchedURL(t *testing.T) {
	server, _ := setupTestServer(t)

	resp := postDownload(t, server, "youtube", map[string]interface{}{
		"url": "https://www.instagram.com/p/ABC/",
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["detail"], "valid Youtube link")
}

func TestAPI_DownloadSpotifyTrack(t *testing.T) {
	server, _ := setupTestServer(t)

	resp := postDownload(t, server, "spotify", map[string]interface{}{
		"url": "https://open.spotify.com/track/xyz",
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/octet-stream", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "Song%20-%20Artist.mp3")
}

func TestAPI_HistoryAfterDownload(t *testing.T) {
	server, _ := setupTestServer(t)

	resp := postDownload(t, server, "youtube", map[string]interface{}{
		"url": "https://youtu.be/abc",
	})
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	listResp, err := http.Get(server.URL + "/api/v1/history")
	require.NoError(t, err)
	defer listResp.Body.Close()

	var records []map[string]interface{}
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&records))
	require.Len(t, records, 1)
	assert.Equal(t, "completed", records[0]["status"])
	assert.Equal(t, "youtube", records[0]["platform"])

	statsResp, err := http.Get(server.URL + "/api/v1/history/stats")
	require.NoError(t, err)
	defer statsResp.Body.Close()

	var stats map[string]interface{}
	require.NoError(t, json.NewDecoder(statsResp.Body).Decode(&stats))
	assert.Equal(t, float64(1), stats["total"])
	assert.Equal(t, float64(1), stats["completed"])
}

func TestAPI_ProxyImage(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, err := http.Get(server.URL + "/api/v1/proxy-image?url=https://cdn.example.com/a.jpg")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "fake-image-bytes", string(data))
}

func TestAPI_ProxyImageRequiresURL(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, err := http.Get(server.URL + "/api/v1/proxy-image")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
