package infrastructure

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yourusername/social-fetch-go/internal/domain"
)

func newTestSearcher(server *httptest.Server) *YouTubeSearcher {
	searcher := NewYouTubeSearcher(zap.NewNop())
	searcher.searchURL = server.URL + "/results"
	return searcher
}

func TestFirstVideoID_FindsFirstMarker(t *testing.T) {
	page := `<html><script>var ytInitialData = {"videoRenderer":{"navigationEndpoint":` +
		`{"commandMetadata":{"url":"/watch?v=dQw4w9WgXcQ"}}}};` +
		`other "watch?v=SECOND_ID" later</script></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/results", r.URL.Path)
		assert.Equal(t, "queen bohemian rhapsody official audio", r.URL.Query().Get("search_query"))
		w.Write([]byte(page))
	}))
	defer server.Close()

	videoID, err := newTestSearcher(server).FirstVideoID(context.Background(), "queen bohemian rhapsody official audio")

	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", videoID)
}

func TestFirstVideoID_NoMarker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>No results found</body></html>"))
	}))
	defer server.Close()

	_, err := newTestSearcher(server).FirstVideoID(context.Background(), "gibberish query")

	assert.ErrorIs(t, err, domain.ErrNoMatchFound)
	assert.Contains(t, err.Error(), "gibberish query")
}

func TestFirstVideoID_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestSearcher(server).FirstVideoID(context.Background(), "any")

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNoMatchFound)
}

func TestFirstVideoIDHelper(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   string
		wantOK bool
	}{
		{"quoted id", `prefix "watch?v=abc123" suffix`, "abc123", true},
		{"unterminated id runs to end", `watch?v=abc123`, "abc123", true},
		{"empty id", `"watch?v="`, "", false},
		{"no marker", `watch?x=abc`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := firstVideoID(tt.body)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
