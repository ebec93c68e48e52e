package infrastructure

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yourusername/social-fetch-go/internal/domain"
)

func newTestSpotifyClient(tokenServer, apiServer *httptest.Server) *SpotifyClient {
	client := NewSpotifyClient(&domain.SpotifyConfig{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
	}, zap.NewNop())
	client.tokenURL = tokenServer.URL
	client.apiURL = apiServer.URL
	return client
}

func spotifyTokenHandler(t *testing.T, tokenCalls *int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		*tokenCalls++
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "test-client", user)
		assert.Equal(t, "test-secret", pass)
		fmt.Fprint(w, `{"access_token": "fake-token", "expires_in": 3600}`)
	}
}

func TestSpotifyClient_Track(t *testing.T) {
	var tokenCalls int
	tokenServer := httptest.NewServer(spotifyTokenHandler(t, &tokenCalls))
	defer tokenServer.Close()

	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/tracks/4uLU6hMCjMI", r.URL.Path)
		assert.Equal(t, "Bearer fake-token", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"name": "Bohemian Rhapsody", "artists": [{"name": "Queen"}, {"name": "Someone Else"}]}`)
	}))
	defer apiServer.Close()

	client := newTestSpotifyClient(tokenServer, apiServer)

	track, err := client.Track(context.Background(), "https://open.spotify.com/track/4uLU6hMCjMI?si=xyz")

	require.NoError(t, err)
	assert.Equal(t, "Bohemian Rhapsody", track.Title)
	assert.Equal(t, "Queen", track.Artist)
}

func TestSpotifyClient_TokenIsCached(t *testing.T) {
	var tokenCalls int
	tokenServer := httptest.NewServer(spotifyTokenHandler(t, &tokenCalls))
	defer tokenServer.Close()

	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name": "Song", "artists": [{"name": "Artist"}]}`)
	}))
	defer apiServer.Close()

	client := newTestSpotifyClient(tokenServer, apiServer)

	_, err := client.Track(context.Background(), "https://open.spotify.com/track/aaa")
	require.NoError(t, err)
	_, err = client.Track(context.Background(), "https://open.spotify.com/track/bbb")
	require.NoError(t, err)

	assert.Equal(t, 1, tokenCalls)
}

func TestSpotifyClient_TrackNotFound(t *testing.T) {
	var tokenCalls int
	tokenServer := httptest.NewServer(spotifyTokenHandler(t, &tokenCalls))
	defer tokenServer.Close()

	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer apiServer.Close()

	client := newTestSpotifyClient(tokenServer, apiServer)

	_, err := client.Track(context.Background(), "https://open.spotify.com/track/missing")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestSpotifyClient_RejectedCredentials(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer tokenServer.Close()

	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("API must not be called without a token")
	}))
	defer apiServer.Close()

	client := newTestSpotifyClient(tokenServer, apiServer)

	_, err := client.Track(context.Background(), "https://open.spotify.com/track/aaa")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestTrackIDFromURL(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{"https://open.spotify.com/track/4uLU6hMCjMI", "4uLU6hMCjMI", false},
		{"https://open.spotify.com/track/4uLU6hMCjMI?si=abc", "4uLU6hMCjMI", false},
		{"https://open.spotify.com/track/4uLU6hMCjMI/extra", "4uLU6hMCjMI", false},
		{"https://open.spotify.com/album/xyz", "", true},
		{"https://open.spotify.com/track/", "", true},
	}

	for _, tt := range tests {
		got, err := trackIDFromURL(tt.url)
		if tt.wantErr {
			assert.Error(t, err, "url %q", tt.url)
		} else {
			assert.NoError(t, err, "url %q", tt.url)
			assert.Equal(t, tt.want, got)
		}
	}
}
