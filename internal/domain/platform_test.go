package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePlatform(t *testing.T) {
	assert.True(t, ValidatePlatform(PlatformYouTube))
	assert.True(t, ValidatePlatform(PlatformFacebook))
	assert.True(t, ValidatePlatform(PlatformInstagram))
	assert.True(t, ValidatePlatform(PlatformSpotify))
	assert.False(t, ValidatePlatform(Platform("tiktok")))
}

func TestClassifyURL(t *testing.T) {
	tests := []struct {
		name     string
		platform Platform
		url      string
		wantErr  error
	}{
		{"youtube canonical", PlatformYouTube, "https://www.youtube.com/watch?v=abc123", nil},
		{"youtube short link", PlatformYouTube, "https://youtu.be/abc123", nil},
		{"facebook watch", PlatformFacebook, "https://fb.watch/xyz/", nil},
		{"facebook canonical", PlatformFacebook, "https://www.facebook.com/user/videos/123", nil},
		{"instagram post", PlatformInstagram, "https://www.instagram.com/p/ABC123/", nil},
		{"spotify open", PlatformSpotify, "https://open.spotify.com/track/xyz", nil},
		{"spotify bare", PlatformSpotify, "https://spotify.com/track/xyz", nil},
		{"unknown platform", Platform("tiktok"), "https://tiktok.com/@user/video/1", ErrUnsupportedPlatform},
		{"youtube url on instagram", PlatformInstagram, "https://www.youtube.com/watch?v=abc", ErrPlatformURLMismatch},
		{"instagram url on youtube", PlatformYouTube, "https://www.instagram.com/p/ABC/", ErrPlatformURLMismatch},
		{"empty url", PlatformYouTube, "", ErrPlatformURLMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ClassifyURL(tt.platform, tt.url)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestClassifyURL_MismatchMessageNamesPlatform(t *testing.T) {
	err := ClassifyURL(PlatformYouTube, "https://example.com/video")

	assert.ErrorIs(t, err, ErrPlatformURLMismatch)
	assert.Contains(t, err.Error(), "Youtube")
	assert.Contains(t, err.Error(), "youtube.com")
}

func TestPlatformStrategy(t *testing.T) {
	assert.Equal(t, StrategyDirect, PlatformYouTube.Strategy())
	assert.Equal(t, StrategyDirect, PlatformFacebook.Strategy())
	assert.Equal(t, StrategyPost, PlatformInstagram.Strategy())
	assert.Equal(t, StrategyTrackSearch, PlatformSpotify.Strategy())
}

func TestPlatformDomains(t *testing.T) {
	assert.Equal(t, []string{"youtube.com", "youtu.be"}, PlatformYouTube.Domains())
	assert.Equal(t, []string{"facebook.com", "fb.watch"}, PlatformFacebook.Domains())
	assert.Equal(t, []string{"instagram.com"}, PlatformInstagram.Domains())
	assert.Equal(t, []string{"spotify.com", "open.spotify.com"}, PlatformSpotify.Domains())
}
