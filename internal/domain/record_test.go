package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDownloadRecord(t *testing.T) {
	record := NewDownloadRecord("https://www.youtube.com/watch?v=abc", PlatformYouTube, FormatVideo)

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", record.URL)
	assert.Equal(t, PlatformYouTube, record.Platform)
	assert.Equal(t, FormatVideo, record.FormatType)
	assert.Equal(t, RecordStreaming, record.Status)
	assert.Nil(t, record.CompletedAt)
}

func TestDownloadRecord_MarkCompleted(t *testing.T) {
	record := NewDownloadRecord("https://youtu.be/abc", PlatformYouTube, FormatAudio)

	record.MarkCompleted("song.mp3", "application/octet-stream", 1024)

	assert.Equal(t, RecordCompleted, record.Status)
	assert.Equal(t, "song.mp3", record.Filename)
	assert.Equal(t, "application/octet-stream", record.MediaType)
	assert.Equal(t, int64(1024), record.BytesSent)
	assert.NotNil(t, record.CompletedAt)
}

func TestDownloadRecord_MarkFailed(t *testing.T) {
	record := NewDownloadRecord("https://youtu.be/abc", PlatformYouTube, FormatVideo)

	record.MarkFailed(errors.New("extraction failed"))

	assert.Equal(t, RecordFailed, record.Status)
	assert.Equal(t, "extraction failed", record.ErrorMessage)
	assert.NotNil(t, record.CompletedAt)
}

func TestNewDownloadRequest_Defaults(t *testing.T) {
	req := NewDownloadRequest("https://youtu.be/abc")

	assert.Equal(t, "https://youtu.be/abc", req.SourceURL)
	assert.Equal(t, FormatVideo, req.FormatType)
	assert.Equal(t, "best", req.Quality)
	assert.Equal(t, NoCarouselItem, req.CarouselIndex)
	assert.False(t, req.IsAudio())
}

func TestNewCarouselManifest(t *testing.T) {
	items := []PostItem{
		{IsVideo: false, DisplayURL: "https://cdn.example.com/a.jpg"},
		{IsVideo: true, DisplayURL: "https://cdn.example.com/b.jpg", VideoURL: "https://cdn.example.com/b.mp4"},
	}

	manifest := NewCarouselManifest(items)

	assert.Equal(t, "carousel", manifest.Type)
	assert.Len(t, manifest.Items, 2)
	assert.Equal(t, 0, manifest.Items[0].Index)
	assert.Equal(t, "photo", manifest.Items[0].Kind)
	assert.Equal(t, 1, manifest.Items[1].Index)
	assert.Equal(t, "video", manifest.Items[1].Kind)
	assert.True(t, manifest.Items[1].IsVideo)
}

func TestMediaInfo_BestUploader(t *testing.T) {
	info := &MediaInfo{Channel: "chan", Uploader: "up", UploaderID: "uid"}
	assert.Equal(t, "chan", info.BestUploader())

	info.Channel = ""
	assert.Equal(t, "up", info.BestUploader())

	info.Uploader = ""
	assert.Equal(t, "uid", info.BestUploader())

	info.UploaderID = ""
	assert.Equal(t, "", info.BestUploader())
}

func TestPost_IsCarousel(t *testing.T) {
	single := &Post{Items: nil}
	assert.False(t, single.IsCarousel())

	oneChild := &Post{Items: []PostItem{{}}}
	assert.False(t, oneChild.IsCarousel())

	carousel := &Post{Items: []PostItem{{}, {}}}
	assert.True(t, carousel.IsCarousel())
}
