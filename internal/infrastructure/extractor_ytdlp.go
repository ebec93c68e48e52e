package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yourusername/social-fetch-go/internal/domain"
)

// YTDLPExtractor implements domain.Extractor by spawning the yt-dlp binary.
// Video streams come straight off the child process's stdout; audio goes
// through a temp file because the mp3 transcode cannot write to a pipe.
type YTDLPExtractor struct {
	config *domain.DownloadConfig
	logger *zap.Logger
}

// NewYTDLPExtractor creates a new yt-dlp backed extractor
func NewYTDLPExtractor(config *domain.DownloadConfig, logger *zap.Logger) *YTDLPExtractor {
	return &YTDLPExtractor{
		config: config,
		logger: logger,
	}
}

// probeJSON matches the subset of yt-dlp's -J output we need
type probeJSON struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Ext        string `json:"ext"`
	Uploader   string `json:"uploader"`
	UploaderID string `json:"uploader_id"`
	Channel    string `json:"channel"`
}

// Probe retrieves media metadata without downloading
func (e *YTDLPExtractor) Probe(ctx context.Context, url string) (*domain.MediaInfo, error) {
	args := []string{"-J", "--no-playlist"}
	args = e.appendCookieArgs(args)
	args = append(args, url)

	e.logger.Debug("probing media", zap.String("cmd", ShellEscapeCommand(e.config.YTDLPBinary, args...)))

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.config.YTDLPBinary, args...)
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("yt-dlp probe failed: %w: %s", err, firstLine(stderr.String()))
	}

	var data probeJSON
	if err := json.Unmarshal(output, &data); err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp output: %w", err)
	}

	return &domain.MediaInfo{
		ID:         data.ID,
		Title:      data.Title,
		Ext:        data.Ext,
		Uploader:   data.Uploader,
		UploaderID: data.UploaderID,
		Channel:    data.Channel,
	}, nil
}

// Stream opens a byte source for the media at url. Closing the returned
// reader releases the child process or temp file on every path.
func (e *YTDLPExtractor) Stream(ctx context.Context, url string, opts domain.StreamOptions) (io.ReadCloser, error) {
	if opts.Audio {
		return e.streamAudio(ctx, url, opts)
	}
	return e.streamVideo(ctx, url, opts)
}

// streamVideo pipes yt-dlp's stdout directly to the caller
func (e *YTDLPExtractor) streamVideo(ctx context.Context, url string, opts domain.StreamOptions) (io.ReadCloser, error) {
	args := []string{"-f", videoFormatSelector(opts.Quality), "-o", "-", "--quiet", "--no-warnings"}
	args = e.appendCookieArgs(args)
	args = append(args, url)

	e.logger.Debug("spawning extractor", zap.String("cmd", ShellEscapeCommand(e.config.YTDLPBinary, args...)))

	cmd := exec.CommandContext(ctx, e.config.YTDLPBinary, args...)
	cmd.Stderr = io.Discard

	pipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open extractor pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start yt-dlp: %w", err)
	}

	return &processPipe{cmd: cmd, pipe: pipe, logger: e.logger}, nil
}

// streamAudio extracts to a temp file, then hands back a reader that deletes
// the file once streaming is done
func (e *YTDLPExtractor) streamAudio(ctx context.Context, url string, opts domain.StreamOptions) (io.ReadCloser, error) {
	if err := os.MkdirAll(e.config.TempDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	base := filepath.Join(e.config.TempDir, uuid.New().String())
	bitrate := opts.AudioBitrate
	if bitrate == "" {
		bitrate = "192"
	}

	args := []string{
		"-f", "bestaudio/best",
		"-x", "--audio-format", "mp3",
		"--audio-quality", bitrate,
		"--no-part", "--force-overwrites",
		"-o", base + ".%(ext)s",
	}
	args = e.appendCookieArgs(args)
	args = append(args, url)

	e.logger.Debug("spawning extractor", zap.String("cmd", ShellEscapeCommand(e.config.YTDLPBinary, args...)))

	cmd := exec.CommandContext(ctx, e.config.YTDLPBinary, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("yt-dlp failed: %w: %s", err, firstLine(string(out)))
	}

	// The -x postprocessor always lands on .mp3
	path := base + ".mp3"
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("extracted file missing: %w", err)
	}

	return &deleteOnCloseReader{
		File:    file,
		retries: e.config.CleanupRetries,
		delay:   e.config.CleanupDelay,
		logger:  e.logger,
	}, nil
}

func (e *YTDLPExtractor) appendCookieArgs(args []string) []string {
	if e.config.CookieFile != "" {
		if _, err := os.Stat(e.config.CookieFile); err == nil {
			return append(args, "--cookies", e.config.CookieFile)
		}
	}
	return args
}

// videoFormatSelector builds the yt-dlp format selector, honoring a height
// hint like "1080p" when the caller provided one
func videoFormatSelector(quality string) string {
	h := strings.TrimSuffix(strings.TrimSpace(quality), "p")
	if h != "" && isAllDigits(h) {
		return fmt.Sprintf("bestvideo[height<=%s]+bestaudio/best[height<=%s]", h, h)
	}
	return "bestvideo+bestaudio/best"
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}

// processPipe is a live extractor process bound to its stdout pipe. Close
// reaps the child on every exit path: normal EOF, mid-stream error, or
// client disconnect.
type processPipe struct {
	cmd    *exec.Cmd
	pipe   io.ReadCloser
	logger *zap.Logger
	once   sync.Once
}

func (p *processPipe) Read(b []byte) (int, error) {
	return p.pipe.Read(b)
}

func (p *processPipe) Close() error {
	p.once.Do(func() {
		p.pipe.Close()
		if p.cmd.Process != nil {
			// No-op if the process already exited
			_ = p.cmd.Process.Kill()
		}
		if err := p.cmd.Wait(); err != nil {
			p.logger.Debug("extractor process exited", zap.Error(err))
		}
	})
	return nil
}

// deleteOnCloseReader streams a temp file and removes it after the response
// finishes sending. Removal retries a bounded number of times to tolerate a
// brief OS-level file lock, then gives up with a log line.
type deleteOnCloseReader struct {
	*os.File
	retries int
	delay   time.Duration
	logger  *zap.Logger
}

func (d *deleteOnCloseReader) Close() error {
	path := d.Name()
	err := d.File.Close()

	go removeWithRetry(path, d.retries, d.delay, d.logger)

	return err
}

func removeWithRetry(path string, retries int, delay time.Duration, logger *zap.Logger) {
	if retries < 1 {
		retries = 1
	}

	for i := 0; i < retries; i++ {
		err := os.Remove(path)
		if err == nil || os.IsNotExist(err) {
			return
		}
		if i < retries-1 {
			time.Sleep(delay)
			continue
		}
		logger.Warn("failed to delete temp file, giving up",
			zap.String("path", path), zap.Int("attempts", retries), zap.Error(err))
	}
}
