package youtube

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Fetcher downloads videos with yt-dlp, merging separate video/audio streams
// into a single MP4 container. The output path is deterministic per video ID:
// <Dir>/<id>.mp4.
type Fetcher struct {
	// YtdlpPath is the path to the yt-dlp executable.
	YtdlpPath string
	// Dir is the scratch directory for downloaded files.
	Dir string
}

// NewFetcher creates a Fetcher writing into dir with default settings.
func NewFetcher(dir string) *Fetcher {
	return &Fetcher{
		YtdlpPath: "yt-dlp",
		Dir:       dir,
	}
}

// Fetch downloads the video with the best available combined quality and
// returns the materialized file path. The caller owns the file and is
// expected to remove it when the relay attempt finishes.
func (f *Fetcher) Fetch(ctx context.Context, videoID string) (string, error) {
	ytdlpPath := f.YtdlpPath
	if ytdlpPath == "" {
		ytdlpPath = "yt-dlp"
	}

	dir := f.Dir
	if dir == "" {
		dir = "."
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create download directory: %w", err)
	}

	cmd := exec.CommandContext(ctx, ytdlpPath, fetchArgs(dir, videoID)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", ErrYtdlpNotInstalled
		}
		if stderrStr := stderr.String(); stderrStr != "" {
			return "", fmt.Errorf("download video: %w: %s", err, stderrStr)
		}
		return "", fmt.Errorf("download video: %w", err)
	}

	outputPath := OutputPath(dir, videoID)
	if _, err := os.Stat(outputPath); err != nil {
		return "", fmt.Errorf("download video: output %s missing: %w", outputPath, err)
	}

	return outputPath, nil
}

// OutputPath returns the deterministic file path for a downloaded video ID.
func OutputPath(dir, videoID string) string {
	return filepath.Join(dir, videoID+".mp4")
}

// fetchArgs builds the yt-dlp argument list for one video download.
func fetchArgs(dir, videoID string) []string {
	return []string{
		"-f", "bestvideo+bestaudio/best",
		"-o", filepath.Join(dir, "%(id)s.%(ext)s"),
		"--merge-output-format", "mp4",
		"--no-playlist",
		"--no-warnings",
		"--quiet",
		WatchURL(videoID),
	}
}
