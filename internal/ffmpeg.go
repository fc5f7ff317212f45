package internal

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// FindFFmpeg locates the ffmpeg binary across the FFMPEG_PATH environment
// variable, PATH, and common installation paths
func FindFFmpeg() (string, error) {
	var candidates []string

	if envPath := os.Getenv("FFMPEG_PATH"); envPath != "" {
		candidates = append(candidates, envPath)
	}

	if pathBin, err := exec.LookPath("ffmpeg"); err == nil {
		candidates = append(candidates, pathBin)
	}

	// Common Homebrew and system paths
	candidates = append(candidates,
		"/opt/homebrew/bin/ffmpeg",
		"/usr/local/bin/ffmpeg",
		"/usr/bin/ffmpeg",
	)

	// Relative to the current executable (bundled install scenario)
	if execPath, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(execPath), "ffmpeg"))
	}

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("ffmpeg not found - install it (e.g. brew install ffmpeg) or set FFMPEG_PATH to the executable")
}

// EnsureFFmpeg finds ffmpeg and prepends its directory to PATH so that
// yt-dlp and the transcription pipeline can invoke it
func EnsureFFmpeg() (string, error) {
	ffmpegPath, err := FindFFmpeg()
	if err != nil {
		return "", err
	}

	ffmpegDir := filepath.Dir(ffmpegPath)
	currentPath := os.Getenv("PATH")
	for _, dir := range filepath.SplitList(currentPath) {
		if dir == ffmpegDir {
			return ffmpegPath, nil
		}
	}

	newPath := ffmpegDir + string(os.PathListSeparator) + currentPath
	if err := os.Setenv("PATH", newPath); err != nil {
		return "", fmt.Errorf("updating PATH: %w", err)
	}

	return ffmpegPath, nil
}

// Audio handles audio file probing using FFmpeg tools
type Audio struct {
	cmdRunner CommandRunner
	verbose   bool
}

// NewAudio creates a new audio prober
func NewAudio(cmdRunner CommandRunner, verbose bool) *Audio {
	return &Audio{
		cmdRunner: cmdRunner,
		verbose:   verbose,
	}
}

// FormatDuration renders a duration in seconds as minutes:seconds
func FormatDuration(seconds float64) string {
	minutes := int(seconds) / 60
	secs := int(seconds) % 60
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// Duration returns the audio file duration in seconds
func (a *Audio) Duration(ctx context.Context, audioFile string) (float64, error) {
	output, err := a.cmdRunner.Run(ctx, "ffprobe",
		"-i", audioFile,
		"-show_entries", "format=duration",
		"-v", "quiet",
		"-of", "csv=p=0")

	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w\nOutput: %s", err, string(output))
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing duration: %w", err)
	}

	return duration, nil
}
