package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/lrstanley/go-ytdlp"
)

// VideoInfo contains video details from the platform
type VideoInfo struct {
	Title    string  `json:"title"`
	Uploader string  `json:"uploader"`
	Duration float64 `json:"duration"`
}

// DownloadResult describes a completed download
type DownloadResult struct {
	Title      string
	SessionDir string
	Files      []string
}

// Downloader extracts audio from video platforms into per-title session
// directories
type Downloader struct {
	baseDir string
	verbose bool
}

// NewDownloader creates a new audio downloader rooted at baseDir
func NewDownloader(baseDir string, verbose bool) *Downloader {
	return &Downloader{
		baseDir: baseDir,
		verbose: verbose,
	}
}

// Info fetches video details using go-ytdlp without downloading
func (d *Downloader) Info(ctx context.Context, videoURL string) (*VideoInfo, error) {
	if d.verbose {
		fmt.Println("Extracting video info...")
	}

	dl := ytdlp.New().
		DumpSingleJSON(). // Get all info in JSON format
		NoPlaylist().     // Don't expand playlists
		SkipDownload()    // Don't download the actual video

	result, err := dl.Run(ctx, videoURL)
	if err != nil {
		if d.verbose {
			fmt.Printf("Info extraction error: %v\n", err)
			if result != nil {
				fmt.Printf("Stderr: %s\n", result.Stderr)
			}
		}
		return nil, fmt.Errorf("extracting video info: %w", err)
	}

	var info VideoInfo
	if err := json.Unmarshal([]byte(result.Stdout), &info); err != nil {
		return nil, fmt.Errorf("parsing video info: %w", err)
	}

	if info.Title == "" {
		return nil, fmt.Errorf("video has no title")
	}

	if d.verbose {
		fmt.Printf("Title: %s\n", info.Title)
		fmt.Printf("Uploader: %s\n", info.Uploader)
		fmt.Printf("Duration: %.2f seconds\n", info.Duration)
	}

	return &info, nil
}

// Download fetches the video's audio track as a 192 kbps MP3 into a session
// directory named after the video title. A part number above zero restricts
// multi-part videos to that part; zero downloads all parts.
func (d *Downloader) Download(ctx context.Context, videoURL string, part int, bar ProgressBar) (*DownloadResult, error) {
	if err := EnsureDirs(d.baseDir); err != nil {
		return nil, fmt.Errorf("creating download directory: %w", err)
	}

	info, err := d.Info(ctx, videoURL)
	if err != nil {
		return nil, err
	}

	// Session directory named after the sanitized title keeps files from
	// different downloads apart
	sessionDir := filepath.Join(d.baseDir, SanitizeFilename(info.Title))
	if err := EnsureDirs(sessionDir); err != nil {
		return nil, fmt.Errorf("creating session directory: %w", err)
	}

	if d.verbose {
		fmt.Printf("Session directory: %s\n", sessionDir)
	}

	dl := ytdlp.New().
		Format("bestaudio/best"). // Select best audio format
		ExtractAudio().           // Extract audio from video
		AudioFormat("mp3").       // Convert to MP3 format
		AudioQuality("192K").     // 192 kbps output
		Output(filepath.Join(sessionDir, "%(title)s.%(ext)s"))

	if part > 0 {
		item := strconv.Itoa(part)
		dl = dl.PlaylistItems(item + ":" + item)
	}

	if bar != nil {
		dl.ProgressFunc(500*time.Millisecond, func(update ytdlp.ProgressUpdate) {
			if update.TotalBytes > 0 {
				percent := int(float64(update.DownloadedBytes) / float64(update.TotalBytes) * 100)
				bar.Set(percent)
			}
		})
	}

	result, err := d.runWithRetry(ctx, dl, videoURL)
	if err != nil {
		stderr := ""
		if result != nil {
			stderr = result.Stderr
		}
		return nil, fmt.Errorf("download failed: %w\nOutput: %s", err, stderr)
	}

	files, err := listSessionFiles(sessionDir)
	if err != nil {
		return nil, err
	}

	if d.verbose {
		fmt.Println("Audio download completed successfully")
	}

	return &DownloadResult{
		Title:      info.Title,
		SessionDir: sessionDir,
		Files:      files,
	}, nil
}

// runWithRetry runs the download once and retries a single time after a
// short delay on failure
func (d *Downloader) runWithRetry(ctx context.Context, dl *ytdlp.Command, videoURL string) (*ytdlp.Result, error) {
	result, err := dl.Run(ctx, videoURL)
	if err == nil {
		return result, nil
	}

	if d.verbose {
		fmt.Printf("Download failed, retrying in 2 seconds: %v\n", err)
	}

	select {
	case <-time.After(2 * time.Second):
	case <-ctx.Done():
		return result, ctx.Err()
	}

	return dl.Run(ctx, videoURL)
}

// listSessionFiles returns the files in a session directory
func listSessionFiles(sessionDir string) ([]string, error) {
	entries, err := os.ReadDir(sessionDir)
	if err != nil {
		return nil, fmt.Errorf("reading session directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, filepath.Join(sessionDir, entry.Name()))
		}
	}
	return files, nil
}
