package internal

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var (
	bilibiliPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^https?://(?:www\.)?bilibili\.com/video/[A-Za-z0-9]+`),
		regexp.MustCompile(`^https?://(?:www\.)?bilibili\.com/bangumi/play/[A-Za-z0-9]+`),
		regexp.MustCompile(`^https?://(?:www\.)?bilibili\.com/cheese/play/[A-Za-z0-9]+`),
	}

	youtubePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^https?://(?:www\.)?youtube\.com/watch\?v=[A-Za-z0-9_-]+`),
		regexp.MustCompile(`^https?://(?:www\.)?youtube\.com/embed/[A-Za-z0-9_-]+`),
		regexp.MustCompile(`^https?://(?:www\.)?youtube\.com/v/[A-Za-z0-9_-]+`),
		regexp.MustCompile(`^https?://youtu\.be/[A-Za-z0-9_-]+`),
		regexp.MustCompile(`^https?://(?:www\.)?youtube\.com/shorts/[A-Za-z0-9_-]+`),
		regexp.MustCompile(`^https?://(?:m\.)?youtube\.com/watch\?v=[A-Za-z0-9_-]+`),
	}

	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*` + "\n\r\t" + `]`)
)

// IsSupportedURL reports whether the URL points at a supported video platform
func IsSupportedURL(rawURL string) bool {
	candidate := strings.ToLower(strings.TrimSpace(rawURL))

	for _, pattern := range bilibiliPatterns {
		if pattern.MatchString(candidate) {
			return true
		}
	}
	for _, pattern := range youtubePatterns {
		if pattern.MatchString(candidate) {
			return true
		}
	}
	return false
}

// trackingParams lists query parameters stripped by CleanURL per host.
// Parameters that affect what gets downloaded (v, p, t) are kept.
var trackingParams = map[string][]string{
	"bilibili": {"spm_id_from", "vd_source", "unique_k", "spm_id", "from_spmid", "from"},
	"youtube":  {"feature", "utm_source", "utm_medium", "utm_campaign", "utm_content", "utm_term"},
}

// CleanURL removes tracking parameters from a video URL
func CleanURL(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return rawURL
	}

	var remove []string
	switch {
	case strings.Contains(u.Host, "bilibili.com"):
		remove = trackingParams["bilibili"]
	case strings.Contains(u.Host, "youtube.com"), strings.Contains(u.Host, "youtu.be"):
		remove = trackingParams["youtube"]
	default:
		return rawURL
	}

	query := u.Query()
	for _, param := range remove {
		query.Del(param)
	}
	u.RawQuery = query.Encode()

	return u.String()
}

// SanitizeFilename replaces characters that are invalid in file names
func SanitizeFilename(name string) string {
	sanitized := strings.TrimSpace(invalidFilenameChars.ReplaceAllString(name, "_"))
	if sanitized == "" {
		return "download"
	}
	return sanitized
}

// CleanupTempDir purges files from a temporary directory
func CleanupTempDir(tempDir string) error {
	// Check if directory exists
	if _, err := os.Stat(tempDir); os.IsNotExist(err) {
		return nil // Directory doesn't exist, nothing to clean up
	}

	// Read directory contents
	entries, err := os.ReadDir(tempDir)
	if err != nil {
		return fmt.Errorf("reading temp directory: %w", err)
	}

	// Remove each file in the directory
	for _, entry := range entries {
		filePath := filepath.Join(tempDir, entry.Name())
		if err := os.Remove(filePath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove temporary file %s: %v\n", filePath, err)
		}
	}

	// Try to remove the directory itself
	if err := os.Remove(tempDir); err != nil {
		// It's okay if we can't remove the directory (it might not be empty)
		// Just log a warning
		fmt.Fprintf(os.Stderr, "Note: could not remove temp directory %s: %v\n", tempDir, err)
	}

	return nil
}

// getTerminalWidth gets terminal width with fallback
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80
	}

	if width > 10 {
		return width - 4
	}

	return width
}

// RenderMarkdown renders markdown content with glamour when stdout is a
// terminal; otherwise the content is returned as-is so it stays pipeable
func RenderMarkdown(content string) (string, error) {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return content, nil
	}

	width := getTerminalWidth()
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
		glamour.WithColorProfile(termenv.EnvColorProfile()),
	)
	if err != nil {
		return "", fmt.Errorf("creating terminal renderer: %w", err)
	}

	renderedContent, err := r.Render(content)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}

	return renderedContent, nil
}

// FileExists checks if a file exists
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}

// EnsureDirs creates directories if needed
func EnsureDirs(dir ...string) error {
	for _, dir := range dir {
		if !FileExists(dir) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
		}
	}
	return nil
}

// cleanupFiles removes temporary files
func cleanupFiles(files ...string) {
	for _, file := range files {
		if err := os.Remove(file); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove file %s: %v\n", file, err)
		}
	}
}

// ValidateChatAPIKey checks if the chat API key is set and returns a standardized error if not
func ValidateChatAPIKey(apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("chat API key is required - set it in config.toml or the DEEPSEEK_API_KEY environment variable")
	}
	return nil
}

// ValidateChatModel checks if the chat model is supported
func ValidateChatModel(model string) error {
	supportedModels := []string{"deepseek-chat", "deepseek-reasoner"}
	for _, supported := range supportedModels {
		if model == supported {
			return nil
		}
	}
	return fmt.Errorf("unsupported chat model: %s (supported: %s)", model, strings.Join(supportedModels, ", "))
}

// PickAudioFile selects a single audio file to transcribe from a session
// directory listing, preferring the extracted MP3
func PickAudioFile(files []string) (string, error) {
	audio, err := ListAudioFiles(files)
	if err != nil {
		return "", err
	}
	return audio[0], nil
}

// ListAudioFiles returns all downloaded audio files in name order, so
// multi-part downloads are transcribed part by part. Extracted MP3s are
// preferred; if none exist the full listing is returned.
func ListAudioFiles(files []string) ([]string, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files were downloaded")
	}

	var audio []string
	for _, file := range files {
		if strings.EqualFold(filepath.Ext(file), ".mp3") {
			audio = append(audio, file)
		}
	}
	if len(audio) == 0 {
		audio = append(audio, files...)
	}

	sort.Strings(audio)
	return audio, nil
}
