package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// App holds the application state and dependencies
type App struct {
	downloader   *Downloader
	transcriber  *Transcriber
	audio        *Audio
	ai           *AI
	instructions *InstructionManager
	history      *HistoryStore
	config       *Config
	ui           UIManager
}

// NewApp initializes the application
func NewApp(config *Config, options ...AppOption) *App {
	cmdRunner := &DefaultCommandRunner{}

	instructions := NewInstructionManager(config.ConfigDir, config.Instruction)
	ui := NewUIManager(config.Verbose, config.Quiet)

	app := &App{
		downloader:   NewDownloader(config.DownloadDir, config.Verbose),
		transcriber:  NewTranscriber(cmdRunner, config.ModelDir, config.TempDir, config.Verbose),
		audio:        NewAudio(cmdRunner, config.Verbose),
		ai:           NewAIWithKey(config.ChatAPIKey, config.ChatBaseURL, config.ChatModel, config.ChatTimeout, config.Verbose),
		instructions: instructions,
		history:      NewHistoryStore(config.HistoryFile, HistoryLimit),
		config:       config,
		ui:           ui,
	}

	// Apply any custom options
	for _, option := range options {
		option(app)
	}

	return app
}

// AppOption customizes App creation
type AppOption func(*App)

// WithDownloader sets a custom downloader
func WithDownloader(downloader *Downloader) AppOption {
	return func(a *App) {
		a.downloader = downloader
	}
}

// WithTranscriber sets a custom transcriber
func WithTranscriber(transcriber *Transcriber) AppOption {
	return func(a *App) {
		a.transcriber = transcriber
	}
}

// WithAudio sets a custom audio prober
func WithAudio(audio *Audio) AppOption {
	return func(a *App) {
		a.audio = audio
	}
}

// WithAI sets a custom AI processor
func WithAI(ai *AI) AppOption {
	return func(a *App) {
		a.ai = ai
	}
}

// SetInstructionManager sets a new instruction manager
func (app *App) SetInstructionManager(im *InstructionManager) {
	app.instructions = im
}

// History returns the download history store
func (app *App) History() *HistoryStore {
	return app.history
}

// ValidateURL checks the URL against the supported platforms and returns
// the cleaned URL. Unsupported URLs are rejected before any network access.
func (app *App) ValidateURL(rawURL string) (string, error) {
	if !IsSupportedURL(rawURL) {
		return "", fmt.Errorf("unsupported URL: %s (only YouTube and Bilibili video links are supported)", rawURL)
	}
	return CleanURL(rawURL), nil
}

// DownloadAudio downloads audio for a video URL into a session directory
func (app *App) DownloadAudio(ctx context.Context, videoURL string, part int) (*DownloadResult, error) {
	return app.DownloadAudioWithProgress(ctx, videoURL, part, false)
}

// DownloadAudioWithProgress downloads audio with optional progress tracking
func (app *App) DownloadAudioWithProgress(ctx context.Context, videoURL string, part int, showProgress bool) (*DownloadResult, error) {
	cleanURL, err := app.ValidateURL(videoURL)
	if err != nil {
		return nil, err
	}

	if _, err := EnsureFFmpeg(); err != nil {
		return nil, err
	}

	app.recordHistory(cleanURL, "", "", TaskStatusDownloading)

	var bar ProgressBar
	if showProgress {
		bar = app.ui.NewProgressBar(100, "Downloading audio")
	}

	result, err := app.downloader.Download(ctx, cleanURL, part, bar)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		app.recordHistory(cleanURL, "", "", TaskStatusError)
		return nil, fmt.Errorf("downloading audio: %w", err)
	}

	app.recordHistory(cleanURL, result.Title, result.SessionDir, TaskStatusCompleted)
	return result, nil
}

// recordHistory appends a history entry, warning instead of failing on error
func (app *App) recordHistory(url, title, path string, status TaskStatus) {
	if _, err := app.history.Add(url, title, path, status); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to record history: %v\n", err)
	}
}

// TranscribeAudio transcribes an audio file and returns the transcript
func (app *App) TranscribeAudio(ctx context.Context, audioFile, model string) (string, error) {
	return app.TranscribeAudioWithProgress(ctx, audioFile, model, false)
}

// TranscribeAudioWithProgress transcribes an audio file with optional status output
func (app *App) TranscribeAudioWithProgress(ctx context.Context, audioFile, model string, showProgress bool) (string, error) {
	if model == "" {
		model = app.config.WhisperModel
	}

	if _, err := EnsureFFmpeg(); err != nil {
		return "", err
	}

	var bar ProgressBar
	if showProgress && !FileExists(app.transcriber.ModelPath(model)) {
		bar = app.ui.NewProgressBar(100, fmt.Sprintf("Downloading %s model", model))
	}
	if _, err := app.transcriber.EnsureModel(ctx, model, bar); err != nil {
		if bar != nil {
			bar.Finish()
		}
		return "", err
	}
	if bar != nil {
		bar.Finish()
	}

	description := "Transcribing audio..."
	if showProgress || app.config.Verbose {
		if duration, err := app.audio.Duration(ctx, audioFile); err == nil {
			description = fmt.Sprintf("Transcribing %s of audio...", FormatDuration(duration))
			if app.config.Verbose {
				fmt.Printf("Audio duration: %s\n", FormatDuration(duration))
			}
		}
	}

	var spinner ProgressBar
	if showProgress {
		spinner = app.ui.NewSpinner(description)
	}

	transcript, err := app.transcriber.Transcribe(ctx, audioFile, model, nil)
	if spinner != nil {
		spinner.Finish()
	}
	if err != nil {
		return "", err
	}

	return transcript, nil
}

// GenerateNotes turns a transcript into Markdown notes, splitting long
// transcripts into chunks and combining the per-chunk results
func (app *App) GenerateNotes(ctx context.Context, transcript string) (string, error) {
	return app.GenerateNotesWithProgress(ctx, transcript, false)
}

// GenerateNotesWithProgress generates notes with optional progress tracking
func (app *App) GenerateNotesWithProgress(ctx context.Context, transcript string, showProgress bool) (string, error) {
	if transcript == "" {
		return "", fmt.Errorf("transcript is empty")
	}

	instruction, err := app.instructions.Instruction()
	if err != nil {
		return "", fmt.Errorf("loading notes instruction: %w", err)
	}

	chunks := ChunkText(transcript, app.config.ChunkSize)

	var bar ProgressBar
	if showProgress && len(chunks) > 1 {
		bar = app.ui.NewProgressBar(len(chunks), "Generating notes")
	}

	sections := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		prompt, err := BuildChunkPrompt(instruction, chunk, i+1, len(chunks))
		if err != nil {
			return "", err
		}

		section, err := app.ai.Complete(ctx, prompt)
		if err != nil {
			return "", fmt.Errorf("generating notes for part %d/%d: %w", i+1, len(chunks), err)
		}
		sections = append(sections, section)

		if bar != nil {
			bar.Advance()
		}
		if app.config.Verbose {
			fmt.Printf("Generated notes for part %d/%d\n", i+1, len(chunks))
		}
	}

	if bar != nil {
		bar.Finish()
	}

	return CombineNotes(sections), nil
}

// Chat sends a message with conversation history to the assistant
func (app *App) Chat(ctx context.Context, history []ChatMessage, message string) (string, error) {
	return app.ai.Chat(ctx, history, message)
}

// ProcessURL performs the complete workflow: download -> transcribe -> notes.
// Every downloaded part is transcribed in order. The transcript and notes
// are saved next to the audio in the session directory and the rendered
// notes are printed.
func (app *App) ProcessURL(ctx context.Context, videoURL string, part int) error {
	showStatus := !app.config.Quiet

	cleanURL, err := app.ValidateURL(videoURL)
	if err != nil {
		return err
	}

	result, err := app.DownloadAudioWithProgress(ctx, cleanURL, part, showStatus)
	if err != nil {
		return err
	}

	audioFiles, err := ListAudioFiles(result.Files)
	if err != nil {
		return err
	}

	app.recordHistory(cleanURL, result.Title, result.SessionDir, TaskStatusTranscribing)

	transcripts := make([]string, 0, len(audioFiles))
	for i, audioFile := range audioFiles {
		partTranscript, err := app.TranscribeAudioWithProgress(ctx, audioFile, app.config.WhisperModel, showStatus)
		if err != nil {
			app.recordHistory(cleanURL, result.Title, result.SessionDir, TaskStatusError)
			return err
		}
		transcripts = append(transcripts, partTranscript)

		if len(audioFiles) > 1 && app.config.Verbose {
			fmt.Printf("Transcribed part %d/%d\n", i+1, len(audioFiles))
		}
	}
	transcript := strings.Join(transcripts, "\n\n")

	transcriptPath := filepath.Join(result.SessionDir, "transcript.txt")
	if err := os.WriteFile(transcriptPath, []byte(transcript), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to save transcript: %v\n", err)
	}

	notes, err := app.GenerateNotesWithProgress(ctx, transcript, showStatus)
	if err != nil {
		return err
	}

	notesPath := filepath.Join(result.SessionDir, "notes.md")
	if err := os.WriteFile(notesPath, []byte(notes), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to save notes: %v\n", err)
	}

	rendered, err := RenderMarkdown(notes)
	if err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}

	app.recordHistory(cleanURL, result.Title, result.SessionDir, TaskStatusCompleted)

	fmt.Println(rendered)
	app.ui.Printf("Saved to %s\n", result.SessionDir)
	return nil
}
