package internal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// whisperModelURL is where ggml weights are fetched from on first use
const whisperModelURL = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main"

// supportedWhisperModels lists the model tiers the transcriber accepts
var supportedWhisperModels = []string{"tiny", "base", "small"}

// ValidateWhisperModel checks if the whisper model tier is supported
func ValidateWhisperModel(model string) error {
	for _, supported := range supportedWhisperModels {
		if model == supported {
			return nil
		}
	}
	return fmt.Errorf("unsupported whisper model: %s (supported: %s)", model, strings.Join(supportedWhisperModels, ", "))
}

// Transcriber runs offline speech recognition through a whisper.cpp binary
type Transcriber struct {
	cmdRunner CommandRunner
	modelDir  string
	tempDir   string
	verbose   bool
}

// NewTranscriber creates a new transcriber with model weights cached in modelDir
func NewTranscriber(cmdRunner CommandRunner, modelDir, tempDir string, verbose bool) *Transcriber {
	return &Transcriber{
		cmdRunner: cmdRunner,
		modelDir:  modelDir,
		tempDir:   tempDir,
		verbose:   verbose,
	}
}

// ModelPath returns the local path for a model tier's weights
func (t *Transcriber) ModelPath(model string) string {
	return filepath.Join(t.modelDir, "ggml-"+model+".bin")
}

// EnsureModel downloads the model weights on first use
func (t *Transcriber) EnsureModel(ctx context.Context, model string, bar ProgressBar) (string, error) {
	if err := ValidateWhisperModel(model); err != nil {
		return "", err
	}

	modelPath := t.ModelPath(model)
	if FileExists(modelPath) {
		return modelPath, nil
	}

	if err := EnsureDirs(t.modelDir); err != nil {
		return "", fmt.Errorf("creating model directory: %w", err)
	}

	if t.verbose {
		fmt.Printf("Downloading whisper model %q to %s\n", model, modelPath)
	}

	url := fmt.Sprintf("%s/ggml-%s.bin", whisperModelURL, model)
	if err := t.downloadModel(ctx, url, modelPath, bar); err != nil {
		return "", fmt.Errorf("downloading whisper model %s: %w", model, err)
	}

	return modelPath, nil
}

// downloadModel streams the weights to a temp file and renames it into place
// so an interrupted download never leaves a truncated model behind
func (t *Transcriber) downloadModel(ctx context.Context, url, dest string, bar ProgressBar) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".partial-*")
	if err != nil {
		return err
	}
	defer func() {
		tmp.Close()
		if FileExists(tmp.Name()) {
			cleanupFiles(tmp.Name())
		}
	}()

	reader := io.Reader(resp.Body)
	if bar != nil && resp.ContentLength > 0 {
		reader = &progressReader{
			reader: resp.Body,
			total:  resp.ContentLength,
			bar:    bar,
		}
	}

	if _, err := io.Copy(tmp, reader); err != nil {
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), dest)
}

// progressReader reports download progress as a percentage
type progressReader struct {
	reader io.Reader
	total  int64
	read   int64
	bar    ProgressBar
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	pr.read += int64(n)
	pr.bar.Set(int(pr.read * 100 / pr.total))
	return n, err
}

// findWhisperBinary locates the whisper.cpp CLI
func findWhisperBinary() (string, error) {
	if envBin := os.Getenv("AUDIONOTE_WHISPER_BIN"); envBin != "" {
		if FileExists(envBin) {
			return envBin, nil
		}
		return "", fmt.Errorf("AUDIONOTE_WHISPER_BIN points at %s, which does not exist", envBin)
	}

	for _, name := range []string{"whisper-cli", "whisper-cpp", "whisper"} {
		if bin, err := exec.LookPath(name); err == nil {
			return bin, nil
		}
	}

	return "", fmt.Errorf("whisper binary not found - install whisper.cpp (e.g. brew install whisper-cpp) or set AUDIONOTE_WHISPER_BIN")
}

// Transcribe converts an audio file to plain text using the given model tier
func (t *Transcriber) Transcribe(ctx context.Context, audioFile, model string, bar ProgressBar) (string, error) {
	if !FileExists(audioFile) {
		return "", fmt.Errorf("audio file does not exist: %s", audioFile)
	}

	modelPath, err := t.EnsureModel(ctx, model, bar)
	if err != nil {
		return "", err
	}

	binary, err := findWhisperBinary()
	if err != nil {
		return "", err
	}

	if err := EnsureDirs(t.tempDir); err != nil {
		return "", fmt.Errorf("creating temp directory: %w", err)
	}

	if t.verbose {
		fmt.Printf("Transcribing %s with model %q\n", audioFile, model)
	}

	// whisper.cpp writes <output-base>.txt when given -otxt
	outputBase := filepath.Join(t.tempDir, strings.TrimSuffix(filepath.Base(audioFile), filepath.Ext(audioFile)))
	output, err := t.cmdRunner.Run(ctx, binary,
		"-m", modelPath,
		"-f", audioFile,
		"-l", "auto",
		"-otxt",
		"-of", outputBase,
		"--no-prints")
	if err != nil {
		return "", fmt.Errorf("whisper failed: %w\nOutput: %s", err, string(output))
	}

	transcriptFile := outputBase + ".txt"
	defer cleanupFiles(transcriptFile)

	text, err := os.ReadFile(transcriptFile)
	if err != nil {
		return "", fmt.Errorf("reading transcription output: %w", err)
	}

	transcript := strings.TrimSpace(string(text))
	if transcript == "" {
		return "", fmt.Errorf("transcription produced no text")
	}

	return transcript, nil
}
