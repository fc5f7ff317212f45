package internal

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeCommandRunner records the invocation and writes the transcript file
// that a real whisper run would produce
type fakeCommandRunner struct {
	lastName   string
	lastArgs   []string
	transcript string
	err        error
}

func (f *fakeCommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.lastName = name
	f.lastArgs = args
	if f.err != nil {
		return []byte("boom"), f.err
	}

	// Find the -of argument and write the output file next to it
	for i, arg := range args {
		if arg == "-of" && i+1 < len(args) {
			if err := os.WriteFile(args[i+1]+".txt", []byte(f.transcript), 0644); err != nil {
				return nil, err
			}
		}
	}
	return nil, nil
}

func TestValidateWhisperModel(t *testing.T) {
	tests := []struct {
		model   string
		wantErr bool
	}{
		{"tiny", false},
		{"base", false},
		{"small", false},
		{"medium", true},
		{"large", true},
		{"", true},
	}

	for _, test := range tests {
		err := ValidateWhisperModel(test.model)
		if (err != nil) != test.wantErr {
			t.Errorf("ValidateWhisperModel(%q) error = %v, wantErr %v", test.model, err, test.wantErr)
		}
	}
}

func TestTranscriberModelPath(t *testing.T) {
	tr := NewTranscriber(&fakeCommandRunner{}, "/models", "/tmp", false)

	expected := filepath.Join("/models", "ggml-base.bin")
	if path := tr.ModelPath("base"); path != expected {
		t.Errorf("ModelPath(\"base\") = %q, expected %q", path, expected)
	}
}

func TestEnsureModelRejectsUnknownTier(t *testing.T) {
	tr := NewTranscriber(&fakeCommandRunner{}, t.TempDir(), t.TempDir(), false)

	if _, err := tr.EnsureModel(context.Background(), "enormous", nil); err == nil {
		t.Error("EnsureModel() expected error for unknown tier")
	}
}

func TestEnsureModelUsesCachedWeights(t *testing.T) {
	modelDir := t.TempDir()
	modelFile := filepath.Join(modelDir, "ggml-tiny.bin")
	if err := os.WriteFile(modelFile, []byte("weights"), 0644); err != nil {
		t.Fatal(err)
	}

	tr := NewTranscriber(&fakeCommandRunner{}, modelDir, t.TempDir(), false)

	path, err := tr.EnsureModel(context.Background(), "tiny", nil)
	if err != nil {
		t.Fatalf("EnsureModel() error: %v", err)
	}
	if path != modelFile {
		t.Errorf("EnsureModel() = %q, expected cached %q", path, modelFile)
	}
}

func TestTranscribe(t *testing.T) {
	modelDir := t.TempDir()
	tempDir := t.TempDir()
	audioDir := t.TempDir()

	// Pre-create the model so no download is attempted
	if err := os.WriteFile(filepath.Join(modelDir, "ggml-tiny.bin"), []byte("weights"), 0644); err != nil {
		t.Fatal(err)
	}

	audioFile := filepath.Join(audioDir, "episode.mp3")
	if err := os.WriteFile(audioFile, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}

	// Point the binary lookup at a file that exists
	t.Setenv("AUDIONOTE_WHISPER_BIN", audioFile)

	runner := &fakeCommandRunner{transcript: "  hello from whisper  \n"}
	tr := NewTranscriber(runner, modelDir, tempDir, false)

	transcript, err := tr.Transcribe(context.Background(), audioFile, "tiny", nil)
	if err != nil {
		t.Fatalf("Transcribe() error: %v", err)
	}
	if transcript != "hello from whisper" {
		t.Errorf("Transcribe() = %q", transcript)
	}

	args := strings.Join(runner.lastArgs, " ")
	if !strings.Contains(args, "-m "+filepath.Join(modelDir, "ggml-tiny.bin")) {
		t.Errorf("whisper invocation missing model flag: %s", args)
	}
	if !strings.Contains(args, "-f "+audioFile) {
		t.Errorf("whisper invocation missing audio file: %s", args)
	}
	if !strings.Contains(args, "-otxt") {
		t.Errorf("whisper invocation missing text output flag: %s", args)
	}
}

func TestTranscribeMissingAudio(t *testing.T) {
	tr := NewTranscriber(&fakeCommandRunner{}, t.TempDir(), t.TempDir(), false)

	if _, err := tr.Transcribe(context.Background(), "/nonexistent/audio.mp3", "tiny", nil); err == nil {
		t.Error("Transcribe() expected error for missing audio file")
	}
}

func TestTranscribeEmptyOutput(t *testing.T) {
	modelDir := t.TempDir()
	audioDir := t.TempDir()

	if err := os.WriteFile(filepath.Join(modelDir, "ggml-tiny.bin"), []byte("weights"), 0644); err != nil {
		t.Fatal(err)
	}
	audioFile := filepath.Join(audioDir, "silent.mp3")
	if err := os.WriteFile(audioFile, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("AUDIONOTE_WHISPER_BIN", audioFile)

	runner := &fakeCommandRunner{transcript: "   \n"}
	tr := NewTranscriber(runner, modelDir, t.TempDir(), false)

	if _, err := tr.Transcribe(context.Background(), audioFile, "tiny", nil); err == nil {
		t.Error("Transcribe() expected error for empty transcription")
	}
}
