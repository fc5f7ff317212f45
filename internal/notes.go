package internal

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// chunkPromptTemplate frames each transcript chunk for the notes model
const chunkPromptTemplate = `{{.Instruction}}
{{if gt .Total 1}}
This is part {{.Part}} of {{.Total}} of the transcript.
{{end}}
Transcript:
{{.Chunk}}`

// NotesData for template injection
type NotesData struct {
	Instruction string
	Part        int
	Total       int
	Chunk       string
}

// ChunkText splits text into rune-accurate chunks of at most size characters.
// Empty input yields no chunks.
func ChunkText(text string, size int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

// BuildChunkPrompt renders the notes prompt for one transcript chunk
func BuildChunkPrompt(instruction, chunk string, part, total int) (string, error) {
	tmpl, err := template.New("chunk").Parse(chunkPromptTemplate)
	if err != nil {
		return "", fmt.Errorf("parsing chunk template: %w", err)
	}

	data := NotesData{
		Instruction: instruction,
		Part:        part,
		Total:       total,
		Chunk:       chunk,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing chunk template: %w", err)
	}

	return buf.String(), nil
}

// CombineNotes merges the per-chunk notes into one Markdown document. A
// single section is returned as-is; multiple sections get a document
// title and per-part headers.
func CombineNotes(sections []string) string {
	if len(sections) == 1 {
		return strings.TrimSpace(sections[0])
	}

	var sb strings.Builder
	sb.WriteString("# Notes")
	for i, section := range sections {
		sb.WriteString(fmt.Sprintf("\n\n## Part %d\n\n", i+1))
		sb.WriteString(strings.TrimSpace(section))
	}
	return sb.String()
}

// InstructionManager resolves the notes instruction from config
type InstructionManager struct {
	instructionFile   string
	instructionString string
	configDir         string
}

// NewInstructionManager creates a new instruction manager
func NewInstructionManager(configDir, instructionSetting string) *InstructionManager {
	im := &InstructionManager{
		configDir: configDir,
	}

	if instructionSetting != "" {
		if IsLikelyFilePath(instructionSetting) && FileExists(instructionSetting) {
			im.instructionFile = instructionSetting
		} else {
			im.instructionString = instructionSetting
		}
	}

	return im
}

// Instruction returns the effective notes instruction text
func (im *InstructionManager) Instruction() (string, error) {
	if im.instructionString != "" {
		return im.instructionString, nil
	}

	instructionFile := im.instructionFile
	if instructionFile == "" {
		instructionFile = filepath.Join(im.configDir, "instruction.txt")
	}

	content, err := os.ReadFile(instructionFile)
	if err != nil {
		return "", fmt.Errorf("reading instruction file: %w", err)
	}

	return strings.TrimSpace(string(content)), nil
}

// IsLikelyFilePath uses heuristics to determine if a string is likely a file path
func IsLikelyFilePath(s string) bool {
	if strings.Contains(s, "/") || strings.Contains(s, "\\") {
		return true
	}

	if strings.Contains(s, ".txt") || strings.Contains(s, ".md") ||
		strings.Contains(s, ".template") || strings.Contains(s, ".tmpl") {
		return true
	}

	// Long strings are almost certainly inline instructions
	if len(s) > 200 {
		return false
	}

	return !strings.Contains(s, " ") && !strings.Contains(s, "\n")
}
