package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/audionote/audionote/internal"
)

// notesCmd represents the notes command
var notesCmd = &cobra.Command{
	Use:   "notes [transcript file]",
	Short: "Generate Markdown notes from a transcript",
	Example: `  # Generate notes from a transcript file
  audionote notes transcript.txt

  # Read the transcript from stdin
  cat transcript.txt | audionote notes -

  # Use a custom instruction
  audionote notes transcript.txt --instruction "Extract all action items"

  # Save notes to a file
  audionote notes transcript.txt -o notes.md`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.ValidateChatRequirements(cmd, config); err != nil {
			return err
		}

		app := internal.NewApp(config)
		if err := internal.HandleInstructionFlag(cmd, app); err != nil {
			return err
		}

		transcript, err := readTranscriptArg(args[0])
		if err != nil {
			return err
		}

		notes, err := app.GenerateNotesWithProgress(cmd.Context(), transcript, !config.Quiet)
		if err != nil {
			return err
		}

		outputFile, _ := cmd.Flags().GetString("output")
		if outputFile != "" {
			return os.WriteFile(outputFile, []byte(notes), 0644)
		}

		rendered, err := internal.RenderMarkdown(notes)
		if err != nil {
			return err
		}
		fmt.Println(rendered)
		return nil
	},
}

// readTranscriptArg reads the transcript from a file, or stdin when the
// argument is "-"
func readTranscriptArg(arg string) (string, error) {
	var data []byte
	var err error

	if arg == "-" {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading transcript from stdin: %w", err)
		}
	} else {
		data, err = os.ReadFile(arg)
		if err != nil {
			return "", fmt.Errorf("reading transcript file: %w", err)
		}
	}

	transcript := strings.TrimSpace(string(data))
	if transcript == "" {
		return "", fmt.Errorf("transcript is empty")
	}
	return transcript, nil
}

func init() {
	internal.AddChatFlags(notesCmd)
	notesCmd.Flags().StringP("output", "o", "", "Output file path (default: rendered to stdout)")
	rootCmd.AddCommand(notesCmd)
}
