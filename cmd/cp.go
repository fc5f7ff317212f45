package cmd

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

// cpCmd copies a transcript or notes file to the system clipboard.
var cpCmd = &cobra.Command{
	Use:   "cp [file]",
	Short: "Copy a transcript or notes file to the clipboard",
	Example: `  # Copy a saved transcript to the clipboard
  audionote cp ~/AudioNote/"Some Video"/transcript.txt

  # Copy generated notes
  audionote cp ~/AudioNote/"Some Video"/notes.md`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}

		if err := clipboard.WriteAll(string(data)); err != nil {
			return fmt.Errorf("copying to clipboard: %w", err)
		}

		if !config.Quiet {
			fmt.Printf("Copied %s to clipboard\n", args[0])
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(cpCmd)
}
