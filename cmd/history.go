package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/audionote/audionote/internal"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent downloads",
	Example: `  # List recent downloads, newest first
  audionote history

  # Clear the history
  audionote history --clear`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := internal.NewHistoryStore(config.HistoryFile, internal.HistoryLimit)

		clearFlag, _ := cmd.Flags().GetBool("clear")
		if clearFlag {
			if err := store.Clear(); err != nil {
				return err
			}
			if !config.Quiet {
				fmt.Println("History cleared")
			}
			return nil
		}

		entries, err := store.Load()
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Println("No downloads yet")
			return nil
		}

		for _, entry := range entries {
			fmt.Printf("%s  [%s]  %s\n", entry.Timestamp.Format("2006-01-02 15:04"), entry.StatusLabel(), entry.Title)
			fmt.Printf("    %s\n", entry.URL)
			if entry.Path != "" {
				fmt.Printf("    %s\n", entry.Path)
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Bool("clear", false, "Clear the download history")
	rootCmd.AddCommand(historyCmd)
}
