package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// pathsCmd represents the paths command
var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show paths used by the application",
	Example: `  # Show all application paths
  audionote paths`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Config directory: %s\n", config.ConfigDir)
		fmt.Printf("Data directory: %s\n", config.DataDir)
		fmt.Printf("Cache directory: %s\n", config.CacheDir)
		fmt.Printf("Download directory: %s\n", config.DownloadDir)
		fmt.Printf("Model directory: %s\n", config.ModelDir)
		fmt.Printf("History file: %s\n", config.HistoryFile)
	},
}

func init() {
	rootCmd.AddCommand(pathsCmd)
}
