package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/audionote/audionote/internal"
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download [video URL]",
	Short: "Download audio from a video without transcribing",
	Example: `  # Download audio as MP3
  audionote download "https://www.youtube.com/watch?v=tAP1eZYEuKA"

  # Download part 3 of a multi-part video
  audionote download "https://www.bilibili.com/video/BV1xx411c7mD" --part 3

  # Download into a specific directory
  audionote download "https://youtu.be/tAP1eZYEuKA" --dir ~/Music`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.HandleDownloadFlags(cmd, config); err != nil {
			return err
		}

		app := internal.NewApp(config)
		part, _ := cmd.Flags().GetInt("part")

		result, err := app.DownloadAudioWithProgress(cmd.Context(), args[0], part, !config.Quiet)
		if err != nil {
			return err
		}

		if !config.Quiet {
			fmt.Printf("Downloaded %q\n", result.Title)
			for _, file := range result.Files {
				fmt.Println(file)
			}
		}
		return nil
	},
}

func init() {
	internal.AddDownloadFlags(downloadCmd)
	rootCmd.AddCommand(downloadCmd)
}
