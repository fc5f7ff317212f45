package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/audionote/audionote/internal"
)

// transcribeCmd represents the transcribe command
var transcribeCmd = &cobra.Command{
	Use:   "transcribe [audio file or video URL]",
	Short: "Transcribe audio to text with a local Whisper model",
	Example: `  # Transcribe a local audio file
  audionote transcribe recording.mp3

  # Transcribe straight from a video URL
  audionote transcribe "https://www.youtube.com/watch?v=tAP1eZYEuKA"

  # Use a different model tier
  audionote transcribe recording.mp3 --model small

  # Save transcript to file
  audionote transcribe recording.mp3 -o transcript.txt`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		model, _ := cmd.Flags().GetString("model")
		if model == "" {
			model = config.WhisperModel
		}
		if err := internal.ValidateWhisperModel(model); err != nil {
			return err
		}
		if err := internal.HandleDownloadFlags(cmd, config); err != nil {
			return err
		}

		app := internal.NewApp(config)

		audioFile := args[0]
		if internal.IsSupportedURL(args[0]) {
			part, _ := cmd.Flags().GetInt("part")
			result, err := app.DownloadAudioWithProgress(cmd.Context(), args[0], part, !config.Quiet)
			if err != nil {
				return err
			}
			audioFile, err = internal.PickAudioFile(result.Files)
			if err != nil {
				return err
			}
		}

		transcript, err := app.TranscribeAudioWithProgress(cmd.Context(), audioFile, model, !config.Quiet)
		if err != nil {
			return err
		}

		outputFile, _ := cmd.Flags().GetString("output")
		if outputFile != "" {
			return os.WriteFile(outputFile, []byte(transcript), 0644)
		}

		fmt.Println(transcript)
		return nil
	},
}

func init() {
	internal.AddDownloadFlags(transcribeCmd)
	transcribeCmd.Flags().StringP("model", "m", "", "Whisper model tier (tiny, base, small)")
	transcribeCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	rootCmd.AddCommand(transcribeCmd)
}
