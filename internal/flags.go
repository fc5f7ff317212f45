package internal

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AddDownloadFlags adds flags related to audio downloading
func AddDownloadFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("part", "p", 0, "Part number for multi-part videos (0 downloads all parts)")
	cmd.Flags().StringP("dir", "d", "", "Download directory (overrides config)")
}

// AddChatFlags adds flags related to the chat API
func AddChatFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("model", "m", "", "Chat model to use")
	cmd.Flags().StringP("instruction", "i", "", "Custom notes instruction (string or file path)")
}

// HandleDownloadFlags applies the download flags to the config
func HandleDownloadFlags(cmd *cobra.Command, config *Config) error {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return fmt.Errorf("failed to get dir flag: %w", err)
	}
	if dir != "" {
		config.DownloadDir = dir
	}
	return nil
}

// HandleInstructionFlag processes the --instruction flag to set a custom
// notes instruction
func HandleInstructionFlag(cmd *cobra.Command, app *App) error {
	instructionFlag := cmd.Flags().Lookup("instruction")
	if instructionFlag == nil || !instructionFlag.Changed {
		return nil
	}

	instruction, err := cmd.Flags().GetString("instruction")
	if err != nil {
		return fmt.Errorf("failed to get instruction flag: %w", err)
	}

	if instruction == "" {
		return nil
	}

	app.SetInstructionManager(NewInstructionManager(app.config.ConfigDir, instruction))

	if app.config.Verbose {
		if IsLikelyFilePath(instruction) && FileExists(instruction) {
			fmt.Printf("Using custom instruction file: %s\n", instruction)
		} else {
			fmt.Printf("Using custom instruction string\n")
		}
	}

	return nil
}

// HandleVerboseFlag processes the --verbose flag to update config
func HandleVerboseFlag(cmd *cobra.Command, config *Config) error {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	config.Verbose = verbose
	return nil
}

// ValidateChatRequirements validates the chat API key and model from
// command flags and config
func ValidateChatRequirements(cmd *cobra.Command, config *Config) error {
	if err := ValidateChatAPIKey(config.ChatAPIKey); err != nil {
		return err
	}

	modelFlag, _ := cmd.Flags().GetString("model")
	if modelFlag != "" {
		if err := ValidateChatModel(modelFlag); err != nil {
			return err
		}
		config.ChatModel = modelFlag
	} else if err := ValidateChatModel(config.ChatModel); err != nil {
		return fmt.Errorf("invalid model in config: %w", err)
	}

	return nil
}
