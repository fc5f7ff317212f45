package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/audionote/audionote/internal"
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the AI assistant, optionally about a transcript",
	Long: `Start an interactive chat session with the configured chat model.

When a transcript is provided with --transcript, it is preloaded into the
conversation so questions can be asked about its content. Type "exit" or
"quit" (or press Ctrl+D) to end the session.`,
	Example: `  # Chat about a transcript
  audionote chat --transcript transcript.txt

  # Plain chat session
  audionote chat

  # Use the reasoner model
  audionote chat --model deepseek-reasoner`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.ValidateChatRequirements(cmd, config); err != nil {
			return err
		}

		app := internal.NewApp(config)

		var history []internal.ChatMessage

		transcriptFile, _ := cmd.Flags().GetString("transcript")
		if transcriptFile != "" {
			data, err := os.ReadFile(transcriptFile)
			if err != nil {
				return fmt.Errorf("reading transcript file: %w", err)
			}
			history = append(history, internal.ChatMessage{
				Role:    internal.RoleSystem,
				Content: "You are a helpful assistant. Answer questions based on the following transcript:\n\n" + strings.TrimSpace(string(data)),
			})
			if !config.Quiet {
				fmt.Printf("Loaded transcript from %s\n", transcriptFile)
			}
		}

		if !config.Quiet {
			fmt.Println("Chat session started. Type 'exit' or 'quit' to end.")
		}

		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}

			message := strings.TrimSpace(scanner.Text())
			if message == "" {
				continue
			}
			if message == "exit" || message == "quit" {
				break
			}

			reply, err := app.Chat(cmd.Context(), history, message)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}

			rendered, err := internal.RenderMarkdown(reply)
			if err != nil {
				rendered = reply
			}
			fmt.Println(rendered)

			history = append(history,
				internal.ChatMessage{Role: internal.RoleUser, Content: message},
				internal.ChatMessage{Role: internal.RoleAssistant, Content: reply},
			)
		}

		return scanner.Err()
	},
}

func init() {
	internal.AddChatFlags(chatCmd)
	chatCmd.Flags().StringP("transcript", "t", "", "Transcript file to preload into the conversation")
	rootCmd.AddCommand(chatCmd)
}
