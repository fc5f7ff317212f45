package internal

import (
	"context"
	"embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/lrstanley/go-ytdlp"
	"github.com/spf13/viper"
)

// CommandRunner executes external commands
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// DefaultCommandRunner implements CommandRunner
type DefaultCommandRunner struct{}

func (r *DefaultCommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// Config holds application settings
type Config struct {
	// User configurable settings
	ChatModel    string
	ChatBaseURL  string
	ChatAPIKey   string
	WhisperModel string
	DownloadDir  string
	ChunkSize    int
	ChatTimeout  time.Duration
	Instruction  string
	Verbose      bool
	Quiet        bool

	// Fixed XDG paths (not configurable)
	ConfigDir   string
	DataDir     string
	CacheDir    string
	TempDir     string
	ModelDir    string
	HistoryFile string

	MCPLogEnabled bool
}

//go:embed config.toml instruction.txt
var defaultFS embed.FS

// DefaultChunkSize is the number of characters sent per chat request when
// processing long transcripts
const DefaultChunkSize = 5000

// HistoryLimit caps how many download tasks the history file retains
const HistoryLimit = 20

// ensureDefaultFile checks if a file exists in the specified directory
// and creates it from the embedded default if it doesn't exist
func ensureDefaultFile(configDir, embedFilename, description string) error {
	filePath := filepath.Join(configDir, embedFilename)

	// Check if file already exists
	if FileExists(filePath) {
		return nil
	}

	// Make sure the config directory exists
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Read the embedded default file
	defaultContent, err := defaultFS.ReadFile(embedFilename)
	if err != nil {
		return fmt.Errorf("reading embedded default %s: %w", description, err)
	}

	// Write the default file to the specified directory
	if err := os.WriteFile(filePath, defaultContent, 0644); err != nil {
		return fmt.Errorf("writing default %s: %w", description, err)
	}

	fmt.Printf("Created default %s at %s\n", description, filePath)
	return nil
}

// EnsureDefaultConfig checks if a config file exists in the XDG config directory
// and creates it from the embedded default if it doesn't exist
func EnsureDefaultConfig(configDir string) error {
	return ensureDefaultFile(configDir, "config.toml", "configuration")
}

// EnsureDefaultInstruction checks if an instruction.txt file exists in the XDG
// config directory and creates it from the embedded default if it doesn't exist
func EnsureDefaultInstruction(configDir string) error {
	return ensureDefaultFile(configDir, "instruction.txt", "notes instruction")
}

// InitConfig initializes Viper and loads configuration
func InitConfig() *Config {
	// Ensure yt-dlp is installed
	ytdlp.MustInstall(context.Background(), nil)

	// XDG standard directories
	configDir := filepath.Join(xdg.ConfigHome, "audionote")
	dataDir := filepath.Join(xdg.DataHome, "audionote")
	cacheDir := filepath.Join(xdg.CacheHome, "audionote")

	// directories for model weights and temp files
	modelDir := filepath.Join(cacheDir, "models")
	tempDir := filepath.Join(cacheDir, "temp")

	// Initialize viper
	v := viper.New()

	// Set default values for configurable settings
	v.SetDefault("chat_model", "deepseek-chat")
	v.SetDefault("chat_base_url", "https://api.deepseek.com/v1")
	v.SetDefault("whisper_model", "base")
	v.SetDefault("download_dir", filepath.Join(xdg.Home, "AudioNote"))
	v.SetDefault("chunk_size", DefaultChunkSize)
	v.SetDefault("chat_timeout", time.Minute)
	v.SetDefault("instruction", "") // if empty will use default instruction file
	v.SetDefault("model_dir", modelDir)
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
	v.SetDefault("mcp_log", false)

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// Environment variables
	v.SetEnvPrefix("AUDIONOTE")
	v.AutomaticEnv()

	// Special cases checked both via Viper and direct env vars
	_ = v.BindEnv("chat_api_key", "DEEPSEEK_API_KEY")
	_ = v.BindEnv("model_dir", "AUDIONOTE_MODEL_DIR")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: Error reading config file: %v\n", err)
		}
	}

	// Create config struct from viper
	config := &Config{
		// User configurable settings
		ChatModel:    v.GetString("chat_model"),
		ChatBaseURL:  v.GetString("chat_base_url"),
		ChatAPIKey:   v.GetString("chat_api_key"),
		WhisperModel: v.GetString("whisper_model"),
		DownloadDir:  v.GetString("download_dir"),
		ChunkSize:    v.GetInt("chunk_size"),
		ChatTimeout:  v.GetDuration("chat_timeout"),
		Instruction:  v.GetString("instruction"),
		Verbose:      v.GetBool("verbose"),
		Quiet:        v.GetBool("quiet"),

		// Fixed XDG paths
		ConfigDir:   configDir,
		DataDir:     dataDir,
		CacheDir:    cacheDir,
		TempDir:     tempDir,
		ModelDir:    v.GetString("model_dir"),
		HistoryFile: filepath.Join(dataDir, "history.json"),

		MCPLogEnabled: v.GetBool("mcp_log"),
	}

	if config.ChunkSize <= 0 {
		config.ChunkSize = DefaultChunkSize
	}

	if config.Verbose {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	return config
}
