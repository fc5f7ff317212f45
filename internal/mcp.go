package internal

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCPServer wraps the MCP server and application dependencies
type MCPServer struct {
	app       *App
	mcpServer *server.MCPServer
}

// NewMCPServer creates a new MCP server instance
func NewMCPServer(app *App) *MCPServer {
	mcpServer := server.NewMCPServer(
		"audionote-server",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s := &MCPServer{
		app:       app,
		mcpServer: mcpServer,
	}

	// Register tools
	s.registerTools()

	return s
}

// registerTools registers all available MCP tools
func (s *MCPServer) registerTools() {
	// get_video_info tool
	s.mcpServer.AddTool(mcp.NewTool("get_video_info",
		mcp.WithDescription("Fetch video title, uploader and duration without downloading. Works with YouTube and Bilibili video URLs."),
		mcp.WithString("url",
			mcp.Description("YouTube or Bilibili video URL"),
			mcp.Required(),
		),
	), s.handleGetVideoInfo)

	// download_audio tool
	s.mcpServer.AddTool(mcp.NewTool("download_audio",
		mcp.WithDescription("Download a video's audio track as MP3 into a session directory named after the video title. Returns the downloaded file paths. For multi-part Bilibili videos, pass a part number to download a single part."),
		mcp.WithString("url",
			mcp.Description("YouTube or Bilibili video URL"),
			mcp.Required(),
		),
		mcp.WithNumber("part",
			mcp.Description("Part number for multi-part videos (0 downloads all parts)"),
		),
	), s.handleDownloadAudio)

	// transcribe_audio tool
	s.mcpServer.AddTool(mcp.NewTool("transcribe_audio",
		mcp.WithDescription("Transcribe a local audio file to plain text using an offline Whisper model. Runs fully locally, no API costs. The model weights are downloaded on first use."),
		mcp.WithString("path",
			mcp.Description("Path to the audio file"),
			mcp.Required(),
		),
		mcp.WithString("model",
			mcp.Description("Whisper model tier: tiny, base or small (default from config)"),
		),
	), s.handleTranscribeAudio)

	// generate_notes tool
	s.mcpServer.AddTool(mcp.NewTool("generate_notes",
		mcp.WithDescription("Generate structured Markdown notes from a transcript using the configured chat model. Long transcripts are processed in chunks and combined. Requires DEEPSEEK_API_KEY to be set."),
		mcp.WithString("transcript",
			mcp.Description("Transcript text to summarize"),
			mcp.Required(),
		),
	), s.handleGenerateNotes)
}

// handleGetVideoInfo implements the get_video_info tool
func (s *MCPServer) handleGetVideoInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("url parameter is required and must be a string"), nil
	}

	MCPLogInfo("get_video_info: %s", url)

	cleanURL, err := s.app.ValidateURL(url)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("unsupported URL", err), nil
	}

	info, err := s.app.downloader.Info(ctx, cleanURL)
	if err != nil {
		MCPLogError("get_video_info failed: %v", err)
		return mcp.NewToolResultErrorFromErr("info error", err), nil
	}

	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("Title: %s\n", info.Title))
	buf.WriteString(fmt.Sprintf("Uploader: %s\n", info.Uploader))
	buf.WriteString(fmt.Sprintf("Duration: %.0f seconds\n", info.Duration))

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(buf.String())},
	}, nil
}

// handleDownloadAudio implements the download_audio tool
func (s *MCPServer) handleDownloadAudio(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("url parameter is required and must be a string"), nil
	}
	part := request.GetInt("part", 0)

	MCPLogInfo("download_audio: %s part=%d", url, part)

	result, err := s.app.DownloadAudio(ctx, url, part)
	if err != nil {
		MCPLogError("download_audio failed: %v", err)
		return mcp.NewToolResultErrorFromErr("failed to download audio", err), nil
	}

	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("Title: %s\n", result.Title))
	buf.WriteString(fmt.Sprintf("Session directory: %s\n", result.SessionDir))
	for _, file := range result.Files {
		buf.WriteString(fmt.Sprintf("File: %s\n", file))
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(buf.String())},
	}, nil
}

// handleTranscribeAudio implements the transcribe_audio tool
func (s *MCPServer) handleTranscribeAudio(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path parameter is required and must be a string"), nil
	}
	model := request.GetString("model", "")

	MCPLogInfo("transcribe_audio: %s model=%q", path, model)

	transcript, err := s.app.TranscribeAudio(ctx, path, model)
	if err != nil {
		MCPLogError("transcribe_audio failed: %v", err)
		return mcp.NewToolResultErrorFromErr("failed to transcribe audio", err), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(transcript)},
	}, nil
}

// handleGenerateNotes implements the generate_notes tool
func (s *MCPServer) handleGenerateNotes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	transcript, err := request.RequireString("transcript")
	if err != nil {
		return mcp.NewToolResultError("transcript parameter is required and must be a string"), nil
	}

	MCPLogInfo("generate_notes: %d characters", len(transcript))

	notes, err := s.app.GenerateNotes(ctx, transcript)
	if err != nil {
		MCPLogError("generate_notes failed: %v", err)
		return mcp.NewToolResultErrorFromErr("failed to generate notes", err), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(notes)},
	}, nil
}

// Start starts the MCP server using the specified transport
func (s *MCPServer) Start(ctx context.Context, transport string, port int) error {
	MCPLogInfo("starting MCP server transport=%s port=%d pid=%d", transport, port, os.Getpid())

	if transport == "http" {
		httpServer := server.NewStreamableHTTPServer(s.mcpServer)
		addr := fmt.Sprintf(":%d", port)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return httpServer.Start(addr)
	}

	// Default to stdio transport
	return server.ServeStdio(s.mcpServer)
}

// GetServer returns the underlying MCP server for advanced configuration
func (s *MCPServer) GetServer() *server.MCPServer {
	return s.mcpServer
}
