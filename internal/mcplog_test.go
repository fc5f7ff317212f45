package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMCPLoggerWritesToLogDir(t *testing.T) {
	dir := t.TempDir()
	initMCPLogger(true, dir)
	t.Cleanup(func() { initMCPLogger(false, "") })

	MCPLogInfo("tool %s invoked", "download_audio")
	MCPLogError("tool failed: %v", "boom")

	data, err := os.ReadFile(filepath.Join(dir, "mcp.log"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}

	content := string(data)
	if !strings.Contains(content, "[INFO] tool download_audio invoked") {
		t.Errorf("log missing info line: %q", content)
	}
	if !strings.Contains(content, "[ERROR] tool failed: boom") {
		t.Errorf("log missing error line: %q", content)
	}
}

func TestMCPLoggerDisabled(t *testing.T) {
	dir := t.TempDir()
	initMCPLogger(false, dir)

	MCPLogInfo("should not appear")

	if FileExists(filepath.Join(dir, "mcp.log")) {
		t.Error("disabled logger created a log file")
	}
}
