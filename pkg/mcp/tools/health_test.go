package tools

import (
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/server"
)

func TestRegisterHealthTool(t *testing.T) {
	mcpServer := server.NewMCPServer("test", "1.0.0", server.WithToolCapabilities(true))
	RegisterHealthTool(mcpServer, "test-version")

	if !listToolNames(t, mcpServer)["health"] {
		t.Error("health tool not found in tools/list response")
	}
}

func TestHealthTool_Execute(t *testing.T) {
	mcpServer := server.NewMCPServer("test", "1.0.0", server.WithToolCapabilities(true))
	RegisterHealthTool(mcpServer, "1.2.3")

	text, isError := callTool(t, mcpServer, "health", "")
	if isError {
		t.Fatalf("expected success, got error result: %s", text)
	}

	var health healthResult
	if err := json.Unmarshal([]byte(text), &health); err != nil {
		t.Fatalf("failed to unmarshal health result: %v", err)
	}
	if health.Status != "ok" {
		t.Errorf("expected status 'ok', got %q", health.Status)
	}
	if health.Version != "1.2.3" {
		t.Errorf("expected version '1.2.3', got %q", health.Version)
	}
}
