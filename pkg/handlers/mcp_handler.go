package handlers

import (
	"context"
	"net/http"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/agrilend/agrilend-engine/pkg/auth"
	"github.com/agrilend/agrilend-engine/pkg/mcp"
)

// MCPHandler handles MCP protocol requests over HTTP.
type MCPHandler struct {
	httpServer *server.StreamableHTTPServer
	logger     *zap.Logger
	version    string
}

// NewMCPHandler creates a new MCP handler from an MCP server.
func NewMCPHandler(mcpServer *mcp.Server, version string, logger *zap.Logger) *MCPHandler {
	return &MCPHandler{
		httpServer: mcpServer.NewStreamableHTTPServer(),
		logger:     logger,
		version:    version,
	}
}

// RegisterRoutes registers the MCP endpoint and its health probe.
// The transport is stateful, so GET (SSE listener) and DELETE (session
// termination) must reach the SDK alongside POST.
func (h *MCPHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mcpHandler := h.requireMCPMethod(authMiddleware.RequireAuth(h.httpServer.ServeHTTP))
	mux.Handle("/mcp", mcpHandler)
	mux.HandleFunc("GET /mcp/health", h.health)
}

// Shutdown closes the underlying streamable HTTP server and its sessions.
func (h *MCPHandler) Shutdown(ctx context.Context) error {
	return h.httpServer.Shutdown(ctx)
}

func (h *MCPHandler) health(w http.ResponseWriter, r *http.Request) {
	if err := WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.version,
	}); err != nil {
		h.logger.Error("Failed to encode MCP health response", zap.Error(err))
	}
}

// requireMCPMethod rejects methods the streamable transport does not use.
func (h *MCPHandler) requireMCPMethod(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodGet, http.MethodDelete:
			next.ServeHTTP(w, r)
		default:
			w.Header().Set("Allow", "POST, GET, DELETE")
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}
