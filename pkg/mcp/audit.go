package mcp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/agrilend/agrilend-engine/pkg/auth"
	"github.com/agrilend/agrilend-engine/pkg/models"
	"github.com/agrilend/agrilend-engine/pkg/services"
)

// resultPreviewLimit caps the recommendation text stored per tool call.
const resultPreviewLimit = 2000

// AuditRecorder captures MCP tool calls as conversation and recommendation
// rows via hooks registered at server construction. Calls without an
// authenticated user are skipped silently.
type AuditRecorder struct {
	audit  services.AuditService
	logger *zap.Logger

	// conversations maps in-flight tool calls to the conversation row
	// created for them in beforeCallTool. Keyed per session because
	// JSON-RPC request IDs are only unique within one session.
	conversations sync.Map
}

// conversationKey identifies an in-flight tool call. Concurrent sessions
// reuse the same JSON-RPC request IDs, so the session ID is part of the key.
type conversationKey struct {
	session string
	request string
}

// NewAuditRecorder creates an AuditRecorder backed by the given audit service.
func NewAuditRecorder(audit services.AuditService, logger *zap.Logger) *AuditRecorder {
	return &AuditRecorder{
		audit:  audit,
		logger: logger.Named("mcp-audit"),
	}
}

// Hooks returns mcp-go Hooks configured to capture tool call events.
func (a *AuditRecorder) Hooks() *server.Hooks {
	hooks := &server.Hooks{}
	hooks.AddBeforeCallTool(a.beforeCallTool)
	hooks.AddAfterCallTool(a.afterCallTool)
	hooks.AddOnError(a.onError)
	return hooks
}

func (a *AuditRecorder) beforeCallTool(ctx context.Context, id any, req *mcplib.CallToolRequest) {
	claims, ok := auth.GetClaims(ctx)
	if !ok || claims == nil {
		return
	}

	key := requestKey(ctx, id)

	convID := a.audit.RecordToolCall(ctx,
		claims.UserID(), key.session, req.Params.Name, targetIDFromRequest(req), "")
	if convID != uuid.Nil {
		a.conversations.Store(key, convID)
	}
}

func (a *AuditRecorder) afterCallTool(ctx context.Context, id any, req *mcplib.CallToolRequest, result *mcplib.CallToolResult) {
	convID, ok := a.loadAndDeleteConversation(requestKey(ctx, id))
	if !ok {
		return
	}

	rec := &models.AIRecommendation{
		TargetType:         targetTypeForTool(req.Params.Name),
		TargetID:           targetIDFromRequest(req),
		RecommendationType: req.Params.Name,
		Recommendation:     resultPreview(result),
		CreatedAt:          time.Now().UTC(),
	}
	a.audit.RecordRecommendation(ctx, convID, rec)
}

func (a *AuditRecorder) onError(ctx context.Context, id any, method mcplib.MCPMethod, _ any, err error) {
	if method != mcplib.MethodToolsCall {
		return
	}
	if convID, ok := a.loadAndDeleteConversation(requestKey(ctx, id)); ok {
		a.logger.Debug("tool call failed after audit start",
			zap.String("conversation_id", convID.String()),
			zap.Error(err))
	}
}

func (a *AuditRecorder) loadAndDeleteConversation(key conversationKey) (uuid.UUID, bool) {
	if v, ok := a.conversations.LoadAndDelete(key); ok {
		return v.(uuid.UUID), true
	}
	return uuid.Nil, false
}

func requestKey(ctx context.Context, id any) conversationKey {
	sessionID := ""
	if session := server.ClientSessionFromContext(ctx); session != nil {
		sessionID = session.SessionID()
	}
	return conversationKey{session: sessionID, request: fmt.Sprint(id)}
}

// targetIDFromRequest pulls the entity identifier the tool operates on, if
// the call names one.
func targetIDFromRequest(req *mcplib.CallToolRequest) string {
	for _, key := range []string{"loan_id", "borrower_id", "commodity"} {
		if v := req.GetString(key, ""); v != "" {
			return v
		}
	}
	return ""
}

func targetTypeForTool(toolName string) string {
	switch {
	case toolName == "analyze_market_price_impact":
		return "commodity"
	case len(toolName) >= 8 && toolName[:8] == "get_loan":
		return "loan"
	case toolName == "evaluate_collateral_sufficiency" || toolName == "get_restructuring_options":
		return "loan"
	case toolName == "get_high_risk_farmers":
		return "portfolio"
	default:
		return "borrower"
	}
}

// resultPreview extracts the first text content from a tool result,
// truncated for storage.
func resultPreview(result *mcplib.CallToolResult) string {
	if result == nil {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcplib.TextContent); ok {
			text := tc.Text
			if len(text) > resultPreviewLimit {
				text = text[:resultPreviewLimit] + "...[truncated]"
			}
			return text
		}
	}
	return ""
}
