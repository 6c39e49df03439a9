package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/agrilend/agrilend-engine/pkg/auth"
	"github.com/agrilend/agrilend-engine/pkg/llm"
	"github.com/agrilend/agrilend-engine/pkg/models"
	"github.com/agrilend/agrilend-engine/pkg/services"
)

// ChatRequest for POST /api/openai/chat. Messages is validated as a JSON
// array before decoding so a missing or mistyped field is a clean 400.
type ChatRequest struct {
	Messages     json.RawMessage             `json:"messages"`
	Functions    []openai.FunctionDefinition `json:"functions,omitempty"`
	FunctionCall any                         `json:"function_call,omitempty"`
}

// OpenAIHandler handles the OpenAI chat bridge endpoint.
type OpenAIHandler struct {
	bridge       *llm.Bridge
	auditService services.AuditService
	logger       *zap.Logger
}

// NewOpenAIHandler creates a new OpenAI bridge handler.
func NewOpenAIHandler(bridge *llm.Bridge, auditService services.AuditService, logger *zap.Logger) *OpenAIHandler {
	return &OpenAIHandler{
		bridge:       bridge,
		auditService: auditService,
		logger:       logger,
	}
}

// RegisterRoutes registers the OpenAI handler's routes on the given mux.
func (h *OpenAIHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/openai/chat", authMiddleware.RequireAuth(h.Chat))
}

// Chat handles POST /api/openai/chat
func (h *OpenAIHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if werr := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"); werr != nil {
			h.logger.Error("Failed to write error response", zap.Error(werr))
		}
		return
	}

	var messages []openai.ChatCompletionMessage
	if len(req.Messages) == 0 || json.Unmarshal(req.Messages, &messages) != nil || len(messages) == 0 {
		if werr := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Messages array is required"); werr != nil {
			h.logger.Error("Failed to write error response", zap.Error(werr))
		}
		return
	}

	result, err := h.bridge.Chat(r.Context(), &llm.ChatRequest{
		Messages:     messages,
		Functions:    req.Functions,
		FunctionCall: req.FunctionCall,
	})
	if err != nil {
		h.logger.Error("Chat bridge failed", zap.Error(err))
		if werr := ErrorResponse(w, http.StatusBadGateway, "llm_unavailable", err.Error()); werr != nil {
			h.logger.Error("Failed to write error response", zap.Error(werr))
		}
		return
	}

	if result.FunctionCalled != "" && h.auditService != nil {
		h.auditService.RecordAction(r.Context(), &models.AuditEntry{
			UserID:     auth.GetUserIDFromContext(r.Context()),
			ActionType: "openai_function_call",
			TargetID:   result.FunctionCalled,
			NewValues:  result.FunctionResult,
			AIInvolved: true,
		})
	}

	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to encode chat result", zap.Error(err))
	}
}
