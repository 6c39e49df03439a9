package models

import (
	"time"

	"github.com/google/uuid"
)

// MCPConversation is an audit row created once per MCP tool invocation
// that carries a user identity. Never updated or deleted by the application.
type MCPConversation struct {
	ConversationID uuid.UUID `json:"conversation_id"`
	UserID         string    `json:"user_id"`
	SessionID      string    `json:"session_id,omitempty"`
	ContextType    string    `json:"context_type,omitempty"`
	ContextID      string    `json:"context_id,omitempty"`
	ModelUsed      string    `json:"model_used,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// AIRecommendation is an append-only record of an AI-produced assessment,
// linked to the conversation that requested it.
type AIRecommendation struct {
	RecommendationID   uuid.UUID `json:"recommendation_id"`
	ConversationID     uuid.UUID `json:"conversation_id"`
	TargetType         string    `json:"target_type"`
	TargetID           string    `json:"target_id"`
	RecommendationType string    `json:"recommendation_type"`
	Recommendation     string    `json:"recommendation"`
	ConfidenceScore    float64   `json:"confidence_score"`
	Reasoning          string    `json:"reasoning,omitempty"` // JSON blob
	CreatedAt          time.Time `json:"created_at"`
}
