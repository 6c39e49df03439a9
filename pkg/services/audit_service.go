package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agrilend/agrilend-engine/pkg/models"
	"github.com/agrilend/agrilend-engine/pkg/repositories"
)

// AuditService records MCP conversations, AI recommendations, and generic
// audit entries. Recording failures are logged, never surfaced to the
// caller: an audit write must not fail a lending operation.
type AuditService interface {
	// RecordToolCall creates a conversation row for a tool invocation and
	// returns its ID. Returns uuid.Nil when recording was skipped or failed.
	RecordToolCall(ctx context.Context, userID, sessionID, toolName, targetID, modelUsed string) uuid.UUID

	// RecordRecommendation attaches an AI-produced assessment to a
	// previously recorded conversation.
	RecordRecommendation(ctx context.Context, conversationID uuid.UUID, rec *models.AIRecommendation)

	// RecordAction writes a generic audit entry.
	RecordAction(ctx context.Context, entry *models.AuditEntry)

	// Recommendations lists the recommendations recorded for a conversation.
	Recommendations(ctx context.Context, conversationID uuid.UUID) ([]*models.AIRecommendation, error)
}

type auditService struct {
	conversations repositories.ConversationRepository
	audits        repositories.AuditRepository
	logger        *zap.Logger
}

// NewAuditService creates an AuditService backed by the given repositories.
func NewAuditService(
	conversations repositories.ConversationRepository,
	audits repositories.AuditRepository,
	logger *zap.Logger,
) AuditService {
	return &auditService{
		conversations: conversations,
		audits:        audits,
		logger:        logger.Named("audit-service"),
	}
}

var _ AuditService = (*auditService)(nil)

func (s *auditService) RecordToolCall(ctx context.Context, userID, sessionID, toolName, targetID, modelUsed string) uuid.UUID {
	if userID == "" {
		// Anonymous invocations are not audited.
		return uuid.Nil
	}

	conv := &models.MCPConversation{
		UserID:      userID,
		SessionID:   sessionID,
		ContextType: toolName,
		ContextID:   targetID,
		ModelUsed:   modelUsed,
	}
	if err := s.conversations.CreateConversation(ctx, conv); err != nil {
		s.logger.Warn("failed to record tool call",
			zap.String("tool", toolName),
			zap.Error(err))
		return uuid.Nil
	}
	return conv.ConversationID
}

func (s *auditService) RecordRecommendation(ctx context.Context, conversationID uuid.UUID, rec *models.AIRecommendation) {
	if conversationID == uuid.Nil {
		return
	}
	rec.ConversationID = conversationID
	if err := s.conversations.CreateRecommendation(ctx, rec); err != nil {
		s.logger.Warn("failed to record recommendation",
			zap.String("conversation_id", conversationID.String()),
			zap.Error(err))
	}
}

func (s *auditService) RecordAction(ctx context.Context, entry *models.AuditEntry) {
	if err := s.audits.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to record audit entry",
			zap.String("action_type", entry.ActionType),
			zap.Error(err))
	}
}

func (s *auditService) Recommendations(ctx context.Context, conversationID uuid.UUID) ([]*models.AIRecommendation, error) {
	return s.conversations.ListRecommendations(ctx, conversationID)
}
