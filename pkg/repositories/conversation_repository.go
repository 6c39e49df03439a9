package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/agrilend/agrilend-engine/pkg/database"
	"github.com/agrilend/agrilend-engine/pkg/models"
)

// ConversationRepository persists MCP conversation and AI recommendation
// audit rows. Both tables are append-only.
type ConversationRepository interface {
	CreateConversation(ctx context.Context, conv *models.MCPConversation) error
	CreateRecommendation(ctx context.Context, rec *models.AIRecommendation) error
	ListRecommendations(ctx context.Context, conversationID uuid.UUID) ([]*models.AIRecommendation, error)
}

type conversationRepository struct {
	db *database.DB
}

// NewConversationRepository creates a SQL Server backed ConversationRepository.
func NewConversationRepository(db *database.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

var _ ConversationRepository = (*conversationRepository)(nil)

func (r *conversationRepository) CreateConversation(ctx context.Context, conv *models.MCPConversation) error {
	if conv.ConversationID == uuid.Nil {
		conv.ConversationID = uuid.New()
	}

	query := `
		INSERT INTO MCPConversations (conversation_id, user_id, session_id, context_type, context_id, model_used)
		VALUES (@p1, @p2, @p3, @p4, @p5, @p6)`

	_, err := r.db.ExecContext(ctx, query,
		conv.ConversationID.String(),
		conv.UserID,
		nullIfEmpty(conv.SessionID),
		nullIfEmpty(conv.ContextType),
		nullIfEmpty(conv.ContextID),
		nullIfEmpty(conv.ModelUsed),
	)
	if err != nil {
		return fmt.Errorf("failed to create MCP conversation: %w", err)
	}
	return nil
}

func (r *conversationRepository) CreateRecommendation(ctx context.Context, rec *models.AIRecommendation) error {
	if rec.RecommendationID == uuid.Nil {
		rec.RecommendationID = uuid.New()
	}

	query := `
		INSERT INTO AIRecommendations (recommendation_id, conversation_id, target_type, target_id,
			recommendation_type, recommendation, confidence_score, reasoning)
		VALUES (@p1, @p2, @p3, @p4, @p5, @p6, @p7, @p8)`

	_, err := r.db.ExecContext(ctx, query,
		rec.RecommendationID.String(),
		rec.ConversationID.String(),
		nullIfEmpty(rec.TargetType),
		nullIfEmpty(rec.TargetID),
		nullIfEmpty(rec.RecommendationType),
		rec.Recommendation,
		rec.ConfidenceScore,
		nullIfEmpty(rec.Reasoning),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI recommendation: %w", err)
	}
	return nil
}

func (r *conversationRepository) ListRecommendations(ctx context.Context, conversationID uuid.UUID) ([]*models.AIRecommendation, error) {
	query := `
		SELECT recommendation_id, conversation_id, target_type, target_id,
		       recommendation_type, recommendation, confidence_score, reasoning, created_at
		FROM AIRecommendations
		WHERE conversation_id = @p1
		ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, conversationID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query AI recommendations: %w", err)
	}
	defer rows.Close()

	var recs []*models.AIRecommendation
	for rows.Next() {
		var rec models.AIRecommendation
		var recID, convID string
		var targetType, targetID, recType, reasoning sql.NullString
		var confidence sql.NullFloat64
		if err := rows.Scan(&recID, &convID, &targetType, &targetID,
			&recType, &rec.Recommendation, &confidence, &reasoning, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan AI recommendation row: %w", err)
		}
		rec.ConfidenceScore = confidence.Float64
		rec.RecommendationID, _ = uuid.Parse(recID)
		rec.ConversationID, _ = uuid.Parse(convID)
		rec.TargetType = targetType.String
		rec.TargetID = targetID.String
		rec.RecommendationType = recType.String
		rec.Reasoning = reasoning.String
		recs = append(recs, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("AI recommendation row iteration failed: %w", err)
	}
	return recs, nil
}
