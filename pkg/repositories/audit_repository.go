package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/agrilend/agrilend-engine/pkg/database"
	"github.com/agrilend/agrilend-engine/pkg/models"
)

// AuditRepository persists generic before/after audit rows. Append-only.
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditEntry) error
}

type auditRepository struct {
	db *database.DB
}

// NewAuditRepository creates a SQL Server backed AuditRepository.
func NewAuditRepository(db *database.DB) AuditRepository {
	return &auditRepository{db: db}
}

var _ AuditRepository = (*auditRepository)(nil)

func (r *auditRepository) Create(ctx context.Context, entry *models.AuditEntry) error {
	if entry.AuditID == uuid.Nil {
		entry.AuditID = uuid.New()
	}

	query := `
		INSERT INTO AuditLog (audit_id, user_id, action_type, target_table, target_id,
			old_values, new_values, ai_involved, confidence_score, reason)
		VALUES (@p1, @p2, @p3, @p4, @p5, @p6, @p7, @p8, @p9, @p10)`

	_, err := r.db.ExecContext(ctx, query,
		entry.AuditID.String(),
		nullIfEmpty(entry.UserID),
		entry.ActionType,
		nullIfEmpty(entry.TargetTable),
		nullIfEmpty(entry.TargetID),
		nullIfEmpty(entry.OldValues),
		nullIfEmpty(entry.NewValues),
		entry.AIInvolved,
		entry.ConfidenceScore,
		nullIfEmpty(entry.Reason),
	)
	if err != nil {
		return fmt.Errorf("failed to create audit entry: %w", err)
	}
	return nil
}
