package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditEntry is a generic append-only before/after audit row for any
// mutation or AI-assisted assessment output.
type AuditEntry struct {
	AuditID         uuid.UUID `json:"audit_id"`
	UserID          string    `json:"user_id,omitempty"`
	ActionType      string    `json:"action_type"`
	TargetTable     string    `json:"target_table,omitempty"`
	TargetID        string    `json:"target_id,omitempty"`
	OldValues       string    `json:"old_values,omitempty"` // JSON blob
	NewValues       string    `json:"new_values,omitempty"` // JSON blob
	AIInvolved      bool      `json:"ai_involved"`
	ConfidenceScore float64   `json:"confidence_score,omitempty"`
	Reason          string    `json:"reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
