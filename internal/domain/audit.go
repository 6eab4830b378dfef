package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditEntry is an append-only record of a state-changing operation.
type AuditEntry struct {
	ID          int64           `json:"id"`
	UserID      *uuid.UUID      `json:"user_id,omitempty"`
	Action      AuditAction     `json:"action"`
	BeforeState json.RawMessage `json:"before_state,omitempty"`
	AfterState  json.RawMessage `json:"after_state,omitempty"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	Source      Source          `json:"source"`
	Success     bool            `json:"success"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// AuditFilter narrows audit log queries.
type AuditFilter struct {
	UserID  *uuid.UUID
	Action  *AuditAction
	Source  *Source
	Success *bool
	Since   *time.Time
	Until   *time.Time
	Limit   int
}
