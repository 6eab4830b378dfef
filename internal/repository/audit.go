package repository

import (
	"context"

	"github.com/dropa-gg/dropa/internal/domain"
)

// Audit defines the append-only audit sink
type Audit interface {
	AppendAudit(ctx context.Context, entry *domain.AuditEntry) error
	ListAudit(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error)
}
