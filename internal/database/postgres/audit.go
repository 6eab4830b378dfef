package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropa-gg/dropa/internal/domain"
	"github.com/dropa-gg/dropa/internal/repository"
)

const (
	queryAppendAudit = `
		INSERT INTO audit_log (user_id, action, before_state, after_state, metadata, source, success, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	auditColumns = `id, user_id, action, before_state, after_state, metadata, source, success, error, created_at`
)

func appendAudit(ctx context.Context, q querier, e *domain.AuditEntry) error {
	return q.QueryRow(ctx, queryAppendAudit,
		e.UserID, string(e.Action), nullJSON(e.BeforeState), nullJSON(e.AfterState), nullJSON(e.Metadata),
		string(e.Source), e.Success, e.Error,
	).Scan(&e.ID, &e.CreatedAt)
}

// AuditRepository implements repository.Audit. There is no update or delete
// path; the table trigger rejects both.
type AuditRepository struct {
	db *pgxpool.Pool
}

// NewAuditRepository creates a new PostgreSQL audit repository
func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{db: db}
}

var _ repository.Audit = (*AuditRepository)(nil)

func (r *AuditRepository) AppendAudit(ctx context.Context, entry *domain.AuditEntry) error {
	return appendAudit(ctx, r.db, entry)
}

// ListAudit returns entries newest first
func (r *AuditRepository) ListAudit(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + auditColumns + ` FROM audit_log WHERE 1=1`)

	args := []any{}
	argNum := 1

	if filter.UserID != nil {
		fmt.Fprintf(&queryBuilder, " AND user_id = $%d", argNum)
		args = append(args, *filter.UserID)
		argNum++
	}
	if filter.Action != nil {
		fmt.Fprintf(&queryBuilder, " AND action = $%d", argNum)
		args = append(args, string(*filter.Action))
		argNum++
	}
	if filter.Source != nil {
		fmt.Fprintf(&queryBuilder, " AND source = $%d", argNum)
		args = append(args, string(*filter.Source))
		argNum++
	}
	if filter.Success != nil {
		fmt.Fprintf(&queryBuilder, " AND success = $%d", argNum)
		args = append(args, *filter.Success)
		argNum++
	}
	if filter.Since != nil {
		fmt.Fprintf(&queryBuilder, " AND created_at >= $%d", argNum)
		args = append(args, *filter.Since)
		argNum++
	}
	if filter.Until != nil {
		fmt.Fprintf(&queryBuilder, " AND created_at < $%d", argNum)
		args = append(args, *filter.Until)
		argNum++
	}

	fmt.Fprintf(&queryBuilder, " ORDER BY id DESC LIMIT $%d", argNum)
	args = append(args, clampLimit(filter.Limit))

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgQueryFailed, err)
	}
	defer rows.Close()

	var out []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		var action, source string
		var before, after, metadata []byte
		if err := rows.Scan(&e.ID, &e.UserID, &action, &before, &after, &metadata, &source, &e.Success, &e.Error, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf(ErrMsgScanRow, err)
		}
		e.Action = domain.AuditAction(action)
		e.Source = domain.Source(source)
		e.BeforeState, e.AfterState, e.Metadata = before, after, metadata
		out = append(out, e)
	}
	return out, rows.Err()
}
