// Package audit records state-changing operations in the append-only audit log.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/google/uuid"

	"github.com/dropa-gg/dropa/internal/domain"
	"github.com/dropa-gg/dropa/internal/logger"
	"github.com/dropa-gg/dropa/internal/repository"
)

// Service defines audit operations. There is no update or delete path.
type Service interface {
	// Record appends an entry outside of any business transaction.
	Record(ctx context.Context, entry *domain.AuditEntry) error
	// RecordFailure appends a success=false entry after a rolled-back
	// operation. Errors are logged, never returned.
	RecordFailure(ctx context.Context, entry *domain.AuditEntry, cause error)
	List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error)
}

type service struct {
	repo repository.Audit
}

// NewService creates a new audit service
func NewService(repo repository.Audit) Service {
	return &service{repo: repo}
}

func (s *service) Record(ctx context.Context, entry *domain.AuditEntry) error {
	if err := s.repo.AppendAudit(ctx, entry); err != nil {
		return fmt.Errorf(ErrMsgAppendFailed, err)
	}
	return nil
}

func (s *service) RecordFailure(ctx context.Context, entry *domain.AuditEntry, cause error) {
	entry.Success = false
	if cause != nil {
		entry.Error = cause.Error()
	}
	// must outlive a cancelled request
	ctx = context.WithoutCancel(ctx)
	if err := s.repo.AppendAudit(ctx, entry); err != nil {
		logger.FromContext(ctx).Error(LogMsgFailureAuditFailed,
			"action", entry.Action, "cause", cause, "error", err)
	}
}

func (s *service) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultListLimit
	}
	filter.Limit = min(filter.Limit, MaxListLimit)
	if filter.Since != nil && filter.Until != nil && !filter.Since.Before(*filter.Until) {
		return nil, fmt.Errorf(ErrMsgInvalidWindow, domain.ErrInvalidInput)
	}

	entries, err := s.repo.ListAudit(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListFailed, err)
	}
	return entries, nil
}

// NewEntry builds a successful entry. before, after and metadata are
// marshalled with Snapshot; nil values are left empty.
func NewEntry(userID uuid.UUID, action domain.AuditAction, source domain.Source, before, after, metadata any) *domain.AuditEntry {
	entry := &domain.AuditEntry{
		Action:      action,
		Source:      source,
		Success:     true,
		BeforeState: Snapshot(before),
		AfterState:  Snapshot(after),
		Metadata:    Snapshot(metadata),
	}
	if userID != uuid.Nil {
		entry.UserID = &userID
	}
	return entry
}

// Snapshot marshals v for a JSONB column. Marshal failures are logged and
// produce an empty snapshot rather than failing the audited operation.
func Snapshot(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		slog.Default().Warn(LogMsgSnapshotFailed, "error", err)
		return nil
	}
	return data
}
