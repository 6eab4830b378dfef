package pack

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dropa-gg/dropa/internal/audit"
	"github.com/dropa-gg/dropa/internal/domain"
	"github.com/dropa-gg/dropa/internal/logger"
	"github.com/dropa-gg/dropa/internal/metrics"
	"github.com/dropa-gg/dropa/internal/repository"
)

// GenerateFreePack draws a tier and issues the user's single FREE_PACK grant.
func (s *service) GenerateFreePack(ctx context.Context, userID uuid.UUID) (*domain.PackGrant, error) {
	log := logger.FromContext(ctx)

	grant, err := s.generateFreePack(ctx, userID)
	if err != nil {
		log.Warn(LogMsgFreePackFailed, "user_id", userID, "error", err)
		metrics.RecordFailure(metrics.OperationFreePack, err)
		s.audit.RecordFailure(ctx, audit.NewEntry(userID, domain.ActionFreePackGenerated, domain.SourceFreePack, nil, nil, nil), err)
		return nil, err
	}

	log.Info(LogMsgFreePackGenerated, "user_id", userID, "grant_id", grant.ID, "pack_type", grant.PackType)
	return grant, nil
}

func (s *service) generateFreePack(ctx context.Context, userID uuid.UUID) (*domain.PackGrant, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTxFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	user, err := lockUser(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	grant := &domain.PackGrant{
		ID:       uuid.New(),
		UserID:   user.ID,
		PackType: s.drawTier(),
		Source:   domain.SourceFreePack,
	}
	if err := tx.CreatePackGrant(ctx, grant); err != nil {
		return nil, fmt.Errorf(ErrMsgCreateGrantFailed, err)
	}

	entry := audit.NewEntry(user.ID, domain.ActionFreePackGenerated, domain.SourceFreePack, nil, grant,
		map[string]any{MetaKeyGrantID: grant.ID, MetaKeyPackType: grant.PackType})
	if err := tx.AppendAudit(ctx, entry); err != nil {
		return nil, fmt.Errorf(ErrMsgAuditFailed, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitFailed, err)
	}
	return grant, nil
}
