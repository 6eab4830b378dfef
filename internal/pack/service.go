package pack

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mroth/weightedrand/v2"

	"github.com/dropa-gg/dropa/internal/audit"
	"github.com/dropa-gg/dropa/internal/domain"
	"github.com/dropa-gg/dropa/internal/logger"
	"github.com/dropa-gg/dropa/internal/metrics"
	"github.com/dropa-gg/dropa/internal/rarity"
	"github.com/dropa-gg/dropa/internal/repository"
	"github.com/dropa-gg/dropa/internal/reward"
)

// Service defines pack opening and pack grant operations
type Service interface {
	// OpenPack debits the pack price and grants one item, atomically.
	OpenPack(ctx context.Context, userID, packID uuid.UUID) (*domain.OpenResult, error)
	// GenerateFreePack issues the user's one FREE_PACK grant.
	GenerateFreePack(ctx context.Context, userID uuid.UUID) (*domain.PackGrant, error)
	// ClaimPackGrant opens a granted pack without a debit.
	ClaimPackGrant(ctx context.Context, userID, grantID uuid.UUID) (*domain.OpenResult, error)
	ListGrants(ctx context.Context, userID uuid.UUID) ([]domain.PackGrant, error)
}

// Config holds pack service settings
type Config struct {
	// FreePackTierWeights weighs the tier drawn for a free pack.
	FreePackTierWeights map[domain.PackType]int

	// Source drives the free pack tier draw. Nil uses the global generator.
	Source *rand.Rand
}

// DefaultConfig returns the default free pack tier weights
func DefaultConfig() Config {
	return Config{
		FreePackTierWeights: map[domain.PackType]int{
			domain.PackBronze:   60,
			domain.PackSilver:   25,
			domain.PackGold:     10,
			domain.PackPlatinum: 4,
			domain.PackDiamond:  1,
		},
	}
}

type service struct {
	repo    repository.Pack
	granter *reward.Granter
	audit   audit.Service
	tiers   *weightedrand.Chooser[domain.PackType, int]

	srcMu sync.Mutex
	src   *rand.Rand
}

// NewService creates a new pack service
func NewService(repo repository.Pack, granter *reward.Granter, auditSvc audit.Service, cfg Config) (Service, error) {
	tiers, err := newTierChooser(cfg.FreePackTierWeights)
	if err != nil {
		return nil, err
	}
	return &service{
		repo:    repo,
		granter: granter,
		audit:   auditSvc,
		tiers:   tiers,
		src:     cfg.Source,
	}, nil
}

func (s *service) drawTier() domain.PackType {
	if s.src == nil {
		return s.tiers.Pick()
	}
	s.srcMu.Lock()
	defer s.srcMu.Unlock()
	return s.tiers.PickSource(s.src)
}

func newTierChooser(weights map[domain.PackType]int) (*weightedrand.Chooser[domain.PackType, int], error) {
	choices := make([]weightedrand.Choice[domain.PackType, int], 0, len(weights))
	// PackTypes order keeps the chooser layout stable across runs
	for _, t := range domain.PackTypes {
		if w := weights[t]; w > 0 {
			choices = append(choices, weightedrand.NewChoice(t, w))
		}
	}
	for t := range weights {
		if !t.Valid() {
			return nil, fmt.Errorf(ErrMsgUnknownTierFmt, domain.ErrConfiguration, t)
		}
	}
	if len(choices) == 0 {
		return nil, fmt.Errorf(ErrMsgNoPositiveTierWeight, domain.ErrConfiguration)
	}
	chooser, err := weightedrand.NewChooser(choices...)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgTierChooserFailed, domain.ErrConfiguration, err)
	}
	return chooser, nil
}

// openRequest describes one run of the open pipeline.
type openRequest struct {
	userID uuid.UUID
	source domain.Source
	action domain.AuditAction
	debit  bool
	grant  *domain.PackGrant
}

// openState is what the failure audit can report about an aborted open.
type openState struct {
	Credits *int       `json:"credits,omitempty"`
	PackID  *uuid.UUID `json:"pack_id,omitempty"`
}

func (s *service) OpenPack(ctx context.Context, userID, packID uuid.UUID) (*domain.OpenResult, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgOpenPackStarted, "user_id", userID, "pack_id", packID)
	start := time.Now()

	req := openRequest{
		userID: userID,
		source: domain.SourceRegularPack,
		action: domain.ActionPackOpened,
		debit:  true,
	}

	var before openState
	result, err := s.inTx(ctx, func(tx repository.PackTx) (*domain.OpenResult, error) {
		user, err := lockUser(ctx, tx, userID)
		if err != nil {
			return nil, err
		}
		before.Credits = &user.Credits

		pack, err := tx.GetPack(ctx, packID)
		if err != nil {
			return nil, fmt.Errorf(ErrMsgGetPackFailed, err)
		}
		if pack == nil {
			return nil, fmt.Errorf(ErrMsgPackNotFoundFmt, domain.ErrPackNotFound, packID)
		}
		if !pack.IsActive {
			return nil, fmt.Errorf(ErrMsgPackInactiveFmt, domain.ErrPackInactive, packID)
		}
		return s.open(ctx, tx, req, user, pack)
	})
	metrics.TransactionDuration.WithLabelValues(metrics.OperationOpenPack).Observe(time.Since(start).Seconds())

	if err != nil {
		log.Warn(LogMsgOpenPackFailed, "user_id", userID, "pack_id", packID, "error", err)
		metrics.RecordFailure(metrics.OperationOpenPack, err)
		before.PackID = &packID
		s.audit.RecordFailure(ctx, audit.NewEntry(userID, req.action, req.source, before, nil,
			map[string]any{MetaKeyPackID: packID}), err)
		return nil, err
	}

	recordOpened(result)
	log.Info(LogMsgPackOpened, "user_id", userID, "pack_id", packID, "item_id", result.Item.ID, "rarity", result.Item.Rarity)
	return result, nil
}

func (s *service) ClaimPackGrant(ctx context.Context, userID, grantID uuid.UUID) (*domain.OpenResult, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgClaimGrantStarted, "user_id", userID, "grant_id", grantID)
	start := time.Now()

	req := openRequest{
		userID: userID,
		action: domain.ActionPackGrantClaimed,
	}

	var before openState
	result, err := s.inTx(ctx, func(tx repository.PackTx) (*domain.OpenResult, error) {
		user, err := lockUser(ctx, tx, userID)
		if err != nil {
			return nil, err
		}
		before.Credits = &user.Credits

		grant, err := tx.ClaimPackGrant(ctx, grantID, userID)
		if err != nil {
			return nil, fmt.Errorf(ErrMsgClaimGrantFailed, err)
		}
		req.grant = grant
		req.source = grant.Source

		pack, err := tx.GetActivePackByType(ctx, grant.PackType)
		if err != nil {
			return nil, fmt.Errorf(ErrMsgGetPackFailed, err)
		}
		if pack == nil {
			return nil, fmt.Errorf(ErrMsgNoActivePackFmt, domain.ErrConfiguration, grant.PackType)
		}
		return s.open(ctx, tx, req, user, pack)
	})
	metrics.TransactionDuration.WithLabelValues(metrics.OperationClaimGrant).Observe(time.Since(start).Seconds())

	if err != nil {
		log.Warn(LogMsgClaimGrantFailed, "user_id", userID, "grant_id", grantID, "error", err)
		metrics.RecordFailure(metrics.OperationClaimGrant, err)
		source := req.source
		if source == "" {
			source = domain.SourceFreePack
		}
		s.audit.RecordFailure(ctx, audit.NewEntry(userID, req.action, source, before, nil,
			map[string]any{MetaKeyGrantID: grantID}), err)
		return nil, err
	}

	recordOpened(result)
	log.Info(LogMsgGrantClaimed, "user_id", userID, "grant_id", grantID, "item_id", result.Item.ID)
	return result, nil
}

// inTx runs fn in a transaction and commits on success. On failure the
// transaction is rolled back before returning, so callers can write the
// failure audit entry through the pool.
func (s *service) inTx(ctx context.Context, fn func(tx repository.PackTx) (*domain.OpenResult, error)) (*domain.OpenResult, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTxFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	result, err := fn(tx)
	if err != nil {
		repository.SafeRollback(ctx, tx)
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitFailed, err)
	}
	return result, nil
}

func lockUser(ctx context.Context, tx repository.PackTx, userID uuid.UUID) (*domain.User, error) {
	user, err := tx.GetUserForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetUserFailed, err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// open is the shared pipeline: debit, draw, ledger rows, stats, audit.
func (s *service) open(ctx context.Context, tx repository.PackTx, req openRequest, user *domain.User, pack *domain.Pack) (*domain.OpenResult, error) {
	if err := rarity.ValidateTable(pack.Probabilities); err != nil {
		return nil, fmt.Errorf(ErrMsgInvalidTableFmt, pack.ID, err)
	}

	balance := user.Credits
	spent := 0
	if req.debit {
		var err error
		balance, err = tx.DebitCredits(ctx, user.ID, pack.Price)
		if err != nil {
			return nil, fmt.Errorf(ErrMsgDebitFailed, err)
		}
		spent = pack.Price
	}

	granted, err := s.granter.Draw(ctx, tx, pack.Probabilities, user.ID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgDrawFailed, err)
	}

	opening := &domain.PackOpening{
		ID:           uuid.New(),
		UserID:       user.ID,
		PackID:       pack.ID,
		ItemID:       granted.Item.ID,
		CreditsSpent: spent,
		Source:       req.source,
	}
	if req.grant != nil {
		opening.GrantID = &req.grant.ID
	}
	if err := tx.InsertPackOpening(ctx, opening); err != nil {
		return nil, fmt.Errorf(ErrMsgInsertOpeningFailed, err)
	}

	granted.UserItem.PackOpeningID = &opening.ID
	if err := s.granter.Deliver(ctx, tx, granted, req.source); err != nil {
		return nil, fmt.Errorf(ErrMsgDeliverFailed, err)
	}

	stats, delta, unlocked, err := s.granter.ApplyStats(ctx, tx, user.ID, reward.DeltaFor([]domain.GrantedItem{*granted}, 1), 0)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgApplyStatsFailed, err)
	}

	result := &domain.OpenResult{
		OpeningID:            opening.ID,
		PackID:               pack.ID,
		PackType:             pack.Type,
		Item:                 granted.Item,
		Rarity:               granted.Rarity,
		NewCreditBalance:     balance,
		CreditsSpent:         spent,
		StatsDelta:           delta,
		Stats:                *stats,
		UnlockedAchievements: unlocked,
		Source:               req.source,
		Trace:                granted.Trace,
	}

	meta := map[string]any{
		MetaKeyPackID:       pack.ID,
		MetaKeyPackType:     pack.Type,
		MetaKeyOpeningID:    opening.ID,
		MetaKeyItemID:       granted.Item.ID,
		MetaKeyRolledRarity: granted.Rarity,
		MetaKeyItemRarity:   granted.Item.Rarity,
		MetaKeyStage:        granted.Trace.Stage,
		MetaKeyConflicts:    granted.Trace.ClaimConflicts,
	}
	if req.grant != nil {
		meta[MetaKeyGrantID] = req.grant.ID
	}
	entry := audit.NewEntry(user.ID, req.action, req.source,
		map[string]int{"credits": user.Credits},
		map[string]any{"credits": balance, "stats": stats},
		meta)
	if err := tx.AppendAudit(ctx, entry); err != nil {
		return nil, fmt.Errorf(ErrMsgAuditFailed, err)
	}
	return result, nil
}

func recordOpened(result *domain.OpenResult) {
	metrics.PacksOpened.WithLabelValues(string(result.PackType), string(result.Item.Rarity), string(result.Source)).Inc()
	if result.CreditsSpent > 0 {
		metrics.CreditsSpent.Add(float64(result.CreditsSpent))
	}
}

func (s *service) ListGrants(ctx context.Context, userID uuid.UUID) ([]domain.PackGrant, error) {
	grants, err := s.repo.ListPackGrants(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListGrantsFailed, err)
	}
	return grants, nil
}
