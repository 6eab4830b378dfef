// Package user owns user records, credit top-ups and the per-user read models.
package user

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dropa-gg/dropa/internal/audit"
	"github.com/dropa-gg/dropa/internal/domain"
	"github.com/dropa-gg/dropa/internal/logger"
	"github.com/dropa-gg/dropa/internal/metrics"
	"github.com/dropa-gg/dropa/internal/repository"
)

// Service defines the user operations
type Service interface {
	Register(ctx context.Context, username string, role domain.Role) (*domain.User, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	// Identify resolves the caller for the identity middleware. The result
	// may be up to the cache TTL old and must not be used for balances.
	Identify(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	AddCredits(ctx context.Context, actorID, userID uuid.UUID, amount int, reason string) (*domain.User, error)
	GetStats(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error)
	ListItems(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.OwnedItem, error)
	ListOpenings(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.PackOpening, error)
	CacheStats() CacheStats
}

type service struct {
	repo  repository.User
	audit audit.Service
	cache *userCache
}

// NewService creates a new user service
func NewService(repo repository.User, auditSvc audit.Service, cacheCfg CacheConfig) Service {
	return &service{
		repo:  repo,
		audit: auditSvc,
		cache: newUserCache(cacheCfg),
	}
}

func (s *service) Register(ctx context.Context, username string, role domain.Role) (*domain.User, error) {
	log := logger.FromContext(ctx)
	username = strings.TrimSpace(username)
	log.Info(LogMsgRegisterUserCalled, "username", username)

	if n := utf8.RuneCountInString(username); n < MinUsernameLength || n > MaxUsernameLength {
		return nil, fmt.Errorf(ErrMsgUsernameLengthFmt, domain.ErrInvalidInput, MinUsernameLength, MaxUsernameLength)
	}
	if role == "" {
		role = domain.RoleUser
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTxFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	user := &domain.User{ID: uuid.New(), Username: username, Role: role}
	if err := tx.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf(ErrMsgCreateUserFailed, err)
	}
	entry := audit.NewEntry(user.ID, domain.ActionUserRegistered, domain.SourceAdmin, nil, user, nil)
	if err := tx.AppendAudit(ctx, entry); err != nil {
		return nil, fmt.Errorf(ErrMsgAuditFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitFailed, err)
	}

	s.cache.Set(user)
	log.Info(LogMsgUserRegistered, "user_id", user.ID, "username", user.Username)
	return user, nil
}

func (s *service) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetUserFailed, err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *service) Identify(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if user, ok := s.cache.Get(userID); ok {
		return user, nil
	}
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(user)
	return user, nil
}

func (s *service) AddCredits(ctx context.Context, actorID, userID uuid.UUID, amount int, reason string) (*domain.User, error) {
	log := logger.FromContext(ctx)
	meta := map[string]any{MetaKeyAmount: amount, MetaKeyReason: reason, MetaKeyActor: actorID}

	user, before, err := s.addCredits(ctx, userID, amount, meta)
	if err != nil {
		log.Warn(LogMsgAddCreditsFailed, "user_id", userID, "amount", amount, "error", err)
		metrics.RecordFailure(metrics.OperationAddCredits, err)
		s.audit.RecordFailure(ctx, audit.NewEntry(userID, domain.ActionCreditsAdded, domain.SourceAdmin, before, nil, meta), err)
		return nil, err
	}

	s.cache.Invalidate(userID)
	metrics.CreditsGranted.WithLabelValues(string(domain.SourceAdmin)).Add(float64(amount))
	log.Info(LogMsgCreditsAdded, "user_id", userID, "amount", amount, "balance", user.Credits)
	return user, nil
}

// balance is the audited state of a credit top-up.
type balance struct {
	Credits int `json:"credits"`
}

func (s *service) addCredits(ctx context.Context, userID uuid.UUID, amount int, meta map[string]any) (*domain.User, *balance, error) {
	if amount <= 0 {
		return nil, nil, fmt.Errorf(ErrMsgAmountNotPositive, domain.ErrInvalidInput)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf(ErrMsgBeginTxFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	user, err := tx.GetUserForUpdate(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf(ErrMsgGetUserFailed, err)
	}
	if user == nil {
		return nil, nil, domain.ErrUserNotFound
	}
	before := &balance{Credits: user.Credits}

	newBalance, err := tx.CreditCredits(ctx, userID, amount)
	if err != nil {
		return nil, before, fmt.Errorf(ErrMsgCreditFailed, err)
	}
	user.Credits = newBalance

	entry := audit.NewEntry(userID, domain.ActionCreditsAdded, domain.SourceAdmin, before, balance{Credits: newBalance}, meta)
	if err := tx.AppendAudit(ctx, entry); err != nil {
		return nil, before, fmt.Errorf(ErrMsgAuditFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, before, fmt.Errorf(ErrMsgCommitFailed, err)
	}
	return user, before, nil
}

func (s *service) GetStats(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error) {
	stats, err := s.repo.GetStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgGetStatsFailed, err)
	}
	if stats == nil {
		return nil, domain.ErrUserNotFound
	}
	return stats, nil
}

func (s *service) ListItems(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.OwnedItem, error) {
	limit, offset = clampPage(limit, offset)
	items, err := s.repo.ListUserItems(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListItemsFailed, err)
	}
	return items, nil
}

func (s *service) ListOpenings(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.PackOpening, error) {
	limit, offset = clampPage(limit, offset)
	openings, err := s.repo.ListPackOpenings(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListOpeningsFailed, err)
	}
	return openings, nil
}

func (s *service) CacheStats() CacheStats {
	return s.cache.GetStats()
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	limit = min(limit, MaxPageLimit)
	return limit, max(offset, 0)
}
