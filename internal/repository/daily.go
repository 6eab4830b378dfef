package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/dropa-gg/dropa/internal/domain"
)

// Daily defines persistence for the daily reward cycle
type Daily interface {
	BeginTx(ctx context.Context) (DailyTx, error)
	ListDailyRewards(ctx context.Context) ([]domain.DailyReward, error)
	GetLastClaim(ctx context.Context, userID uuid.UUID) (*domain.DailyRewardClaim, error)
}

// DailyTx defines the transactional operations of a daily claim
type DailyTx interface {
	GrantTx
	GetLastClaim(ctx context.Context, userID uuid.UUID) (*domain.DailyRewardClaim, error)
	// InsertClaim returns domain.ErrAlreadyClaimedToday on a (user, date) conflict.
	InsertClaim(ctx context.Context, claim *domain.DailyRewardClaim) error
	CreditCredits(ctx context.Context, userID uuid.UUID, amount int) (int, error)
	GetUserForUpdate(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetActivePackByType(ctx context.Context, packType domain.PackType) (*domain.Pack, error)
	CreatePackGrant(ctx context.Context, grant *domain.PackGrant) error
}
