package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/dropa-gg/dropa/internal/domain"
)

// Pack defines persistence for pack opening and pack grants
type Pack interface {
	BeginTx(ctx context.Context) (PackTx, error)
	ListPackGrants(ctx context.Context, userID uuid.UUID) ([]domain.PackGrant, error)
}

// PackTx defines the transactional operations of a pack open
type PackTx interface {
	GrantTx
	// DebitCredits subtracts amount only if the balance covers it and returns
	// the new balance. domain.ErrInsufficientCredits otherwise.
	DebitCredits(ctx context.Context, userID uuid.UUID, amount int) (int, error)
	GetUserForUpdate(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetPack(ctx context.Context, packID uuid.UUID) (*domain.Pack, error)
	GetActivePackByType(ctx context.Context, packType domain.PackType) (*domain.Pack, error)
	InsertPackOpening(ctx context.Context, opening *domain.PackOpening) error
	// CreatePackGrant returns domain.ErrFreePackAlreadyGranted for a second
	// FREE_PACK grant of the same user.
	CreatePackGrant(ctx context.Context, grant *domain.PackGrant) error
	// ClaimPackGrant marks an unclaimed grant as claimed and returns it.
	ClaimPackGrant(ctx context.Context, grantID, userID uuid.UUID) (*domain.PackGrant, error)
}
