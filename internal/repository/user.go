package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/dropa-gg/dropa/internal/domain"
)

// User defines persistence for users and their read models
type User interface {
	BeginTx(ctx context.Context) (UserTx, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetStats(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error)
	ListUserItems(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.OwnedItem, error)
	ListPackOpenings(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.PackOpening, error)
}

// UserTx defines the transactional operations on users
type UserTx interface {
	Tx
	AuditTx
	// CreateUser inserts the user and an empty stats row.
	CreateUser(ctx context.Context, user *domain.User) error
	CreditCredits(ctx context.Context, userID uuid.UUID, amount int) (int, error)
	GetUserForUpdate(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}
