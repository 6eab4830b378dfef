package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/dropa-gg/dropa/internal/domain"
)

// Reconcile defines persistence for stats integrity checks
type Reconcile interface {
	BeginTx(ctx context.Context) (ReconcileTx, error)
	// CompareAllStats returns every cached stats row with counts recomputed
	// from the ledger tables in the same snapshot.
	CompareAllStats(ctx context.Context) ([]domain.StatsComparison, error)
}

// ReconcileTx defines the transactional operations of a stats fix
type ReconcileTx interface {
	Tx
	StatsTx
	AuditTx
	// GetUserForUpdate takes the same user lock the pack and daily paths take
	// first, so a fix never interleaves with an in-flight grant.
	GetUserForUpdate(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	// CountActual recomputes a user's counts from the ledger tables.
	CountActual(ctx context.Context, userID uuid.UUID) (*domain.ActualCounts, error)
}
