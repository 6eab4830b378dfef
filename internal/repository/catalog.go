package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/dropa-gg/dropa/internal/domain"
)

// Catalog defines read access to admin-managed reference data
type Catalog interface {
	ListActivePacks(ctx context.Context) ([]domain.Pack, error)
	GetPackByID(ctx context.Context, packID uuid.UUID) (*domain.Pack, error)
	ListAchievements(ctx context.Context) ([]domain.Achievement, error)
}
