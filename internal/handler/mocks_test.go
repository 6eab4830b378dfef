package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dropa-gg/dropa/internal/catalog"
	"github.com/dropa-gg/dropa/internal/domain"
	"github.com/dropa-gg/dropa/internal/user"
)

// MockPackService mocks the pack.Service interface
type MockPackService struct {
	mock.Mock
}

func (m *MockPackService) OpenPack(ctx context.Context, userID, packID uuid.UUID) (*domain.OpenResult, error) {
	args := m.Called(ctx, userID, packID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OpenResult), args.Error(1)
}

func (m *MockPackService) GenerateFreePack(ctx context.Context, userID uuid.UUID) (*domain.PackGrant, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PackGrant), args.Error(1)
}

func (m *MockPackService) ClaimPackGrant(ctx context.Context, userID, grantID uuid.UUID) (*domain.OpenResult, error) {
	args := m.Called(ctx, userID, grantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OpenResult), args.Error(1)
}

func (m *MockPackService) ListGrants(ctx context.Context, userID uuid.UUID) ([]domain.PackGrant, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PackGrant), args.Error(1)
}

// MockDailyService mocks the daily.Service interface
type MockDailyService struct {
	mock.Mock
}

func (m *MockDailyService) GetTodayStatus(ctx context.Context, userID uuid.UUID) (*domain.DailyStatus, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailyStatus), args.Error(1)
}

func (m *MockDailyService) Claim(ctx context.Context, userID uuid.UUID) (*domain.DailyClaimResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailyClaimResult), args.Error(1)
}

// MockCatalogService mocks the catalog.Service interface
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListPacks(ctx context.Context) ([]domain.Pack, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Pack), args.Error(1)
}

func (m *MockCatalogService) GetPack(ctx context.Context, packID uuid.UUID) (*domain.Pack, error) {
	args := m.Called(ctx, packID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pack), args.Error(1)
}

func (m *MockCatalogService) ListAchievements(ctx context.Context) ([]domain.Achievement, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Achievement), args.Error(1)
}

func (m *MockCatalogService) Invalidate(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockCatalogService) CacheStats() catalog.CacheStats {
	return m.Called().Get(0).(catalog.CacheStats)
}

// MockUserService mocks the user.Service interface
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, username string, role domain.Role) (*domain.User, error) {
	args := m.Called(ctx, username, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) Identify(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) AddCredits(ctx context.Context, actorID, userID uuid.UUID, amount int, reason string) (*domain.User, error) {
	args := m.Called(ctx, actorID, userID, amount, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetStats(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserStats), args.Error(1)
}

func (m *MockUserService) ListItems(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.OwnedItem, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OwnedItem), args.Error(1)
}

func (m *MockUserService) ListOpenings(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.PackOpening, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PackOpening), args.Error(1)
}

func (m *MockUserService) CacheStats() user.CacheStats {
	return m.Called().Get(0).(user.CacheStats)
}

// MockReconcileService mocks the reconcile.Service interface
type MockReconcileService struct {
	mock.Mock
}

func (m *MockReconcileService) CheckConsistency(ctx context.Context) ([]domain.Inconsistency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Inconsistency), args.Error(1)
}

func (m *MockReconcileService) Fix(ctx context.Context, userID uuid.UUID) (*domain.FixResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FixResult), args.Error(1)
}

func (m *MockReconcileService) FixAll(ctx context.Context) (*domain.FixAllResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FixAllResult), args.Error(1)
}

// MockAuditService mocks the audit.Service interface
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) Record(ctx context.Context, entry *domain.AuditEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockAuditService) RecordFailure(ctx context.Context, entry *domain.AuditEntry, cause error) {
	m.Called(ctx, entry, cause)
}

func (m *MockAuditService) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditEntry), args.Error(1)
}
