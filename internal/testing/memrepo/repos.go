package memrepo

import (
	"cmp"
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/dropa-gg/dropa/internal/domain"
	"github.com/dropa-gg/dropa/internal/repository"
)

var (
	_ repository.Pack      = (*PackRepo)(nil)
	_ repository.Daily     = (*DailyRepo)(nil)
	_ repository.Reconcile = (*ReconcileRepo)(nil)
	_ repository.User      = (*UserRepo)(nil)
	_ repository.Audit     = (*AuditRepo)(nil)
	_ repository.Catalog   = (*CatalogRepo)(nil)
)

// PackRepo implements repository.Pack.
type PackRepo struct{ s *Store }

func (r *PackRepo) BeginTx(ctx context.Context) (repository.PackTx, error) {
	return r.s.begin(), nil
}

func (r *PackRepo) ListPackGrants(ctx context.Context, userID uuid.UUID) ([]domain.PackGrant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.grantsOf(userID), nil
}

// DailyRepo implements repository.Daily.
type DailyRepo struct{ s *Store }

func (r *DailyRepo) BeginTx(ctx context.Context) (repository.DailyTx, error) {
	return r.s.begin(), nil
}

func (r *DailyRepo) ListDailyRewards(ctx context.Context) ([]domain.DailyReward, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return sortedDailyRewards(r.s.data), nil
}

func (r *DailyRepo) GetLastClaim(ctx context.Context, userID uuid.UUID) (*domain.DailyRewardClaim, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return lastClaim(r.s.data, userID), nil
}

// ReconcileRepo implements repository.Reconcile.
type ReconcileRepo struct{ s *Store }

func (r *ReconcileRepo) BeginTx(ctx context.Context) (repository.ReconcileTx, error) {
	return r.s.begin(), nil
}

func (r *ReconcileRepo) CompareAllStats(ctx context.Context) ([]domain.StatsComparison, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.injected("CompareAllStats"); err != nil {
		return nil, err
	}
	// users without a cached row compare as zeros
	out := make([]domain.StatsComparison, 0, len(r.s.data.users))
	for id := range r.s.data.users {
		st, ok := r.s.data.stats[id]
		if !ok {
			st = domain.UserStats{UserID: id}
		}
		out = append(out, domain.StatsComparison{Stored: st, Actual: countActual(r.s.data, id)})
	}
	slices.SortFunc(out, func(a, b domain.StatsComparison) int {
		return cmp.Compare(a.Stored.UserID.String(), b.Stored.UserID.String())
	})
	return out, nil
}

// UserRepo implements repository.User.
type UserRepo struct{ s *Store }

func (r *UserRepo) BeginTx(ctx context.Context) (repository.UserTx, error) {
	return r.s.begin(), nil
}

func (r *UserRepo) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.data.users[userID]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetStats(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.data.stats[userID]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (r *UserRepo) ListUserItems(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.OwnedItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.OwnedItem
	for _, ui := range r.s.data.userItems {
		if ui.UserID == userID {
			out = append(out, domain.OwnedItem{UserItem: ui, Item: r.s.data.items[ui.ItemID]})
		}
	}
	return page(out, limit, offset), nil
}

func (r *UserRepo) ListPackOpenings(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.PackOpening, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.PackOpening
	for _, o := range r.s.data.openings {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return page(out, limit, offset), nil
}

func page[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return nil
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

// AuditRepo implements repository.Audit.
type AuditRepo struct{ s *Store }

func (r *AuditRepo) AppendAudit(ctx context.Context, entry *domain.AuditEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	appendAudit(r.s.data, entry, r.s.now())
	return nil
}

func (r *AuditRepo) ListAudit(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.AuditEntry
	for i := len(r.s.data.audit) - 1; i >= 0; i-- {
		e := r.s.data.audit[i]
		if filter.UserID != nil && (e.UserID == nil || *e.UserID != *filter.UserID) {
			continue
		}
		if filter.Action != nil && e.Action != *filter.Action {
			continue
		}
		if filter.Source != nil && e.Source != *filter.Source {
			continue
		}
		if filter.Success != nil && e.Success != *filter.Success {
			continue
		}
		if filter.Since != nil && e.CreatedAt.Before(*filter.Since) {
			continue
		}
		if filter.Until != nil && !e.CreatedAt.Before(*filter.Until) {
			continue
		}
		out = append(out, e)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

// CatalogRepo implements repository.Catalog.
type CatalogRepo struct{ s *Store }

func (r *CatalogRepo) ListActivePacks(ctx context.Context) ([]domain.Pack, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Pack
	for _, p := range r.s.data.packs {
		if p.IsActive {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b domain.Pack) int { return cmp.Compare(a.Price, b.Price) })
	return out, nil
}

func (r *CatalogRepo) GetPackByID(ctx context.Context, packID uuid.UUID) (*domain.Pack, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.data.packs[packID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *CatalogRepo) ListAchievements(ctx context.Context) ([]domain.Achievement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return slices.Clone(r.s.data.achievements), nil
}
