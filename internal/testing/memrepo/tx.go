package memrepo

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/dropa-gg/dropa/internal/domain"
)

var errTxClosed = errors.New(domain.ErrMsgTxClosed)

// Tx implements every feature transaction interface.
type Tx struct {
	store  *Store
	backup *state
	closed bool
}

func (t *Tx) data() *state { return t.store.data }

func (t *Tx) Commit(ctx context.Context) error {
	if t.closed {
		return errTxClosed
	}
	if err := t.store.injected("Commit"); err != nil {
		return err
	}
	t.closed = true
	t.store.mu.Unlock()
	return nil
}

func (t *Tx) Rollback(ctx context.Context) error {
	if t.closed {
		return errTxClosed
	}
	t.closed = true
	t.store.data = t.backup
	t.store.mu.Unlock()
	return nil
}

// Users and credits

func (t *Tx) GetUserForUpdate(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if err := t.store.injected("GetUserForUpdate"); err != nil {
		return nil, err
	}
	u, ok := t.data().users[userID]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (t *Tx) DebitCredits(ctx context.Context, userID uuid.UUID, amount int) (int, error) {
	if err := t.store.injected("DebitCredits"); err != nil {
		return 0, err
	}
	u, ok := t.data().users[userID]
	if !ok {
		return 0, domain.ErrUserNotFound
	}
	if u.Credits < amount {
		return 0, domain.ErrInsufficientCredits
	}
	u.Credits -= amount
	t.data().users[userID] = u
	return u.Credits, nil
}

func (t *Tx) CreditCredits(ctx context.Context, userID uuid.UUID, amount int) (int, error) {
	if err := t.store.injected("CreditCredits"); err != nil {
		return 0, err
	}
	u, ok := t.data().users[userID]
	if !ok {
		return 0, domain.ErrUserNotFound
	}
	u.Credits += amount
	t.data().users[userID] = u
	return u.Credits, nil
}

func (t *Tx) CreateUser(ctx context.Context, user *domain.User) error {
	if err := t.store.injected("CreateUser"); err != nil {
		return err
	}
	for _, u := range t.data().users {
		if u.Username == user.Username {
			return domain.ErrUserAlreadyExists
		}
	}
	user.CreatedAt = t.store.now()
	t.data().users[user.ID] = *user
	t.data().stats[user.ID] = domain.UserStats{UserID: user.ID, UpdatedAt: user.CreatedAt}
	return nil
}

// Catalog

func (t *Tx) GetPack(ctx context.Context, packID uuid.UUID) (*domain.Pack, error) {
	if err := t.store.injected("GetPack"); err != nil {
		return nil, err
	}
	p, ok := t.data().packs[packID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (t *Tx) GetActivePackByType(ctx context.Context, packType domain.PackType) (*domain.Pack, error) {
	return activePackByType(t.data(), packType), nil
}

func activePackByType(d *state, packType domain.PackType) *domain.Pack {
	var best *domain.Pack
	for _, p := range d.packs {
		if !p.IsActive || p.Type != packType {
			continue
		}
		if best == nil || p.Price < best.Price || (p.Price == best.Price && p.Name < best.Name) {
			best = &p
		}
	}
	return best
}

// Selection

func (t *Tx) ListItemsByRarity(ctx context.Context, rarity domain.Rarity) ([]domain.Item, error) {
	if err := t.store.injected("ListItemsByRarity"); err != nil {
		return nil, err
	}
	var out []domain.Item
	for _, item := range t.data().items {
		if item.IsActive && item.Rarity == rarity {
			out = append(out, item)
		}
	}
	slices.SortFunc(out, func(a, b domain.Item) int { return cmp.Compare(a.Name, b.Name) })
	return out, nil
}

func (t *Tx) ListOwnedItemIDs(ctx context.Context, userID uuid.UUID, itemIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	out := make(map[uuid.UUID]bool)
	for _, ui := range t.data().userItems {
		if ui.UserID == userID && slices.Contains(itemIDs, ui.ItemID) {
			out[ui.ItemID] = true
		}
	}
	return out, nil
}

func (t *Tx) ClaimUniqueItem(ctx context.Context, itemID, userID uuid.UUID) (bool, error) {
	if err := t.store.injected("ClaimUniqueItem"); err != nil {
		return false, err
	}
	item, ok := t.data().items[itemID]
	if !ok || item.UniqueOwnerID != nil || item.IsSoldOut() {
		return false, nil
	}
	owner := userID
	item.UniqueOwnerID = &owner
	item.CurrentEditions++
	t.data().items[itemID] = item
	return true, nil
}

func (t *Tx) MintEdition(ctx context.Context, itemID uuid.UUID) (bool, error) {
	if err := t.store.injected("MintEdition"); err != nil {
		return false, err
	}
	item, ok := t.data().items[itemID]
	if !ok || !item.IsLimitedEdition || item.IsSoldOut() {
		return false, nil
	}
	item.CurrentEditions++
	t.data().items[itemID] = item
	return true, nil
}

func (t *Tx) InsertUserItem(ctx context.Context, item *domain.UserItem, unique bool) error {
	if err := t.store.injected("InsertUserItem"); err != nil {
		return err
	}
	if unique {
		if _, taken := t.data().uniqueClaims[item.ItemID]; taken {
			return domain.ErrConcurrencyConflict
		}
		t.data().uniqueClaims[item.ItemID] = item.UserID
	}
	if item.ObtainedAt.IsZero() {
		item.ObtainedAt = t.store.now()
	}
	t.data().userItems = append(t.data().userItems, *item)
	return nil
}

func (t *Tx) InsertPackOpening(ctx context.Context, opening *domain.PackOpening) error {
	if err := t.store.injected("InsertPackOpening"); err != nil {
		return err
	}
	if opening.OpenedAt.IsZero() {
		opening.OpenedAt = t.store.now()
	}
	t.data().openings = append(t.data().openings, *opening)
	return nil
}

// Grants

func (t *Tx) CreatePackGrant(ctx context.Context, grant *domain.PackGrant) error {
	if err := t.store.injected("CreatePackGrant"); err != nil {
		return err
	}
	return createGrant(t.data(), grant, t.store.now())
}

func (t *Tx) ClaimPackGrant(ctx context.Context, grantID, userID uuid.UUID) (*domain.PackGrant, error) {
	if err := t.store.injected("ClaimPackGrant"); err != nil {
		return nil, err
	}
	g, ok := t.data().grants[grantID]
	if !ok || g.UserID != userID {
		return nil, domain.ErrGrantNotFound
	}
	if g.IsClaimed() {
		return nil, domain.ErrGrantAlreadyClaimed
	}
	now := t.store.now()
	g.ClaimedAt = &now
	t.data().grants[grantID] = g
	return &g, nil
}

// Progression and stats

func (t *Tx) ListAchievements(ctx context.Context) ([]domain.Achievement, error) {
	return slices.Clone(t.data().achievements), nil
}

func (t *Tx) UnlockAchievement(ctx context.Context, userID, achievementID uuid.UUID) (bool, error) {
	if err := t.store.injected("UnlockAchievement"); err != nil {
		return false, err
	}
	unlocked := t.data().userAchievements[userID]
	if unlocked == nil {
		unlocked = make(map[uuid.UUID]time.Time)
		t.data().userAchievements[userID] = unlocked
	}
	if _, ok := unlocked[achievementID]; ok {
		return false, nil
	}
	unlocked[achievementID] = t.store.now()
	return true, nil
}

func (t *Tx) GetStatsForUpdate(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error) {
	if err := t.store.injected("GetStatsForUpdate"); err != nil {
		return nil, err
	}
	st, ok := t.data().stats[userID]
	if !ok {
		st = domain.UserStats{UserID: userID}
		t.data().stats[userID] = st
	}
	return &st, nil
}

func (t *Tx) UpdateStats(ctx context.Context, stats *domain.UserStats) error {
	if err := t.store.injected("UpdateStats"); err != nil {
		return err
	}
	stats.UpdatedAt = t.store.now()
	t.data().stats[stats.UserID] = *stats
	return nil
}

func (t *Tx) CountActual(ctx context.Context, userID uuid.UUID) (*domain.ActualCounts, error) {
	counts := countActual(t.data(), userID)
	return &counts, nil
}

// Daily

func (t *Tx) GetLastClaim(ctx context.Context, userID uuid.UUID) (*domain.DailyRewardClaim, error) {
	return lastClaim(t.data(), userID), nil
}

func (t *Tx) InsertClaim(ctx context.Context, claim *domain.DailyRewardClaim) error {
	if err := t.store.injected("InsertClaim"); err != nil {
		return err
	}
	for _, c := range t.data().claims {
		if c.UserID == claim.UserID && c.ClaimDate.Equal(claim.ClaimDate) {
			return domain.ErrAlreadyClaimedToday
		}
	}
	claim.ClaimedAt = t.store.now()
	t.data().claims = append(t.data().claims, *claim)
	return nil
}

// Audit

func (t *Tx) AppendAudit(ctx context.Context, entry *domain.AuditEntry) error {
	if err := t.store.injected("AppendAudit"); err != nil {
		return err
	}
	appendAudit(t.data(), entry, t.store.now())
	return nil
}
