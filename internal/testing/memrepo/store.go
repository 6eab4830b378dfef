// Package memrepo is an in-memory implementation of the repository interfaces
// for service tests. Transactions are serialized on one mutex and rollback
// restores the snapshot taken at BeginTx.
package memrepo

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dropa-gg/dropa/internal/domain"
)

type state struct {
	users            map[uuid.UUID]domain.User
	stats            map[uuid.UUID]domain.UserStats
	items            map[uuid.UUID]domain.Item
	packs            map[uuid.UUID]domain.Pack
	achievements     []domain.Achievement
	userAchievements map[uuid.UUID]map[uuid.UUID]time.Time
	userItems        []domain.UserItem
	uniqueClaims     map[uuid.UUID]uuid.UUID
	openings         []domain.PackOpening
	grants           map[uuid.UUID]domain.PackGrant
	dailyRewards     []domain.DailyReward
	claims           []domain.DailyRewardClaim
	audit            []domain.AuditEntry
}

func (s *state) clone() *state {
	ua := make(map[uuid.UUID]map[uuid.UUID]time.Time, len(s.userAchievements))
	for k, v := range s.userAchievements {
		ua[k] = maps.Clone(v)
	}
	return &state{
		users:            maps.Clone(s.users),
		stats:            maps.Clone(s.stats),
		items:            maps.Clone(s.items),
		packs:            maps.Clone(s.packs),
		achievements:     slices.Clone(s.achievements),
		userAchievements: ua,
		userItems:        slices.Clone(s.userItems),
		uniqueClaims:     maps.Clone(s.uniqueClaims),
		openings:         slices.Clone(s.openings),
		grants:           maps.Clone(s.grants),
		dailyRewards:     slices.Clone(s.dailyRewards),
		claims:           slices.Clone(s.claims),
		audit:            slices.Clone(s.audit),
	}
}

// Store holds all tables.
type Store struct {
	mu     sync.Mutex
	data   *state
	failOn map[string]error
	now    func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{
		data: &state{
			users:            make(map[uuid.UUID]domain.User),
			stats:            make(map[uuid.UUID]domain.UserStats),
			items:            make(map[uuid.UUID]domain.Item),
			packs:            make(map[uuid.UUID]domain.Pack),
			userAchievements: make(map[uuid.UUID]map[uuid.UUID]time.Time),
			uniqueClaims:     make(map[uuid.UUID]uuid.UUID),
			grants:           make(map[uuid.UUID]domain.PackGrant),
		},
		failOn: make(map[string]error),
		now:    time.Now,
	}
}

// FailOn makes the named transactional method return err until cleared with nil.
func (s *Store) FailOn(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failOn, method)
		return
	}
	s.failOn[method] = err
}

func (s *Store) injected(method string) error {
	return s.failOn[method]
}

// Seeding helpers. They must not be called while a transaction is open.

// AddUser inserts a user with an empty stats row.
func (s *Store) AddUser(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.Role == "" {
		u.Role = domain.RoleUser
	}
	s.data.users[u.ID] = u
	s.data.stats[u.ID] = domain.UserStats{UserID: u.ID}
}

// AddItem inserts a catalog item.
func (s *Store) AddItem(item domain.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.items[item.ID] = item
}

// AddPack inserts a pack with its probability table.
func (s *Store) AddPack(p domain.Pack) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.packs[p.ID] = p
}

// AddAchievement inserts an achievement definition.
func (s *Store) AddAchievement(a domain.Achievement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.achievements = append(s.data.achievements, a)
}

// AddDailyReward inserts one slot of the reward cycle.
func (s *Store) AddDailyReward(r domain.DailyReward) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.dailyRewards = append(s.data.dailyRewards, r)
}

// AddClaim inserts a historical daily claim.
func (s *Store) AddClaim(c domain.DailyRewardClaim) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.claims = append(s.data.claims, c)
}

// AddOpening inserts a pack opening row without touching stats.
func (s *Store) AddOpening(o domain.PackOpening) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.openings = append(s.data.openings, o)
}

// AddUserItem inserts an inventory row without touching stats.
func (s *Store) AddUserItem(ui domain.UserItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.userItems = append(s.data.userItems, ui)
}

// Unlock marks an achievement as unlocked for a user.
func (s *Store) Unlock(userID, achievementID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.userAchievements[userID] == nil {
		s.data.userAchievements[userID] = make(map[uuid.UUID]time.Time)
	}
	s.data.userAchievements[userID][achievementID] = s.now()
}

// SetStats overwrites the cached stats row, e.g. to simulate drift.
func (s *Store) SetStats(st domain.UserStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.stats[st.UserID] = st
}

// DropStats deletes the cached stats row, leaving the ledger intact.
func (s *Store) DropStats(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data.stats, userID)
}

// Inspection helpers.

// User returns the stored user.
func (s *Store) User(id uuid.UUID) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.users[id]
}

// Stats returns the cached stats row.
func (s *Store) Stats(id uuid.UUID) domain.UserStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.stats[id]
}

// Item returns the catalog item.
func (s *Store) Item(id uuid.UUID) domain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.items[id]
}

// UserItems returns the inventory rows of a user.
func (s *Store) UserItems(userID uuid.UUID) []domain.UserItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.UserItem
	for _, ui := range s.data.userItems {
		if ui.UserID == userID {
			out = append(out, ui)
		}
	}
	return out
}

// Openings returns the pack openings of a user.
func (s *Store) Openings(userID uuid.UUID) []domain.PackOpening {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.PackOpening
	for _, o := range s.data.openings {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out
}

// Claims returns the daily claims of a user.
func (s *Store) Claims(userID uuid.UUID) []domain.DailyRewardClaim {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.DailyRewardClaim
	for _, c := range s.data.claims {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out
}

// Grants returns the pack grants of a user.
func (s *Store) Grants(userID uuid.UUID) []domain.PackGrant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grantsOf(userID)
}

// AuditEntries returns every audit entry in insertion order.
func (s *Store) AuditEntries() []domain.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.data.audit)
}

// Repository views, one per feature interface.

// Packs returns the repository.Pack view.
func (s *Store) Packs() *PackRepo { return &PackRepo{s} }

// Daily returns the repository.Daily view.
func (s *Store) Daily() *DailyRepo { return &DailyRepo{s} }

// Reconcile returns the repository.Reconcile view.
func (s *Store) Reconcile() *ReconcileRepo { return &ReconcileRepo{s} }

// Users returns the repository.User view.
func (s *Store) Users() *UserRepo { return &UserRepo{s} }

// Audit returns the repository.Audit view.
func (s *Store) Audit() *AuditRepo { return &AuditRepo{s} }

// Catalog returns the repository.Catalog view.
func (s *Store) Catalog() *CatalogRepo { return &CatalogRepo{s} }

func (s *Store) begin() *Tx {
	s.mu.Lock()
	return &Tx{store: s, backup: s.data.clone()}
}
