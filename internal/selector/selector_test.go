package selector

import (
	"context"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropa-gg/dropa/internal/domain"
)

// stubTx is a SelectionTx over a fixed catalog. loseClaims makes the first N
// claim or mint calls report a lost race.
type stubTx struct {
	items      map[domain.Rarity][]domain.Item
	owned      map[uuid.UUID]bool
	loseClaims int
	claims     []uuid.UUID
	mints      []uuid.UUID
	ownedCalls int
}

func (s *stubTx) ListItemsByRarity(ctx context.Context, rarity domain.Rarity) ([]domain.Item, error) {
	return s.items[rarity], nil
}

func (s *stubTx) ListOwnedItemIDs(ctx context.Context, userID uuid.UUID, itemIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	s.ownedCalls++
	out := make(map[uuid.UUID]bool)
	for _, id := range itemIDs {
		if s.owned[id] {
			out[id] = true
		}
	}
	return out, nil
}

func (s *stubTx) ClaimUniqueItem(ctx context.Context, itemID, userID uuid.UUID) (bool, error) {
	s.claims = append(s.claims, itemID)
	if s.loseClaims > 0 {
		s.loseClaims--
		return false, nil
	}
	return true, nil
}

func (s *stubTx) MintEdition(ctx context.Context, itemID uuid.UUID) (bool, error) {
	s.mints = append(s.mints, itemID)
	if s.loseClaims > 0 {
		s.loseClaims--
		return false, nil
	}
	return true, nil
}

func newItem(name string, rarity domain.Rarity, scarcity domain.ScarcityLevel) domain.Item {
	return domain.Item{
		ID:            uuid.New(),
		Name:          name,
		Rarity:        rarity,
		ScarcityLevel: scarcity,
		IsActive:      true,
	}
}

func limited(item domain.Item, max, current int) domain.Item {
	item.IsLimitedEdition = true
	item.MaxEditions = &max
	item.CurrentEditions = current
	return item
}

func newSelector(t *testing.T, fallback ...Stage) *Selector {
	t.Helper()
	cfg := DefaultConfig()
	if fallback != nil {
		cfg.Fallback = fallback
	}
	s, err := New(cfg)
	require.NoError(t, err)
	return s
}

func TestSelect_Strict(t *testing.T) {
	sword := newItem("sword", domain.RarityRaro, domain.ScarcityCommon)
	tx := &stubTx{items: map[domain.Rarity][]domain.Item{domain.RarityRaro: {sword}}}

	item, trace, err := newSelector(t).Select(context.Background(), tx, domain.RarityRaro, uuid.New())

	require.NoError(t, err)
	assert.Equal(t, sword.ID, item.ID)
	assert.Equal(t, string(StageStrict), trace.Stage)
	assert.Equal(t, domain.RarityRaro, trace.RolledRarity)
	assert.Zero(t, tx.ownedCalls, "no single-ownership items, no ownership lookup")
}

func TestSelect_ExcludesClaimedUniqueAndSoldOut(t *testing.T) {
	owner := uuid.New()
	claimed := newItem("crown", domain.RarityLendario, domain.ScarcityUnique)
	claimed.UniqueOwnerID = &owner
	soldOut := limited(newItem("banner", domain.RarityLendario, domain.ScarcityLegendary), 3, 3)
	open := limited(newItem("relic", domain.RarityLendario, domain.ScarcityLegendary), 3, 2)

	tx := &stubTx{items: map[domain.Rarity][]domain.Item{domain.RarityLendario: {claimed, soldOut, open}}}
	s := newSelector(t)

	for i := 0; i < 20; i++ {
		item, _, err := s.Select(context.Background(), tx, domain.RarityLendario, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, open.ID, item.ID)
	}
	assert.Len(t, tx.mints, 20)
	assert.Empty(t, tx.claims)
}

func TestSelect_SingleOwnershipExcludesOwned(t *testing.T) {
	owned := newItem("badge", domain.RarityComum, domain.ScarcityCommon)
	owned.SingleOwnership = true
	other := newItem("coin", domain.RarityComum, domain.ScarcityCommon)

	tx := &stubTx{
		items: map[domain.Rarity][]domain.Item{domain.RarityComum: {owned, other}},
		owned: map[uuid.UUID]bool{owned.ID: true},
	}
	s := newSelector(t)

	for i := 0; i < 20; i++ {
		item, _, err := s.Select(context.Background(), tx, domain.RarityComum, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, other.ID, item.ID)
	}
}

func TestSelect_DowngradeWalksTowardComum(t *testing.T) {
	owner := uuid.New()
	gone := newItem("crown", domain.RarityLendario, domain.ScarcityUnique)
	gone.UniqueOwnerID = &owner
	raro := newItem("shield", domain.RarityRaro, domain.ScarcityCommon)
	comum := newItem("stick", domain.RarityComum, domain.ScarcityCommon)

	tx := &stubTx{items: map[domain.Rarity][]domain.Item{
		domain.RarityLendario: {gone},
		domain.RarityRaro:     {raro},
		domain.RarityComum:    {comum},
	}}

	item, trace, err := newSelector(t).Select(context.Background(), tx, domain.RarityLendario, uuid.New())

	require.NoError(t, err)
	assert.Equal(t, raro.ID, item.ID, "nearest lower rarity wins")
	assert.Equal(t, string(StageDowngrade), trace.Stage)
	assert.Equal(t, domain.RarityLendario, trace.RolledRarity)
}

func TestSelect_AnySameRarityIgnoresSoftFiltersOnly(t *testing.T) {
	// Zero scarcity weight and per-user ownership empty the strict pool;
	// the last resort may still hand out these items.
	zeroWeight := newItem("dust", domain.RarityEpico, domain.ScarcityRare)
	owned := newItem("gem", domain.RarityEpico, domain.ScarcityCommon)
	owned.SingleOwnership = true

	tx := &stubTx{
		items: map[domain.Rarity][]domain.Item{domain.RarityEpico: {zeroWeight, owned}},
		owned: map[uuid.UUID]bool{owned.ID: true},
	}
	cfg := DefaultConfig()
	cfg.ScarcityWeights[domain.ScarcityRare] = 0
	cfg.Fallback = []Stage{StageAnySameRarity}
	s, err := New(cfg)
	require.NoError(t, err)

	item, trace, err := s.Select(context.Background(), tx, domain.RarityEpico, uuid.New())

	require.NoError(t, err)
	assert.Contains(t, []uuid.UUID{zeroWeight.ID, owned.ID}, item.ID)
	assert.Equal(t, string(StageAnySameRarity), trace.Stage)
}

func TestSelect_AnySameRarityNeverBreaksHardCaps(t *testing.T) {
	owner := uuid.New()
	claimed := newItem("crown", domain.RarityLendario, domain.ScarcityUnique)
	claimed.UniqueOwnerID = &owner
	soldOut := limited(newItem("banner", domain.RarityLendario, domain.ScarcityLegendary), 1, 1)

	tx := &stubTx{items: map[domain.Rarity][]domain.Item{domain.RarityLendario: {claimed, soldOut}}}

	_, _, err := newSelector(t, StageAnySameRarity).Select(context.Background(), tx, domain.RarityLendario, uuid.New())

	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestSelect_EmptyCatalogIsConfigurationError(t *testing.T) {
	tx := &stubTx{items: map[domain.Rarity][]domain.Item{}}

	_, _, err := newSelector(t).Select(context.Background(), tx, domain.RarityRaro, uuid.New())

	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestSelect_LostUniqueRaceRepicks(t *testing.T) {
	first := newItem("crown", domain.RarityLendario, domain.ScarcityUnique)
	second := newItem("scepter", domain.RarityLendario, domain.ScarcityUnique)
	tx := &stubTx{
		items:      map[domain.Rarity][]domain.Item{domain.RarityLendario: {first, second}},
		loseClaims: 1,
	}

	item, trace, err := newSelector(t).Select(context.Background(), tx, domain.RarityLendario, uuid.New())

	require.NoError(t, err)
	require.Len(t, tx.claims, 2)
	assert.NotEqual(t, tx.claims[0], tx.claims[1], "lost item is excluded from the re-pick")
	assert.Equal(t, tx.claims[1], item.ID)
	assert.Equal(t, 1, trace.ClaimConflicts)
}

func TestSelect_PoolDrainedByRacesIsConflict(t *testing.T) {
	only := limited(newItem("banner", domain.RarityEpico, domain.ScarcityLegendary), 5, 4)
	tx := &stubTx{
		items:      map[domain.Rarity][]domain.Item{domain.RarityEpico: {only}},
		loseClaims: 1,
	}

	_, trace, err := newSelector(t, StageAnySameRarity).Select(context.Background(), tx, domain.RarityEpico, uuid.New())

	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.NotErrorIs(t, err, domain.ErrConfiguration)
	assert.Equal(t, 1, trace.ClaimConflicts)
}

func TestSelect_ClaimAttemptsBounded(t *testing.T) {
	var items []domain.Item
	for i := 0; i < 10; i++ {
		items = append(items, newItem("unique", domain.RarityLendario, domain.ScarcityUnique))
	}
	tx := &stubTx{
		items:      map[domain.Rarity][]domain.Item{domain.RarityLendario: items},
		loseClaims: 100,
	}
	cfg := DefaultConfig()
	cfg.MaxClaimAttempts = 3
	s, err := New(cfg)
	require.NoError(t, err)

	_, _, err = s.Select(context.Background(), tx, domain.RarityLendario, uuid.New())

	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.Len(t, tx.claims, 3)
}

func TestSelect_ScarcityWeighting(t *testing.T) {
	common := newItem("stick", domain.RarityComum, domain.ScarcityCommon)
	rare := newItem("twig", domain.RarityComum, domain.ScarcityRare)
	tx := &stubTx{items: map[domain.Rarity][]domain.Item{domain.RarityComum: {common, rare}}}
	s := newSelector(t)

	counts := map[uuid.UUID]int{}
	const draws = 20000
	for i := 0; i < draws; i++ {
		item, _, err := s.Select(context.Background(), tx, domain.RarityComum, uuid.New())
		require.NoError(t, err)
		counts[item.ID]++
	}

	// COMMON 100 vs RARE 30
	assert.InDelta(t, draws*100/130, counts[common.ID], draws*0.03)
	assert.InDelta(t, draws*30/130, counts[rare.ID], draws*0.03)
}

func TestSelect_SeededSourceRepeats(t *testing.T) {
	pool := []domain.Item{
		newItem("a", domain.RarityIncomum, domain.ScarcityCommon),
		newItem("b", domain.RarityIncomum, domain.ScarcityUncommon),
		newItem("c", domain.RarityIncomum, domain.ScarcityRare),
	}
	run := func() []uuid.UUID {
		cfg := DefaultConfig()
		cfg.Source = rand.New(rand.NewSource(7))
		s, err := New(cfg)
		require.NoError(t, err)
		tx := &stubTx{items: map[domain.Rarity][]domain.Item{domain.RarityIncomum: pool}}

		var picked []uuid.UUID
		for i := 0; i < 50; i++ {
			item, _, err := s.Select(context.Background(), tx, domain.RarityIncomum, uuid.New())
			require.NoError(t, err)
			picked = append(picked, item.ID)
		}
		return picked
	}

	assert.Equal(t, run(), run())
}

func TestNew_RejectsUnknownStage(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Fallback = []Stage{"sideways"}

	_, err := New(cfg)

	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestParseStages(t *testing.T) {
	stages, err := ParseStages([]string{"strict", "downgrade", "any-same-rarity"})
	require.NoError(t, err)
	assert.Equal(t, []Stage{StageDowngrade, StageAnySameRarity}, stages)

	_, err = ParseStages([]string{"upgrade"})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}
