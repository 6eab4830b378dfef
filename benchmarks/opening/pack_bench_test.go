package opening_bench

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/google/uuid"

	"github.com/dropa-gg/dropa/internal/audit"
	"github.com/dropa-gg/dropa/internal/domain"
	"github.com/dropa-gg/dropa/internal/pack"
	"github.com/dropa-gg/dropa/internal/progression"
	"github.com/dropa-gg/dropa/internal/rarity"
	"github.com/dropa-gg/dropa/internal/reward"
	"github.com/dropa-gg/dropa/internal/selector"
	"github.com/dropa-gg/dropa/internal/testing/memrepo"
)

// goldTable is a realistic five-tier table whose weights do not sum to 100.
var goldTable = []domain.PackProbability{
	{Rarity: domain.RarityComum, Percentage: 40},
	{Rarity: domain.RarityIncomum, Percentage: 30},
	{Rarity: domain.RarityRaro, Percentage: 19.99},
	{Rarity: domain.RarityEpico, Percentage: 8},
	{Rarity: domain.RarityLendario, Percentage: 2},
}

// BenchmarkOpenPack measures one full opening against the in-memory store:
// debit, roll, pick, inventory grant, stats and audit.
func BenchmarkOpenPack(b *testing.B) {
	store := memrepo.New()

	user := domain.User{ID: uuid.New(), Username: "bench", Credits: 1 << 30}
	store.AddUser(user)

	for _, r := range domain.RarityOrder {
		for n := 0; n < 20; n++ {
			store.AddItem(domain.Item{
				ID:            uuid.New(),
				Name:          string(r),
				Rarity:        r,
				ScarcityLevel: domain.ScarcityCommon,
				Value:         10,
				IsActive:      true,
			})
		}
	}

	gold := domain.Pack{ID: uuid.New(), Name: "Gold", Type: domain.PackGold, Price: 1, IsActive: true, Probabilities: goldTable}
	store.AddPack(gold)

	sel, err := selector.New(selector.DefaultConfig())
	if err != nil {
		b.Fatal(err)
	}
	granter := reward.NewGranter(rarity.NewResolver(rand.Float64), sel, progression.NewEvaluator())
	svc, err := pack.NewService(store.Packs(), granter, audit.NewService(store.Audit()), pack.DefaultConfig())
	if err != nil {
		b.Fatal(err)
	}

	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := svc.OpenPack(ctx, user.ID, gold.ID); err != nil {
			b.Fatal(err)
		}
	}
}
