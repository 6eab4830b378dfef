package rarity

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/dropa-gg/dropa/internal/domain"
)

// Resolver draws one rarity tier from a pack's probability table.
//
// Tiers are walked in domain.RarityOrder (COMUM first). Each tier with a
// positive percentage owns the interval (previous bound, own bound] of the
// cumulative distribution, the first positive tier also owning 0. A roll that
// lands exactly on a boundary therefore resolves to the lower-indexed tier.
// Zero-weight tiers own an empty interval and are never drawn.
type Resolver struct {
	rnd func() float64 // uniform in [0, 1)
}

// NewResolver creates a resolver backed by rnd.
func NewResolver(rnd func() float64) *Resolver {
	return &Resolver{rnd: rnd}
}

// tierBound is one positive-weight tier with its cumulative upper bound.
type tierBound struct {
	rarity domain.Rarity
	cumul  float64
}

// Resolve draws a rarity. The table is re-normalised against its own total, so
// a table summing to 99.99 does not bias the last tier.
func (r *Resolver) Resolve(table []domain.PackProbability) (domain.Rarity, error) {
	weights, err := aggregate(table)
	if err != nil {
		return "", err
	}

	bounds, total := cumulate(weights)
	if len(bounds) == 0 {
		return "", fmt.Errorf(ErrMsgAllZeroTableFmt, domain.ErrConfiguration)
	}
	if outOfTolerance(total) {
		slog.Default().Warn(LogMsgTableRenormalised, "total", total)
	}

	roll := r.rnd() * total
	return selectTier(bounds, roll), nil
}

// ValidateTable checks a table the way pack configuration must satisfy it:
// known rarities, non-negative finite percentages, sum within tolerance of 100.
func ValidateTable(table []domain.PackProbability) error {
	weights, err := aggregate(table)
	if err != nil {
		return err
	}
	bounds, total := cumulate(weights)
	if len(bounds) == 0 {
		return fmt.Errorf(ErrMsgAllZeroTableFmt, domain.ErrConfiguration)
	}
	if outOfTolerance(total) {
		return fmt.Errorf(ErrMsgSumOutOfToleranceFmt, domain.ErrConfiguration, total, ExpectedSum)
	}
	return nil
}

// outOfTolerance reports whether total is further than SumTolerance from 100,
// ignoring float accumulation noise.
func outOfTolerance(total float64) bool {
	return math.Abs(total-ExpectedSum) > SumTolerance+floatNoise
}

// aggregate folds the table into one weight per tier, merging duplicate rows.
func aggregate(table []domain.PackProbability) ([]float64, error) {
	if len(table) == 0 {
		return nil, fmt.Errorf(ErrMsgEmptyTableFmt, domain.ErrConfiguration)
	}

	weights := make([]float64, len(domain.RarityOrder))
	for _, row := range table {
		idx := row.Rarity.Index()
		if idx < 0 {
			return nil, fmt.Errorf(ErrMsgUnknownRarityFmt, domain.ErrConfiguration, row.Rarity)
		}
		if math.IsNaN(row.Percentage) || math.IsInf(row.Percentage, 0) {
			return nil, fmt.Errorf(ErrMsgInvalidWeightFmt, domain.ErrConfiguration, row.Rarity)
		}
		if row.Percentage < 0 {
			return nil, fmt.Errorf(ErrMsgNegativeWeightFmt, domain.ErrConfiguration, row.Percentage, row.Rarity)
		}
		weights[idx] += row.Percentage
	}
	return weights, nil
}

// cumulate builds the bounds of positive tiers in tier order. The returned
// total is the last bound, so a roll in [0, total) always lands in a tier.
func cumulate(weights []float64) ([]tierBound, float64) {
	bounds := make([]tierBound, 0, len(weights))
	total := 0.0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		total += w
		bounds = append(bounds, tierBound{rarity: domain.RarityOrder[i], cumul: total})
	}
	return bounds, total
}

// selectTier returns the first tier whose bound is >= roll.
func selectTier(bounds []tierBound, roll float64) domain.Rarity {
	lo, hi := 0, len(bounds)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if bounds[mid].cumul < roll {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return bounds[lo].rarity
}
