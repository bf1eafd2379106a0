package subscription

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierOrder_MaxOffersNonDecreasing(t *testing.T) {
	require.Equal(t, []TierName{StarterTier, BoostTier, GrowthTier, ProTier, EliteTier}, TierOrder)

	prev := 0
	for _, tier := range TierOrder {
		limits, ok := TierFeatures[tier]
		require.True(t, ok, "missing tier row for %s", tier)

		if tier == EliteTier {
			assert.True(t, Unlimited(limits.MaxOffers), "top tier must be unbounded")
			continue
		}
		assert.GreaterOrEqual(t, limits.MaxOffers, prev, "tier %s decreases the cap", tier)
		prev = limits.MaxOffers
	}
}

func TestGetTierLimits_FailsClosed(t *testing.T) {
	limits := GetTierLimits(TierName("PLATINUM"))
	assert.Equal(t, TierFeatures[StarterTier], limits)

	limits = GetTierLimits("")
	assert.Equal(t, 1, limits.MaxOffers)
}

func TestNextTierFor(t *testing.T) {
	tests := []struct {
		name  string
		count int
		want  TierName
	}{
		{"zero offers fits starter", 0, StarterTier},
		{"one offer needs boost", 1, BoostTier},
		{"five offers needs growth", 5, GrowthTier},
		{"ten offers needs pro", 10, ProTier},
		{"twenty five offers needs elite", 25, EliteTier},
		{"huge count still fits elite", 500, EliteTier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextTierFor(tt.count))
		})
	}
}

func TestDetermineTier(t *testing.T) {
	assert.Equal(t, BoostTier, DetermineTier("price_offeralert_boost_monthly"))
	assert.Equal(t, GrowthTier, DetermineTier("price_offeralert_growth_monthly"))
	assert.Equal(t, ProTier, DetermineTier("price_offeralert_pro_monthly"))
	assert.Equal(t, EliteTier, DetermineTier("price_offeralert_elite_monthly"))
	assert.Equal(t, StarterTier, DetermineTier("price_unknown"))
	assert.Equal(t, StarterTier, DetermineTier(""))
}
