package subscription

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func statusFor(tier TierName) Status {
	return Status{Subscribed: tier != StarterTier, Tier: tier}
}

func exemptStatus(reason string) Status {
	return Status{Tier: StarterTier, IsExempt: true, ExemptReason: reason}
}

func TestCanCreateOffer_ExemptAlwaysAllowed(t *testing.T) {
	gate := NewGate(false)

	for _, count := range []int{0, 1, 50, 10000} {
		decision := gate.CanCreateOffer(count, exemptStatus(ExemptDemoAccount))
		assert.True(t, decision.Allowed, "exempt account blocked at count %d", count)
		assert.Empty(t, decision.Reason)
	}
}

func TestCanCreateOffer_GlobalBypassOverridesTier(t *testing.T) {
	gate := NewGate(true)

	decision := gate.CanCreateOffer(50, statusFor(StarterTier))
	assert.True(t, decision.Allowed)
}

func TestCanCreateOffer_UnderLimit(t *testing.T) {
	gate := NewGate(false)

	decision := gate.CanCreateOffer(0, statusFor(StarterTier))
	assert.True(t, decision.Allowed)

	decision = gate.CanCreateOffer(9, statusFor(GrowthTier))
	assert.True(t, decision.Allowed)
}

func TestCanCreateOffer_AtLimitSuggestsUpgrade(t *testing.T) {
	gate := NewGate(false)

	decision := gate.CanCreateOffer(10, statusFor(GrowthTier))
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonAtLimit, decision.Reason)
	assert.Equal(t, ProTier, decision.NextTier)

	decision = gate.CanCreateOffer(1, statusFor(StarterTier))
	assert.False(t, decision.Allowed)
	assert.Equal(t, BoostTier, decision.NextTier)

	decision = gate.CanCreateOffer(25, statusFor(ProTier))
	assert.False(t, decision.Allowed)
	assert.Equal(t, EliteTier, decision.NextTier)
}

func TestCanCreateOffer_EliteUnbounded(t *testing.T) {
	gate := NewGate(false)

	decision := gate.CanCreateOffer(500, statusFor(EliteTier))
	assert.True(t, decision.Allowed)
}

func TestCanCreateOffer_UnknownTierFailsClosed(t *testing.T) {
	gate := NewGate(false)

	decision := gate.CanCreateOffer(1, statusFor(TierName("PLATINUM")))
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonAtLimit, decision.Reason)
}
