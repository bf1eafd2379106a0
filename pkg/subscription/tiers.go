package subscription

type TierName string

const (
	StarterTier TierName = "STARTER"
	BoostTier   TierName = "BOOST"
	GrowthTier  TierName = "GROWTH"
	ProTier     TierName = "PRO"
	EliteTier   TierName = "ELITE"
)

// UnlimitedOffers marks a tier with no offer cap.
const UnlimitedOffers = -1

type TierLimits struct {
	MaxOffers    int // UnlimitedOffers means no cap
	DisplayPrice string
}

// TierOrder is the ascending tier ladder used for upgrade suggestions.
var TierOrder = []TierName{StarterTier, BoostTier, GrowthTier, ProTier, EliteTier}

var TierFeatures = map[TierName]TierLimits{
	StarterTier: {
		MaxOffers:    1,
		DisplayPrice: "Free",
	},
	BoostTier: {
		MaxOffers:    5,
		DisplayPrice: "$9.99/mo",
	},
	GrowthTier: {
		MaxOffers:    10,
		DisplayPrice: "$19.99/mo",
	},
	ProTier: {
		MaxOffers:    25,
		DisplayPrice: "$39.99/mo",
	},
	EliteTier: {
		MaxOffers:    UnlimitedOffers,
		DisplayPrice: "$99.99/mo",
	},
}

// GetTierLimits returns the limits for a tier. Unknown tiers fall back to
// Starter so a bad tier value can never grant extra offers.
func GetTierLimits(tier TierName) TierLimits {
	limits, ok := TierFeatures[tier]
	if !ok {
		return TierFeatures[StarterTier]
	}
	return limits
}

// Unlimited reports whether a max-offer value means no cap.
func Unlimited(maxOffers int) bool {
	return maxOffers < 0
}

// NextTierFor returns the lowest tier whose offer cap exceeds count, or ""
// when no tier above the cap exists (the caller is already on Elite).
func NextTierFor(count int) TierName {
	for _, tier := range TierOrder {
		limits := TierFeatures[tier]
		if Unlimited(limits.MaxOffers) || limits.MaxOffers > count {
			return tier
		}
	}
	return ""
}

// DetermineTier maps a Stripe price ID to its tier. Unknown prices map to
// Starter, same fail-closed rule as GetTierLimits.
func DetermineTier(stripePriceID string) TierName {
	switch stripePriceID {
	case "price_offeralert_boost_monthly":
		return BoostTier
	case "price_offeralert_growth_monthly":
		return GrowthTier
	case "price_offeralert_pro_monthly":
		return ProTier
	case "price_offeralert_elite_monthly":
		return EliteTier
	default:
		return StarterTier
	}
}
