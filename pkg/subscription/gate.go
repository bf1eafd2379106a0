package subscription

// Exemption reasons carried on a Status so logs can tell a promotion-wide
// bypass apart from a seeded demo account.
const (
	ExemptPromoBypass = "promo_bypass"
	ExemptDemoAccount = "demo_account"
)

// Reason codes for a negative gate decision.
const ReasonAtLimit = "at_limit"

// Status is the resolved subscription state for one influencer.
type Status struct {
	Subscribed   bool     `json:"subscribed"`
	Tier         TierName `json:"tier"`
	RenewalDate  string   `json:"renewal_date,omitempty"`
	IsExempt     bool     `json:"is_exempt"`
	ExemptReason string   `json:"exempt_reason,omitempty"`
}

// Decision is the outcome of an offer-limit check. It is advisory for the
// UI; the authoritative check happens inside the create transaction.
type Decision struct {
	Allowed  bool     `json:"allowed"`
	Reason   string   `json:"reason,omitempty"`
	NextTier TierName `json:"next_tier,omitempty"`
}

// Gate decides whether an influencer may create another offer. The bypass
// flag is the deployment-wide promotional override, injected from config.
type Gate struct {
	bypass bool
}

func NewGate(bypass bool) *Gate {
	return &Gate{bypass: bypass}
}

// CanCreateOffer is a pure function of the current offer count and the
// resolved status. Exempt accounts are never limited.
func (g *Gate) CanCreateOffer(currentCount int, status Status) Decision {
	if g.bypass || status.IsExempt {
		return Decision{Allowed: true}
	}

	limits := GetTierLimits(status.Tier)
	if Unlimited(limits.MaxOffers) || currentCount < limits.MaxOffers {
		return Decision{Allowed: true}
	}

	decision := Decision{
		Allowed: false,
		Reason:  ReasonAtLimit,
	}
	if status.Tier != EliteTier {
		decision.NextTier = NextTierFor(currentCount)
	}
	return decision
}
