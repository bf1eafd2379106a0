package livesync

import (
	"fmt"

	"offeralert_backend/internal/model"
)

type ChangeKind string

const (
	Insert ChangeKind = "insert"
	Update ChangeKind = "update"
	Delete ChangeKind = "delete"
)

// Event is one change to the promo-code store, fanned out to every scope
// the record belongs to.
type Event struct {
	Kind   ChangeKind      `json:"kind"`
	Record model.PromoCode `json:"record"`
}

// Scope keys. Each write is published to the global feed, the owning
// influencer's feed and the brand's feed; there is no cross-scope dedup.
const ScopeAll = "all"

func ScopeInfluencer(userID uint) string {
	return fmt.Sprintf("influencer:%d", userID)
}

func ScopeBrand(brandSlug string) string {
	return "brand:" + brandSlug
}

// Scopes lists every scope key this event matches.
func (e Event) Scopes() []string {
	return []string{
		ScopeAll,
		ScopeInfluencer(e.Record.UserID),
		ScopeBrand(e.Record.BrandSlug),
	}
}
