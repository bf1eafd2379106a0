package subscription

import (
	"errors"
	"fmt"
	"time"

	"offeralert_backend/internal/model"

	"github.com/stripe/stripe-go/v74"
	stripesub "github.com/stripe/stripe-go/v74/subscription"
	"gorm.io/gorm"
)

// ErrStatusCheck is returned when the billing provider cannot be reached.
// Callers must keep showing their last-known state instead of defaulting
// the user to any particular tier.
var ErrStatusCheck = errors.New("status_check_error")

// BillingSubscription is the slice of provider state the resolver needs.
type BillingSubscription struct {
	PriceID           string
	CurrentPeriodEnd  time.Time
	CancelAtPeriodEnd bool
}

// BillingClient abstracts the billing provider lookup so tests can count
// calls and fake provider failures.
type BillingClient interface {
	ActiveSubscription(customerID string) (*BillingSubscription, error)
}

// StripeBilling queries Stripe for the customer's active subscription.
type StripeBilling struct{}

func (StripeBilling) ActiveSubscription(customerID string) (*BillingSubscription, error) {
	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String(string(stripe.SubscriptionStatusActive)),
	}
	params.Limit = stripe.Int64(1)

	iter := stripesub.List(params)
	for iter.Next() {
		s := iter.Subscription()
		result := &BillingSubscription{
			CurrentPeriodEnd:  time.Unix(s.CurrentPeriodEnd, 0),
			CancelAtPeriodEnd: s.CancelAtPeriodEnd,
		}
		if len(s.Items.Data) > 0 && s.Items.Data[0].Price != nil {
			result.PriceID = s.Items.Data[0].Price.ID
		}
		return result, nil
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return nil, nil
}

// Resolver determines the current subscription status for an influencer.
type Resolver struct {
	db      *gorm.DB
	billing BillingClient
	bypass  bool
}

func NewResolver(db *gorm.DB, billing BillingClient, bypass bool) *Resolver {
	return &Resolver{db: db, billing: billing, bypass: bypass}
}

// Resolve returns the influencer's tier, renewal date and exemption state.
//
// Demo accounts never hit the billing provider: they resolve to Starter with
// a demo_account exemption. The deployment-wide bypass grants exemption on
// its own; either condition is sufficient.
func (r *Resolver) Resolve(userID uint) (Status, error) {
	var user model.User
	if err := r.db.First(&user, userID).Error; err != nil {
		return Status{}, err
	}
	return r.ResolveUser(&user)
}

// ResolveUser is Resolve for an already-loaded user row.
func (r *Resolver) ResolveUser(user *model.User) (Status, error) {
	status := Status{Tier: StarterTier}
	if r.bypass {
		status.IsExempt = true
		status.ExemptReason = ExemptPromoBypass
	}

	if user.IsFakeAccount {
		status.IsExempt = true
		status.ExemptReason = ExemptDemoAccount
		return status, nil
	}

	if user.StripeCustomerID == "" {
		return status, nil
	}

	sub, err := r.billing.ActiveSubscription(user.StripeCustomerID)
	if err != nil {
		return Status{}, fmt.Errorf("%w: %v", ErrStatusCheck, err)
	}
	if sub == nil {
		return status, nil
	}

	status.Subscribed = true
	status.Tier = DetermineTier(sub.PriceID)
	status.RenewalDate = sub.CurrentPeriodEnd.Format(time.RFC3339)
	return status, nil
}
