package subscription

import (
	"errors"
	"testing"
	"time"

	"offeralert_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingBilling records how often the provider was queried.
type countingBilling struct {
	calls int
	sub   *BillingSubscription
	err   error
}

func (c *countingBilling) ActiveSubscription(customerID string) (*BillingSubscription, error) {
	c.calls++
	return c.sub, c.err
}

func testUser(customerID string, fake bool) *model.User {
	return &model.User{
		Email:            "creator@example.com",
		Username:         "creator",
		DisplayName:      "Creator",
		IsFakeAccount:    fake,
		StripeCustomerID: customerID,
	}
}

func TestResolve_FakeAccountSkipsBilling(t *testing.T) {
	billing := &countingBilling{}
	resolver := NewResolver(nil, billing, false)

	status, err := resolver.ResolveUser(testUser("cus_123", true))
	require.NoError(t, err)

	assert.True(t, status.IsExempt)
	assert.Equal(t, ExemptDemoAccount, status.ExemptReason)
	assert.Equal(t, StarterTier, status.Tier)
	assert.False(t, status.Subscribed)
	assert.Equal(t, 0, billing.calls, "demo accounts must not contact the billing provider")
}

func TestResolve_NoCustomerDefaultsToStarter(t *testing.T) {
	billing := &countingBilling{}
	resolver := NewResolver(nil, billing, false)

	status, err := resolver.ResolveUser(testUser("", false))
	require.NoError(t, err)

	assert.Equal(t, StarterTier, status.Tier)
	assert.False(t, status.Subscribed)
	assert.False(t, status.IsExempt)
	assert.Equal(t, 0, billing.calls)
}

func TestResolve_ActiveSubscriptionMapsTier(t *testing.T) {
	periodEnd := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	billing := &countingBilling{
		sub: &BillingSubscription{
			PriceID:          "price_offeralert_growth_monthly",
			CurrentPeriodEnd: periodEnd,
		},
	}
	resolver := NewResolver(nil, billing, false)

	status, err := resolver.ResolveUser(testUser("cus_123", false))
	require.NoError(t, err)

	assert.True(t, status.Subscribed)
	assert.Equal(t, GrowthTier, status.Tier)
	assert.Equal(t, periodEnd.Format(time.RFC3339), status.RenewalDate)
	assert.Equal(t, 1, billing.calls)
}

func TestResolve_ProviderErrorSurfacesStatusCheck(t *testing.T) {
	billing := &countingBilling{err: errors.New("stripe unreachable")}
	resolver := NewResolver(nil, billing, false)

	_, err := resolver.ResolveUser(testUser("cus_123", false))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStatusCheck))
}

func TestResolve_GlobalBypassGrantsExemption(t *testing.T) {
	billing := &countingBilling{}
	resolver := NewResolver(nil, billing, true)

	status, err := resolver.ResolveUser(testUser("", false))
	require.NoError(t, err)

	assert.True(t, status.IsExempt)
	assert.Equal(t, ExemptPromoBypass, status.ExemptReason)
}

func TestResolve_BypassAndDemoReportDemoReason(t *testing.T) {
	billing := &countingBilling{}
	resolver := NewResolver(nil, billing, true)

	status, err := resolver.ResolveUser(testUser("cus_123", true))
	require.NoError(t, err)

	assert.True(t, status.IsExempt)
	assert.Equal(t, ExemptDemoAccount, status.ExemptReason)
	assert.Equal(t, 0, billing.calls)
}
