package model

import "gorm.io/gorm"

// Plan is a purchasable subscription plan row. The offer limits themselves
// live in pkg/subscription's static tier table; plan rows carry the Stripe
// identifiers and display data served to the pricing page.
type Plan struct {
	gorm.Model
	Name            string  `json:"name" gorm:"not null"`
	Tier            string  `json:"tier" gorm:"uniqueIndex;not null"`
	Description     string  `json:"description"`
	Price           float64 `json:"price" gorm:"not null"`
	Duration        int     `json:"duration" gorm:"not null"` // days
	MaxOffers       int     `json:"max_offers" gorm:"not null"`
	StripeProductID string  `json:"stripe_product_id"`
	StripePriceID   string  `json:"stripe_price_id"`

	// Relations
	UserSubscriptions []UserSubscription
}

type UserSubscription struct {
	gorm.Model
	UserID      uint   `json:"user_id" gorm:"index"`
	PlanID      uint   `json:"plan_id"`
	Status      string `json:"status" gorm:"default:'active'"` // active, cancelled, expired
	StripeSubID string `json:"stripe_subscription_id"`
	ExpiresAt   string `json:"expires_at"`

	// Relations
	User User `gorm:"foreignKey:UserID"`
	Plan Plan `gorm:"foreignKey:PlanID"`
}
