package seed

import (
	"log"

	"offeralert_backend/internal/model"
	"offeralert_backend/pkg/subscription"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedPlans creates the purchasable plan rows. Offer caps come from the
// static tier table so the database never drifts from the access rules.
func SeedPlans(db *gorm.DB) {
	plans := []model.Plan{
		{
			Name:        "Starter",
			Tier:        string(subscription.StarterTier),
			Description: "Try Offer Alert with a single offer",
			Price:       0,
			Duration:    30,
			MaxOffers:   subscription.GetTierLimits(subscription.StarterTier).MaxOffers,
		},
		{
			Name:            "Boost",
			Tier:            string(subscription.BoostTier),
			Description:     "For creators getting started with brand deals",
			Price:           9.99,
			Duration:        30,
			MaxOffers:       subscription.GetTierLimits(subscription.BoostTier).MaxOffers,
			StripeProductID: "prod_offeralert_boost",
			StripePriceID:   "price_offeralert_boost_monthly",
		},
		{
			Name:            "Growth",
			Tier:            string(subscription.GrowthTier),
			Description:     "For creators with a growing sponsor roster",
			Price:           19.99,
			Duration:        30,
			MaxOffers:       subscription.GetTierLimits(subscription.GrowthTier).MaxOffers,
			StripeProductID: "prod_offeralert_growth",
			StripePriceID:   "price_offeralert_growth_monthly",
		},
		{
			Name:            "Pro",
			Tier:            string(subscription.ProTier),
			Description:     "For full-time influencers",
			Price:           39.99,
			Duration:        30,
			MaxOffers:       subscription.GetTierLimits(subscription.ProTier).MaxOffers,
			StripeProductID: "prod_offeralert_pro",
			StripePriceID:   "price_offeralert_pro_monthly",
		},
		{
			Name:            "Elite",
			Tier:            string(subscription.EliteTier),
			Description:     "Unlimited offers for agencies and top creators",
			Price:           99.99,
			Duration:        30,
			MaxOffers:       subscription.GetTierLimits(subscription.EliteTier).MaxOffers,
			StripeProductID: "prod_offeralert_elite",
			StripePriceID:   "price_offeralert_elite_monthly",
		},
	}

	for _, plan := range plans {
		result := db.FirstOrCreate(&plan, model.Plan{Tier: plan.Tier})
		if result.Error != nil {
			log.Printf("Error creating plan %s: %v", plan.Name, result.Error)
		}
	}

	log.Println("Subscription plans seeded successfully!")
}

// SeedDemoAccounts creates showcase influencer profiles for the public
// directory. Demo accounts bypass billing entirely.
func SeedDemoAccounts(db *gorm.DB) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing demo password: %v", err)
		return
	}

	demos := []model.User{
		{
			Email:         "demo.style@offeralert.io",
			Password:      string(hashed),
			Username:      "style-by-demo",
			DisplayName:   "Style by Demo",
			Bio:           "Fashion finds and honest reviews",
			IsVerified:    true,
			IsFakeAccount: true,
		},
		{
			Email:         "demo.fit@offeralert.io",
			Password:      string(hashed),
			Username:      "demo-fit",
			DisplayName:   "Demo Fit",
			Bio:           "Daily workouts and supplement deals",
			IsVerified:    true,
			IsFakeAccount: true,
		},
	}

	for _, demo := range demos {
		result := db.FirstOrCreate(&demo, model.User{Email: demo.Email})
		if result.Error != nil {
			log.Printf("Error creating demo account %s: %v", demo.Username, result.Error)
		}
	}

	log.Println("Demo accounts seeded successfully!")
}
