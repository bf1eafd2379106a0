package model

import (
	"time"

	"github.com/gosimple/slug"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Offer Categories
type OfferCategory string

const (
	CategoryFashion   OfferCategory = "Fashion"
	CategoryBeauty    OfferCategory = "Beauty"
	CategoryFitness   OfferCategory = "Fitness"
	CategoryFood      OfferCategory = "Food & Drink"
	CategoryTravel    OfferCategory = "Travel"
	CategoryTech      OfferCategory = "Tech"
	CategoryGaming    OfferCategory = "Gaming"
	CategoryHome      OfferCategory = "Home & Living"
	CategoryLifestyle OfferCategory = "Lifestyle"
	CategoryOther     OfferCategory = "Other"
)

var OfferCategories = []OfferCategory{
	CategoryFashion,
	CategoryBeauty,
	CategoryFitness,
	CategoryFood,
	CategoryTravel,
	CategoryTech,
	CategoryGaming,
	CategoryHome,
	CategoryLifestyle,
	CategoryOther,
}

func IsValidCategory(c OfferCategory) bool {
	for _, cat := range OfferCategories {
		if cat == c {
			return true
		}
	}
	return false
}

type PromoCode struct {
	gorm.Model
	BrandName   string        `json:"brand_name" gorm:"not null"`
	BrandSlug   string        `json:"brand_slug" gorm:"index;not null"`
	Code        string        `json:"code" gorm:"not null"`
	Description string        `json:"description" gorm:"type:text"`
	Category    OfferCategory `json:"category" gorm:"index;not null"`

	AffiliateLink  string          `json:"affiliate_link"`
	BrandLogo      string          `json:"brand_logo"`
	ExpirationDate *datatypes.Date `json:"expiration_date"`

	UserID uint `json:"user_id" gorm:"index"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID"`
}

// BeforeCreate derives the brand slug used by the public brand pages.
func (p *PromoCode) BeforeCreate(tx *gorm.DB) error {
	if p.BrandSlug == "" {
		p.BrandSlug = slug.Make(p.BrandName)
	}
	return nil
}

// BeforeUpdate keeps the slug in sync when the brand name changes.
func (p *PromoCode) BeforeUpdate(tx *gorm.DB) error {
	if p.BrandName != "" {
		p.BrandSlug = slug.Make(p.BrandName)
	}
	return nil
}

// IsExpired reports whether the offer's expiration date has passed.
// Offers without an expiration date never expire.
func (p *PromoCode) IsExpired() bool {
	if p.ExpirationDate == nil {
		return false
	}
	return time.Time(*p.ExpirationDate).Before(time.Now().Truncate(24 * time.Hour))
}
