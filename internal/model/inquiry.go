package model

import (
	"offeralert_backend/pkg/database"
	"time"

	"gorm.io/gorm"
)

// Inquiry is a collaboration request from a brand to an influencer,
// optionally referencing one of the influencer's offers.
type Inquiry struct {
	gorm.Model
	InfluencerID uint   `json:"influencer_id" gorm:"index"`
	PromoCodeID  *uint  `json:"promo_code_id" gorm:"index"`
	BrandName    string `json:"brand_name"`
	ContactName  string `json:"contact_name"`
	Email        string `json:"email"`
	Message      string `json:"message" gorm:"type:text"`
	Status       string `json:"status" gorm:"default:'new'"` // new, contacted, closed
	ReadStatus   bool   `json:"read_status" gorm:"default:false"`
	ContactedAt  *time.Time `json:"contacted_at"`

	// Relations
	Influencer User       `json:"-" gorm:"foreignKey:InfluencerID"`
	PromoCode  *PromoCode `json:"promo_code" gorm:"foreignKey:PromoCodeID"`
}

func (u *User) GetInquiryCount() (int64, error) {
	var count int64
	db := database.GetDB()
	err := db.Model(&Inquiry{}).Where("influencer_id = ?", u.ID).Count(&count).Error
	return count, err
}
