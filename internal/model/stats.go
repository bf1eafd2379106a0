package model

import (
	"time"

	"gorm.io/gorm"
)

// OfferClick is a single affiliate-link click record.
type OfferClick struct {
	gorm.Model
	PromoCodeID uint      `json:"promo_code_id" gorm:"index"`
	UserID      *uint     `json:"user_id" gorm:"index"` // logged-in follower, optional
	IP          string    `json:"ip" gorm:"index"`
	SessionID   string    `json:"session_id" gorm:"index"`
	UserAgent   string    `json:"user_agent"`
	ClickedAt   time.Time `json:"clicked_at" gorm:"index"`
	IsUnique    bool      `json:"is_unique" gorm:"default:true"`

	// Relations
	PromoCode PromoCode `json:"-" gorm:"foreignKey:PromoCodeID"`
	User      *User     `json:"-" gorm:"foreignKey:UserID"`
}

// OfferStats is the aggregate counters row per offer.
type OfferStats struct {
	gorm.Model
	PromoCodeID      uint      `json:"promo_code_id" gorm:"uniqueIndex"`
	TotalClicks      int64     `json:"total_clicks"`
	UniqueClicks     int64     `json:"unique_clicks"`
	DailyClicks      int64     `json:"daily_clicks"`
	WeeklyClicks     int64     `json:"weekly_clicks"`
	MonthlyClicks    int64     `json:"monthly_clicks"`
	LastUpdated      time.Time `json:"last_updated"`
	LastDailyReset   time.Time `json:"last_daily_reset"`
	LastWeeklyReset  time.Time `json:"last_weekly_reset"`
	LastMonthlyReset time.Time `json:"last_monthly_reset"`

	// Relations
	PromoCode PromoCode `json:"-" gorm:"foreignKey:PromoCodeID"`
}

// BeforeCreate marks repeat clicks from the same IP within 24h as non-unique.
func (oc *OfferClick) BeforeCreate(tx *gorm.DB) error {
	var count int64
	tx.Model(&OfferClick{}).
		Where("promo_code_id = ? AND ip = ? AND clicked_at > ?",
			oc.PromoCodeID,
			oc.IP,
			time.Now().Add(-24*time.Hour)).
		Count(&count)

	if count > 0 {
		oc.IsUnique = false
	}

	return nil
}

// AfterCreate bumps the aggregate counters for the clicked offer.
func (oc *OfferClick) AfterCreate(tx *gorm.DB) error {
	var stats OfferStats
	tx.FirstOrCreate(&stats, OfferStats{PromoCodeID: oc.PromoCodeID})

	updates := map[string]interface{}{
		"total_clicks":   gorm.Expr("total_clicks + ?", 1),
		"daily_clicks":   gorm.Expr("daily_clicks + ?", 1),
		"weekly_clicks":  gorm.Expr("weekly_clicks + ?", 1),
		"monthly_clicks": gorm.Expr("monthly_clicks + ?", 1),
		"last_updated":   time.Now(),
	}

	if oc.IsUnique {
		updates["unique_clicks"] = gorm.Expr("unique_clicks + ?", 1)
	}

	return tx.Model(&stats).Updates(updates).Error
}
