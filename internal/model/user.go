package model

import (
	"strings"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email       string `gorm:"uniqueIndex;not null"`
	Password    string `gorm:"not null"`
	Username    string `gorm:"uniqueIndex;not null"`
	DisplayName string `json:"display_name" gorm:"not null"`

	// Optional profile fields, editable from settings
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio" gorm:"type:text"`
	Instagram string `json:"instagram"`
	TikTok    string `json:"tiktok"`
	YouTube   string `json:"youtube"`
	Avatar    string `json:"avatar"`

	// System fields
	IsVerified       bool   `json:"is_verified" gorm:"default:false"`
	IsFakeAccount    bool   `json:"is_fake_account" gorm:"default:false"`
	StripeCustomerID string `json:"-"`

	// Relations
	PromoCodes   []PromoCode       `json:"-"`
	Subscription *UserSubscription `json:"-" gorm:"foreignKey:UserID"`
}

func (u *User) GetFullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) GetPublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":           u.ID,
		"username":     u.Username,
		"display_name": u.DisplayName,
		"full_name":    u.GetFullName(),
		"bio":          u.Bio,
		"instagram":    u.Instagram,
		"tiktok":       u.TikTok,
		"youtube":      u.YouTube,
		"avatar":       u.Avatar,
		"is_verified":  u.IsVerified,
	}
}
