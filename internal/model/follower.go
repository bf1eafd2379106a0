package model

import "time"

// Follower is a reader who signed up for new-offer alerts from an influencer.
type Follower struct {
	ID           uint      `gorm:"primaryKey"`
	InfluencerID uint      `gorm:"not null;index"`
	Name         string    `gorm:"size:255"`
	Email        string    `gorm:"not null"`
	Source       string    `gorm:"size:50"` // Profile Page, Offer Page
	SubscribedAt time.Time `gorm:"autoCreateTime"`
}

func (Follower) TableName() string {
	return "followers"
}
