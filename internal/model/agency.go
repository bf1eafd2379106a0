package model

import "gorm.io/gorm"

// AgencyInfluencer links an agency account to an influencer account it
// manages. The temporary password is handed to the influencer out of band
// and must be changed on first login.
type AgencyInfluencer struct {
	gorm.Model
	AgencyID     uint   `json:"agency_id" gorm:"index;uniqueIndex:idx_agency_influencer"`
	InfluencerID uint   `json:"influencer_id" gorm:"index;uniqueIndex:idx_agency_influencer"`
	Managed      bool   `json:"managed" gorm:"default:true"`
	TempPassword string `json:"-"` // bcrypt hash, cleared once the influencer sets their own

	// Relations
	Agency     User `json:"-" gorm:"foreignKey:AgencyID"`
	Influencer User `json:"-" gorm:"foreignKey:InfluencerID"`
}
