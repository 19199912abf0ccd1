package domain

import "time"

// AffiliateStatus represents the activation status of an affiliate account.
type AffiliateStatus string

const (
	AffiliateStatusPending AffiliateStatus = "pending"
	AffiliateStatusActive  AffiliateStatus = "active"
	AffiliateStatusBlocked AffiliateStatus = "blocked"
)

// Affiliate represents a registered affiliate account. Only affiliates with
// status "active" may receive attribution for visits and leads.
type Affiliate struct {
	ID           int64           `gorm:"primaryKey;column:id" json:"id"`
	Name         string          `gorm:"column:name;size:120;not null" json:"name"`
	Email        string          `gorm:"column:email;uniqueIndex;not null" json:"email"`
	Phone        string          `gorm:"column:phone;size:20" json:"phone"`
	PasswordHash string          `gorm:"column:password_hash;not null" json:"-"`
	ReferralCode string          `gorm:"column:referral_code;uniqueIndex;size:16;not null" json:"referral_code"`
	Status       AffiliateStatus `gorm:"column:status;size:10;not null;default:pending;index" json:"status"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relationships
	Visits []Visit `gorm:"foreignKey:AffiliateID" json:"visits,omitempty"`
	Leads  []Lead  `gorm:"foreignKey:AffiliateID" json:"leads,omitempty"`
}

// TableName returns the table name for GORM
func (Affiliate) TableName() string {
	return "affiliates"
}

// IsActive reports whether the affiliate may receive attribution.
func (a *Affiliate) IsActive() bool {
	return a.Status == AffiliateStatusActive
}
