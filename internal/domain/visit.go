package domain

import "time"

// Device categories recorded on visits.
const (
	DeviceMobile  = "mobile"
	DeviceDesktop = "desktop"
	DeviceUnknown = "unknown"
)

// Visit is an immutable event representing one attributed page impression.
// Unattributed traffic is not recorded at all, so AffiliateID is always set.
// CreatedAt is assigned explicitly by the recorder, not by GORM: visit
// timestamping is deliberately decoupled from update tracking.
type Visit struct {
	ID          int64     `gorm:"primaryKey;column:id" json:"id"`
	AffiliateID int64     `gorm:"column:affiliate_id;not null;index:idx_visits_affiliate_created" json:"affiliate_id"`
	ListingID   *int64    `gorm:"column:listing_id;index" json:"listing_id,omitempty"`
	IPAddress   string    `gorm:"column:ip_address;size:45" json:"ip_address,omitempty"`
	DeviceType  string    `gorm:"column:device_type;size:10;not null" json:"device_type"`
	Browser     string    `gorm:"column:browser;size:50;not null" json:"browser"`
	URL         string    `gorm:"column:url;size:500" json:"url,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;index:idx_visits_affiliate_created;not null" json:"created_at"`

	// Relationships
	Affiliate *Affiliate `gorm:"foreignKey:AffiliateID" json:"affiliate,omitempty"`
	Listing   *Listing   `gorm:"foreignKey:ListingID" json:"listing,omitempty"`
}

// TableName returns the table name for GORM
func (Visit) TableName() string {
	return "visits"
}
