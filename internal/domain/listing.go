package domain

import "time"

// Listing represents a property in the public catalog.
type Listing struct {
	ID          int64     `gorm:"primaryKey;column:id" json:"id"`
	Title       string    `gorm:"column:title;size:200;not null" json:"title"`
	Slug        string    `gorm:"column:slug;uniqueIndex;size:200;not null" json:"slug"`
	Location    string    `gorm:"column:location;size:200" json:"location,omitempty"`
	Price       float64   `gorm:"column:price" json:"price"`
	Description string    `gorm:"column:description;type:text" json:"description,omitempty"`
	IsPublished bool      `gorm:"column:is_published;not null;default:true" json:"is_published"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for GORM
func (Listing) TableName() string {
	return "listings"
}
