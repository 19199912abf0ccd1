package domain

import (
	"fmt"
	"time"
)

// LeadStatus represents the workflow status of a captured lead.
type LeadStatus string

const (
	LeadStatusNew      LeadStatus = "new"
	LeadStatusFollowUp LeadStatus = "follow_up"
	LeadStatusSurvey   LeadStatus = "survey"
	LeadStatusClosed   LeadStatus = "closed"
	LeadStatusLost     LeadStatus = "lost"
)

// Lead represents a contact-form submission, tagged with the attributed
// affiliate when one was resolved for the visitor's session.
type Lead struct {
	ID          int64      `gorm:"primaryKey;column:id" json:"id"`
	AffiliateID *int64     `gorm:"column:affiliate_id;index" json:"affiliate_id,omitempty"`
	ListingID   int64      `gorm:"column:listing_id;not null;index" json:"listing_id"`
	Name        string     `gorm:"column:name;size:120;not null" json:"name"`
	Phone       string     `gorm:"column:phone;size:15;not null" json:"phone"`
	Status      LeadStatus `gorm:"column:status;size:12;not null;default:new;index" json:"status"`
	Notes       string     `gorm:"column:notes;type:text" json:"notes,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relationships
	Affiliate *Affiliate `gorm:"foreignKey:AffiliateID" json:"affiliate,omitempty"`
	Listing   *Listing   `gorm:"foreignKey:ListingID" json:"listing,omitempty"`
}

// TableName returns the table name for GORM
func (Lead) TableName() string {
	return "leads"
}

// CanTransitionTo reports whether the lead's workflow status may move to the
// given target. The lead entity is the single authority for transitions:
// closed and lost leads can never be reopened as new, no matter which surface
// drives the change.
func (l *Lead) CanTransitionTo(target LeadStatus) bool {
	if l.Status == target {
		return false
	}
	if target == LeadStatusNew && (l.Status == LeadStatusClosed || l.Status == LeadStatusLost) {
		return false
	}
	switch target {
	case LeadStatusNew, LeadStatusFollowUp, LeadStatusSurvey, LeadStatusClosed, LeadStatusLost:
		return true
	default:
		return false
	}
}

// TransitionTo moves the lead to the target status after checking the state
// machine. It mutates only the in-memory struct; persisting is the caller's
// concern.
func (l *Lead) TransitionTo(target LeadStatus) error {
	if !l.CanTransitionTo(target) {
		return fmt.Errorf("invalid lead status transition: %s -> %s", l.Status, target)
	}
	l.Status = target
	return nil
}

// AdvanceToFollowUp marks the lead as being followed up.
func (l *Lead) AdvanceToFollowUp() error { return l.TransitionTo(LeadStatusFollowUp) }

// AdvanceToSurvey marks the lead as scheduled for a site survey.
func (l *Lead) AdvanceToSurvey() error { return l.TransitionTo(LeadStatusSurvey) }

// Close marks the lead as successfully closed.
func (l *Lead) Close() error { return l.TransitionTo(LeadStatusClosed) }

// MarkLost marks the lead as lost.
func (l *Lead) MarkLost() error { return l.TransitionTo(LeadStatusLost) }

// ParseLeadStatus validates a raw status string.
func ParseLeadStatus(s string) (LeadStatus, error) {
	switch LeadStatus(s) {
	case LeadStatusNew, LeadStatusFollowUp, LeadStatusSurvey, LeadStatusClosed, LeadStatusLost:
		return LeadStatus(s), nil
	default:
		return "", fmt.Errorf("unknown lead status: %q", s)
	}
}
