package repository

import (
	"EstateRef-Backend/internal/domain"
	"context"
	"errors"
	"time"
)

var (
	ErrAffiliateNotFound  = errors.New("affiliate not found")
	ErrListingNotFound    = errors.New("listing not found")
	ErrLeadNotFound       = errors.New("lead not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrReferralCodeExists = errors.New("referral code already exists")
)

// ListingVisitCount is one row of the top-listings aggregation.
type ListingVisitCount struct {
	ListingID  int64  `gorm:"column:listing_id" json:"listing_id"`
	Title      string `gorm:"column:title" json:"title"`
	Slug       string `gorm:"column:slug" json:"slug"`
	VisitCount int64  `gorm:"column:visit_count" json:"visit_count"`
}

// AffiliateLeadCount is one row of the top-affiliates aggregation.
type AffiliateLeadCount struct {
	AffiliateID  int64  `gorm:"column:affiliate_id" json:"affiliate_id"`
	Name         string `gorm:"column:name" json:"name"`
	ReferralCode string `gorm:"column:referral_code" json:"referral_code"`
	LeadCount    int64  `gorm:"column:lead_count" json:"lead_count"`
	VisitCount   int64  `gorm:"column:visit_count" json:"visit_count"`
}

// Storage is the persistence boundary of the application. Aggregation methods
// take affiliateID == 0 to mean the global scope (all affiliates), and
// operate on the half-open window [from, to).
type Storage interface {
	// Affiliate methods
	CreateAffiliate(ctx context.Context, affiliate *domain.Affiliate) error
	GetAffiliateByID(ctx context.Context, id int64) (*domain.Affiliate, error)
	GetAffiliateByEmail(ctx context.Context, email string) (*domain.Affiliate, error)
	GetActiveAffiliateByCode(ctx context.Context, code string) (*domain.Affiliate, error)
	UpdateAffiliateStatus(ctx context.Context, id int64, status domain.AffiliateStatus) error
	ReferralCodeExists(ctx context.Context, code string) (bool, error)

	// Listing methods
	ListPublishedListings(ctx context.Context) ([]*domain.Listing, error)
	GetListingByID(ctx context.Context, id int64) (*domain.Listing, error)
	GetListingBySlug(ctx context.Context, slug string) (*domain.Listing, error)
	CreateListing(ctx context.Context, listing *domain.Listing) error

	// Visit methods (append-only)
	CreateVisit(ctx context.Context, visit *domain.Visit) error

	// Lead methods
	CreateLead(ctx context.Context, lead *domain.Lead) error
	GetLeadByID(ctx context.Context, id int64) (*domain.Lead, error)
	UpdateLeadStatus(ctx context.Context, id int64, status domain.LeadStatus) error

	// Aggregation methods: single grouped queries, never per-row loops
	CountVisits(ctx context.Context, affiliateID int64, from, to time.Time) (int64, error)
	CountLeads(ctx context.Context, affiliateID int64, from, to time.Time) (int64, error)
	VisitsByDevice(ctx context.Context, affiliateID int64, from, to time.Time) (map[string]int64, error)
	TopListingsByVisits(ctx context.Context, affiliateID int64, from, to time.Time, limit int) ([]ListingVisitCount, error)
	TopAffiliatesByLeads(ctx context.Context, from, to time.Time, limit int) ([]AffiliateLeadCount, error)
	CountActiveAffiliates(ctx context.Context, from, to time.Time) (int64, error)
}
