package postgres

import (
	"EstateRef-Backend/internal/domain"
	"EstateRef-Backend/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PostgresStorage implements the Storage interface for PostgreSQL.
type PostgresStorage struct {
	db  *gorm.DB
	log *zap.Logger
}

// New creates a new PostgreSQL storage instance.
func New(db *gorm.DB, log *zap.Logger) *PostgresStorage {
	return &PostgresStorage{
		db:  db,
		log: log,
	}
}

// --- Affiliate Methods ---

// CreateAffiliate persists a new affiliate account.
func (s *PostgresStorage) CreateAffiliate(ctx context.Context, affiliate *domain.Affiliate) error {
	var existing domain.Affiliate
	err := s.db.WithContext(ctx).Where("email = ?", affiliate.Email).First(&existing).Error
	if err == nil {
		return repository.ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.log.Error("failed to check affiliate email", zap.String("email", affiliate.Email), zap.Error(err))
		return fmt.Errorf("failed to check affiliate email: %w", err)
	}

	if err := s.db.WithContext(ctx).Create(affiliate).Error; err != nil {
		s.log.Error("failed to create affiliate", zap.String("email", affiliate.Email), zap.Error(err))
		return fmt.Errorf("failed to create affiliate: %w", err)
	}

	s.log.Info("created affiliate",
		zap.Int64("affiliate_id", affiliate.ID),
		zap.String("referral_code", affiliate.ReferralCode))
	return nil
}

// GetAffiliateByID returns an affiliate by primary key.
func (s *PostgresStorage) GetAffiliateByID(ctx context.Context, id int64) (*domain.Affiliate, error) {
	var affiliate domain.Affiliate

	err := s.db.WithContext(ctx).First(&affiliate, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrAffiliateNotFound
	}
	if err != nil {
		s.log.Error("failed to get affiliate", zap.Int64("affiliate_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get affiliate: %w", err)
	}

	return &affiliate, nil
}

// GetAffiliateByEmail returns an affiliate by email.
func (s *PostgresStorage) GetAffiliateByEmail(ctx context.Context, email string) (*domain.Affiliate, error) {
	var affiliate domain.Affiliate

	err := s.db.WithContext(ctx).Where("email = ?", email).First(&affiliate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrAffiliateNotFound
	}
	if err != nil {
		s.log.Error("failed to get affiliate by email", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("failed to get affiliate: %w", err)
	}

	return &affiliate, nil
}

// GetActiveAffiliateByCode returns the affiliate owning the referral code,
// filtered to active status. Pending and blocked affiliates do not match.
func (s *PostgresStorage) GetActiveAffiliateByCode(ctx context.Context, code string) (*domain.Affiliate, error) {
	var affiliate domain.Affiliate

	err := s.db.WithContext(ctx).
		Where("referral_code = ? AND status = ?", code, domain.AffiliateStatusActive).
		First(&affiliate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrAffiliateNotFound
	}
	if err != nil {
		s.log.Error("failed to get affiliate by code", zap.String("referral_code", code), zap.Error(err))
		return nil, fmt.Errorf("failed to get affiliate by code: %w", err)
	}

	return &affiliate, nil
}

// UpdateAffiliateStatus sets the activation status of an affiliate.
func (s *PostgresStorage) UpdateAffiliateStatus(ctx context.Context, id int64, status domain.AffiliateStatus) error {
	result := s.db.WithContext(ctx).Model(&domain.Affiliate{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		s.log.Error("failed to update affiliate status", zap.Int64("affiliate_id", id), zap.Error(result.Error))
		return fmt.Errorf("failed to update affiliate status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrAffiliateNotFound
	}

	s.log.Info("updated affiliate status", zap.Int64("affiliate_id", id), zap.String("status", string(status)))
	return nil
}

// ReferralCodeExists checks whether a referral code is already taken.
func (s *PostgresStorage) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&domain.Affiliate{}).Where("referral_code = ?", code).Count(&count).Error
	if err != nil {
		s.log.Error("failed to check referral code", zap.String("referral_code", code), zap.Error(err))
		return false, fmt.Errorf("failed to check referral code: %w", err)
	}

	return count > 0, nil
}

// --- Listing Methods ---

// ListPublishedListings returns all published catalog listings.
func (s *PostgresStorage) ListPublishedListings(ctx context.Context) ([]*domain.Listing, error) {
	var listings []*domain.Listing

	err := s.db.WithContext(ctx).Where("is_published = ?", true).
		Order("created_at DESC").Find(&listings).Error
	if err != nil {
		s.log.Error("failed to list listings", zap.Error(err))
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}

	return listings, nil
}

// GetListingByID returns a listing by primary key.
func (s *PostgresStorage) GetListingByID(ctx context.Context, id int64) (*domain.Listing, error) {
	var listing domain.Listing

	err := s.db.WithContext(ctx).First(&listing, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrListingNotFound
	}
	if err != nil {
		s.log.Error("failed to get listing", zap.Int64("listing_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}

	return &listing, nil
}

// GetListingBySlug returns a published listing by slug.
func (s *PostgresStorage) GetListingBySlug(ctx context.Context, slug string) (*domain.Listing, error) {
	var listing domain.Listing

	err := s.db.WithContext(ctx).Where("slug = ? AND is_published = ?", slug, true).First(&listing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrListingNotFound
	}
	if err != nil {
		s.log.Error("failed to get listing by slug", zap.String("slug", slug), zap.Error(err))
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}

	return &listing, nil
}

// CreateListing persists a new catalog listing.
func (s *PostgresStorage) CreateListing(ctx context.Context, listing *domain.Listing) error {
	if err := s.db.WithContext(ctx).Create(listing).Error; err != nil {
		s.log.Error("failed to create listing", zap.String("slug", listing.Slug), zap.Error(err))
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

// --- Visit Methods ---

// CreateVisit appends one visit event. CreatedAt must already be set by the
// caller; this entity has no automatic timestamping.
func (s *PostgresStorage) CreateVisit(ctx context.Context, visit *domain.Visit) error {
	if err := s.db.WithContext(ctx).Create(visit).Error; err != nil {
		s.log.Error("failed to create visit",
			zap.Int64("affiliate_id", visit.AffiliateID), zap.Error(err))
		return fmt.Errorf("failed to create visit: %w", err)
	}

	s.log.Debug("recorded visit",
		zap.Int64("affiliate_id", visit.AffiliateID),
		zap.String("device_type", visit.DeviceType))
	return nil
}

// --- Lead Methods ---

// CreateLead persists a captured lead.
func (s *PostgresStorage) CreateLead(ctx context.Context, lead *domain.Lead) error {
	if err := s.db.WithContext(ctx).Create(lead).Error; err != nil {
		s.log.Error("failed to create lead", zap.Int64("listing_id", lead.ListingID), zap.Error(err))
		return fmt.Errorf("failed to create lead: %w", err)
	}

	s.log.Info("created lead",
		zap.Int64("lead_id", lead.ID),
		zap.Int64("listing_id", lead.ListingID),
		zap.Int64p("affiliate_id", lead.AffiliateID))
	return nil
}

// GetLeadByID returns a lead by primary key.
func (s *PostgresStorage) GetLeadByID(ctx context.Context, id int64) (*domain.Lead, error) {
	var lead domain.Lead

	err := s.db.WithContext(ctx).First(&lead, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrLeadNotFound
	}
	if err != nil {
		s.log.Error("failed to get lead", zap.Int64("lead_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	return &lead, nil
}

// UpdateLeadStatus persists a workflow status already validated by the lead
// state machine.
func (s *PostgresStorage) UpdateLeadStatus(ctx context.Context, id int64, status domain.LeadStatus) error {
	result := s.db.WithContext(ctx).Model(&domain.Lead{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		s.log.Error("failed to update lead status", zap.Int64("lead_id", id), zap.Error(result.Error))
		return fmt.Errorf("failed to update lead status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrLeadNotFound
	}

	s.log.Info("updated lead status", zap.Int64("lead_id", id), zap.String("status", string(status)))
	return nil
}

// --- Aggregation Methods ---

// scopedVisits builds the base visit query for a scope and window.
func (s *PostgresStorage) scopedVisits(ctx context.Context, affiliateID int64, from, to time.Time) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&domain.Visit{}).
		Where("created_at >= ? AND created_at < ?", from, to)
	if affiliateID != 0 {
		query = query.Where("affiliate_id = ?", affiliateID)
	}
	return query
}

// scopedLeads builds the base lead query for a scope and window.
func (s *PostgresStorage) scopedLeads(ctx context.Context, affiliateID int64, from, to time.Time) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&domain.Lead{}).
		Where("created_at >= ? AND created_at < ?", from, to)
	if affiliateID != 0 {
		query = query.Where("affiliate_id = ?", affiliateID)
	}
	return query
}

// CountVisits counts visit events in the window, optionally scoped.
func (s *PostgresStorage) CountVisits(ctx context.Context, affiliateID int64, from, to time.Time) (int64, error) {
	var count int64
	if err := s.scopedVisits(ctx, affiliateID, from, to).Count(&count).Error; err != nil {
		s.log.Error("failed to count visits", zap.Int64("affiliate_id", affiliateID), zap.Error(err))
		return 0, fmt.Errorf("failed to count visits: %w", err)
	}
	return count, nil
}

// CountLeads counts lead events in the window, optionally scoped.
func (s *PostgresStorage) CountLeads(ctx context.Context, affiliateID int64, from, to time.Time) (int64, error) {
	var count int64
	if err := s.scopedLeads(ctx, affiliateID, from, to).Count(&count).Error; err != nil {
		s.log.Error("failed to count leads", zap.Int64("affiliate_id", affiliateID), zap.Error(err))
		return 0, fmt.Errorf("failed to count leads: %w", err)
	}
	return count, nil
}

// VisitsByDevice returns visit counts grouped by device category.
func (s *PostgresStorage) VisitsByDevice(ctx context.Context, affiliateID int64, from, to time.Time) (map[string]int64, error) {
	var results []struct {
		DeviceType string `gorm:"column:device_type"`
		Count      int64  `gorm:"column:count"`
	}

	err := s.scopedVisits(ctx, affiliateID, from, to).
		Select("device_type, count(*) as count").
		Group("device_type").
		Find(&results).Error
	if err != nil {
		s.log.Error("failed to get visits by device", zap.Int64("affiliate_id", affiliateID), zap.Error(err))
		return nil, fmt.Errorf("failed to get visits by device: %w", err)
	}

	byDevice := make(map[string]int64, len(results))
	for _, result := range results {
		byDevice[result.DeviceType] = result.Count
	}

	return byDevice, nil
}

// TopListingsByVisits returns the listings with the most visits in the
// window, joined to their title and slug. Ties keep database ordering.
func (s *PostgresStorage) TopListingsByVisits(ctx context.Context, affiliateID int64, from, to time.Time, limit int) ([]repository.ListingVisitCount, error) {
	var rows []repository.ListingVisitCount

	query := s.db.WithContext(ctx).Model(&domain.Visit{}).
		Select("visits.listing_id as listing_id, listings.title as title, listings.slug as slug, count(*) as visit_count").
		Joins("JOIN listings ON listings.id = visits.listing_id").
		Where("visits.listing_id IS NOT NULL").
		Where("visits.created_at >= ? AND visits.created_at < ?", from, to)
	if affiliateID != 0 {
		query = query.Where("visits.affiliate_id = ?", affiliateID)
	}

	err := query.
		Group("visits.listing_id, listings.title, listings.slug").
		Order("visit_count DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		s.log.Error("failed to get top listings", zap.Int64("affiliate_id", affiliateID), zap.Error(err))
		return nil, fmt.Errorf("failed to get top listings: %w", err)
	}

	return rows, nil
}

// TopAffiliatesByLeads returns the affiliates with the most leads in the
// window (at least one lead to qualify), annotated with their visit counts.
// Two grouped queries total, merged in memory: no per-affiliate querying.
func (s *PostgresStorage) TopAffiliatesByLeads(ctx context.Context, from, to time.Time, limit int) ([]repository.AffiliateLeadCount, error) {
	var rows []repository.AffiliateLeadCount

	err := s.db.WithContext(ctx).Model(&domain.Lead{}).
		Select("leads.affiliate_id as affiliate_id, affiliates.name as name, affiliates.referral_code as referral_code, count(*) as lead_count").
		Joins("JOIN affiliates ON affiliates.id = leads.affiliate_id").
		Where("leads.affiliate_id IS NOT NULL").
		Where("leads.created_at >= ? AND leads.created_at < ?", from, to).
		Group("leads.affiliate_id, affiliates.name, affiliates.referral_code").
		Order("lead_count DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		s.log.Error("failed to get top affiliates", zap.Error(err))
		return nil, fmt.Errorf("failed to get top affiliates: %w", err)
	}

	if len(rows) == 0 {
		return rows, nil
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.AffiliateID)
	}

	var visitCounts []struct {
		AffiliateID int64 `gorm:"column:affiliate_id"`
		Count       int64 `gorm:"column:count"`
	}
	err = s.db.WithContext(ctx).Model(&domain.Visit{}).
		Select("affiliate_id, count(*) as count").
		Where("affiliate_id IN ?", ids).
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("affiliate_id").
		Find(&visitCounts).Error
	if err != nil {
		s.log.Error("failed to get affiliate visit counts", zap.Error(err))
		return nil, fmt.Errorf("failed to get affiliate visit counts: %w", err)
	}

	visitsByAffiliate := make(map[int64]int64, len(visitCounts))
	for _, vc := range visitCounts {
		visitsByAffiliate[vc.AffiliateID] = vc.Count
	}
	for i := range rows {
		rows[i].VisitCount = visitsByAffiliate[rows[i].AffiliateID]
	}

	return rows, nil
}

// CountActiveAffiliates counts distinct affiliates with at least one visit or
// one lead in the window.
func (s *PostgresStorage) CountActiveAffiliates(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64

	err := s.db.WithContext(ctx).Raw(`
		SELECT count(*) FROM (
			SELECT affiliate_id FROM visits
			WHERE created_at >= ? AND created_at < ?
			UNION
			SELECT affiliate_id FROM leads
			WHERE affiliate_id IS NOT NULL AND created_at >= ? AND created_at < ?
		) AS active`, from, to, from, to).Scan(&count).Error
	if err != nil {
		s.log.Error("failed to count active affiliates", zap.Error(err))
		return 0, fmt.Errorf("failed to count active affiliates: %w", err)
	}

	return count, nil
}
