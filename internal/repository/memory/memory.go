// Package memory provides an in-memory Storage implementation used by tests
// and local experiments.
package memory

import (
	"EstateRef-Backend/internal/domain"
	"EstateRef-Backend/internal/repository"
	"context"
	"sort"
	"sync"
	"time"
)

type MemStorage struct {
	mu               sync.RWMutex
	affiliates       map[int64]*domain.Affiliate
	listings         map[int64]*domain.Listing
	visits           []*domain.Visit
	leads            map[int64]*domain.Lead
	affiliateCounter int64
	listingCounter   int64
	visitCounter     int64
	leadCounter      int64
}

func New() *MemStorage {
	return &MemStorage{
		affiliates: make(map[int64]*domain.Affiliate),
		listings:   make(map[int64]*domain.Listing),
		leads:      make(map[int64]*domain.Lead),
	}
}

// --- Affiliate Methods ---

func (s *MemStorage) CreateAffiliate(_ context.Context, affiliate *domain.Affiliate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.affiliates {
		if existing.Email == affiliate.Email {
			return repository.ErrEmailExists
		}
		if existing.ReferralCode == affiliate.ReferralCode {
			return repository.ErrReferralCodeExists
		}
	}

	s.affiliateCounter++
	affiliate.ID = s.affiliateCounter
	if affiliate.CreatedAt.IsZero() {
		affiliate.CreatedAt = time.Now()
	}
	s.affiliates[affiliate.ID] = affiliate
	return nil
}

func (s *MemStorage) GetAffiliateByID(_ context.Context, id int64) (*domain.Affiliate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	affiliate, ok := s.affiliates[id]
	if !ok {
		return nil, repository.ErrAffiliateNotFound
	}
	return affiliate, nil
}

func (s *MemStorage) GetAffiliateByEmail(_ context.Context, email string) (*domain.Affiliate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, affiliate := range s.affiliates {
		if affiliate.Email == email {
			return affiliate, nil
		}
	}
	return nil, repository.ErrAffiliateNotFound
}

func (s *MemStorage) GetActiveAffiliateByCode(_ context.Context, code string) (*domain.Affiliate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, affiliate := range s.affiliates {
		if affiliate.ReferralCode == code && affiliate.Status == domain.AffiliateStatusActive {
			return affiliate, nil
		}
	}
	return nil, repository.ErrAffiliateNotFound
}

func (s *MemStorage) UpdateAffiliateStatus(_ context.Context, id int64, status domain.AffiliateStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	affiliate, ok := s.affiliates[id]
	if !ok {
		return repository.ErrAffiliateNotFound
	}
	affiliate.Status = status
	return nil
}

func (s *MemStorage) ReferralCodeExists(_ context.Context, code string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, affiliate := range s.affiliates {
		if affiliate.ReferralCode == code {
			return true, nil
		}
	}
	return false, nil
}

// --- Listing Methods ---

func (s *MemStorage) ListPublishedListings(_ context.Context) ([]*domain.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var listings []*domain.Listing
	for _, listing := range s.listings {
		if listing.IsPublished {
			listings = append(listings, listing)
		}
	}
	sort.Slice(listings, func(i, j int) bool {
		return listings[i].CreatedAt.After(listings[j].CreatedAt)
	})
	return listings, nil
}

func (s *MemStorage) GetListingByID(_ context.Context, id int64) (*domain.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	listing, ok := s.listings[id]
	if !ok {
		return nil, repository.ErrListingNotFound
	}
	return listing, nil
}

func (s *MemStorage) GetListingBySlug(_ context.Context, slug string) (*domain.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, listing := range s.listings {
		if listing.Slug == slug && listing.IsPublished {
			return listing, nil
		}
	}
	return nil, repository.ErrListingNotFound
}

func (s *MemStorage) CreateListing(_ context.Context, listing *domain.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listingCounter++
	listing.ID = s.listingCounter
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = time.Now()
	}
	s.listings[listing.ID] = listing
	return nil
}

// --- Visit Methods ---

func (s *MemStorage) CreateVisit(_ context.Context, visit *domain.Visit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.visitCounter++
	visit.ID = s.visitCounter
	s.visits = append(s.visits, visit)
	return nil
}

// Visits returns a snapshot of recorded visits, for test assertions.
func (s *MemStorage) Visits() []*domain.Visit {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Visit, len(s.visits))
	copy(out, s.visits)
	return out
}

// --- Lead Methods ---

func (s *MemStorage) CreateLead(_ context.Context, lead *domain.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.leadCounter++
	lead.ID = s.leadCounter
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now()
	}
	s.leads[lead.ID] = lead
	return nil
}

func (s *MemStorage) GetLeadByID(_ context.Context, id int64) (*domain.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lead, ok := s.leads[id]
	if !ok {
		return nil, repository.ErrLeadNotFound
	}
	return lead, nil
}

func (s *MemStorage) UpdateLeadStatus(_ context.Context, id int64, status domain.LeadStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lead, ok := s.leads[id]
	if !ok {
		return repository.ErrLeadNotFound
	}
	lead.Status = status
	return nil
}

// --- Aggregation Methods ---

func inWindow(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func (s *MemStorage) CountVisits(_ context.Context, affiliateID int64, from, to time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, visit := range s.visits {
		if inWindow(visit.CreatedAt, from, to) && (affiliateID == 0 || visit.AffiliateID == affiliateID) {
			count++
		}
	}
	return count, nil
}

func (s *MemStorage) CountLeads(_ context.Context, affiliateID int64, from, to time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, lead := range s.leads {
		if !inWindow(lead.CreatedAt, from, to) {
			continue
		}
		if affiliateID == 0 || (lead.AffiliateID != nil && *lead.AffiliateID == affiliateID) {
			count++
		}
	}
	return count, nil
}

func (s *MemStorage) VisitsByDevice(_ context.Context, affiliateID int64, from, to time.Time) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byDevice := make(map[string]int64)
	for _, visit := range s.visits {
		if inWindow(visit.CreatedAt, from, to) && (affiliateID == 0 || visit.AffiliateID == affiliateID) {
			byDevice[visit.DeviceType]++
		}
	}
	return byDevice, nil
}

func (s *MemStorage) TopListingsByVisits(_ context.Context, affiliateID int64, from, to time.Time, limit int) ([]repository.ListingVisitCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[int64]int64)
	for _, visit := range s.visits {
		if visit.ListingID == nil || !inWindow(visit.CreatedAt, from, to) {
			continue
		}
		if affiliateID == 0 || visit.AffiliateID == affiliateID {
			counts[*visit.ListingID]++
		}
	}

	var rows []repository.ListingVisitCount
	for listingID, count := range counts {
		listing, ok := s.listings[listingID]
		if !ok {
			continue
		}
		rows = append(rows, repository.ListingVisitCount{
			ListingID:  listingID,
			Title:      listing.Title,
			Slug:       listing.Slug,
			VisitCount: count,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].VisitCount > rows[j].VisitCount })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (s *MemStorage) TopAffiliatesByLeads(_ context.Context, from, to time.Time, limit int) ([]repository.AffiliateLeadCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	leadCounts := make(map[int64]int64)
	for _, lead := range s.leads {
		if lead.AffiliateID != nil && inWindow(lead.CreatedAt, from, to) {
			leadCounts[*lead.AffiliateID]++
		}
	}

	var rows []repository.AffiliateLeadCount
	for affiliateID, leadCount := range leadCounts {
		affiliate, ok := s.affiliates[affiliateID]
		if !ok {
			continue
		}
		var visitCount int64
		for _, visit := range s.visits {
			if visit.AffiliateID == affiliateID && inWindow(visit.CreatedAt, from, to) {
				visitCount++
			}
		}
		rows = append(rows, repository.AffiliateLeadCount{
			AffiliateID:  affiliateID,
			Name:         affiliate.Name,
			ReferralCode: affiliate.ReferralCode,
			LeadCount:    leadCount,
			VisitCount:   visitCount,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].LeadCount > rows[j].LeadCount })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (s *MemStorage) CountActiveAffiliates(_ context.Context, from, to time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make(map[int64]struct{})
	for _, visit := range s.visits {
		if inWindow(visit.CreatedAt, from, to) {
			active[visit.AffiliateID] = struct{}{}
		}
	}
	for _, lead := range s.leads {
		if lead.AffiliateID != nil && inWindow(lead.CreatedAt, from, to) {
			active[*lead.AffiliateID] = struct{}{}
		}
	}
	return int64(len(active)), nil
}
