// Package analytics computes conversion metrics over the visit and lead
// event stream, with a time-based snapshot cache to bound recomputation.
package analytics

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"EstateRef-Backend/internal/config"
	"EstateRef-Backend/internal/domain"
	"EstateRef-Backend/internal/repository"
)

// GlobalScope selects metrics across all affiliates.
const GlobalScope int64 = 0

// AffiliateMetrics annotates one top affiliate with its own conversion
// numbers.
type AffiliateMetrics struct {
	AffiliateID    int64   `json:"affiliate_id"`
	Name           string  `json:"name"`
	ReferralCode   string  `json:"referral_code"`
	LeadCount      int64   `json:"lead_count"`
	VisitCount     int64   `json:"visit_count"`
	ConversionRate float64 `json:"conversion_rate"`
}

// MetricSnapshot is a cached, time-bounded aggregate. It is always recomputed
// wholesale; partial updates never happen.
type MetricSnapshot struct {
	Scope           int64                          `json:"scope"` // 0 = global
	From            time.Time                      `json:"from"`
	To              time.Time                      `json:"to"`
	TotalVisits     int64                          `json:"total_visits"`
	TotalLeads      int64                          `json:"total_leads"`
	ConversionRate  float64                        `json:"conversion_rate"`
	DeviceBreakdown map[string]int64               `json:"device_breakdown"`
	TopListings     []repository.ListingVisitCount `json:"top_listings"`
	// Global scope only
	TopAffiliates    []AffiliateMetrics `json:"top_affiliates,omitempty"`
	ActiveAffiliates int64              `json:"active_affiliates,omitempty"`
	GeneratedAt      time.Time          `json:"generated_at"`
}

// cacheKey identifies a snapshot by scope and date boundaries. Dates, not
// timestamps: two requests for the same calendar window share an entry.
type cacheKey struct {
	scope    int64
	fromDate string
	toDate   string
}

type cacheEntry struct {
	snapshot  *MetricSnapshot
	expiresAt time.Time
}

// Aggregator computes and caches metric snapshots.
type Aggregator struct {
	storage repository.Storage
	cfg     *config.Analytics
	log     *zap.Logger

	mu    sync.RWMutex
	cache map[cacheKey]cacheEntry
}

// NewAggregator creates a new analytics aggregator.
func NewAggregator(storage repository.Storage, cfg *config.Analytics, log *zap.Logger) *Aggregator {
	return &Aggregator{
		storage: storage,
		cfg:     cfg,
		log:     log,
		cache:   make(map[cacheKey]cacheEntry),
	}
}

// ConversionRate computes leads/visits as a percentage rounded to two
// decimal places. Zero visits yields exactly 0.0, never NaN or Inf.
func ConversionRate(visits, leads int64) float64 {
	if visits == 0 {
		return 0.0
	}
	rate := float64(leads) / float64(visits) * 100
	return math.Round(rate*100) / 100
}

// GetMetrics returns the metric snapshot for a scope and date range,
// computing it on cache miss. Scope is an affiliate id, or GlobalScope for
// all affiliates. The range is inclusive at date granularity: events from
// the start of `start` through the end of `end` are counted.
//
// Concurrent cache misses may recompute redundantly; that is tolerated,
// recomputation is idempotent and the last writer wins.
func (a *Aggregator) GetMetrics(ctx context.Context, scope int64, start, end time.Time) (*MetricSnapshot, error) {
	from := truncateToDay(start)
	to := truncateToDay(end).AddDate(0, 0, 1)

	key := cacheKey{
		scope:    scope,
		fromDate: from.Format("2006-01-02"),
		toDate:   to.Format("2006-01-02"),
	}

	a.mu.RLock()
	entry, ok := a.cache[key]
	a.mu.RUnlock()
	if ok && time.Now().Before(entry.expiresAt) {
		a.log.Debug("metrics cache hit",
			zap.Int64("scope", scope),
			zap.String("from", key.fromDate),
			zap.String("to", key.toDate))
		return entry.snapshot, nil
	}

	snapshot, err := a.compute(ctx, scope, from, to)
	if err != nil {
		// No safe silent fallback for a failed metrics read.
		return nil, err
	}

	a.mu.Lock()
	a.cache[key] = cacheEntry{
		snapshot:  snapshot,
		expiresAt: time.Now().Add(time.Duration(a.cfg.CacheTTLMin) * time.Minute),
	}
	a.mu.Unlock()

	a.log.Debug("metrics snapshot recomputed",
		zap.Int64("scope", scope),
		zap.Int64("visits", snapshot.TotalVisits),
		zap.Int64("leads", snapshot.TotalLeads))
	return snapshot, nil
}

// compute performs the full recompute for one snapshot. Every number comes
// from a single grouped query; nothing iterates rows issuing further
// queries.
func (a *Aggregator) compute(ctx context.Context, scope int64, from, to time.Time) (*MetricSnapshot, error) {
	visits, err := a.storage.CountVisits(ctx, scope, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to count visits: %w", err)
	}

	leads, err := a.storage.CountLeads(ctx, scope, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to count leads: %w", err)
	}

	byDevice, err := a.storage.VisitsByDevice(ctx, scope, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get device breakdown: %w", err)
	}
	if byDevice == nil {
		byDevice = make(map[string]int64)
	}
	// Dashboards rely on these keys being present even at zero.
	if _, ok := byDevice[domain.DeviceMobile]; !ok {
		byDevice[domain.DeviceMobile] = 0
	}
	if _, ok := byDevice[domain.DeviceDesktop]; !ok {
		byDevice[domain.DeviceDesktop] = 0
	}

	topListings, err := a.storage.TopListingsByVisits(ctx, scope, from, to, a.cfg.TopListingsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top listings: %w", err)
	}

	snapshot := &MetricSnapshot{
		Scope:           scope,
		From:            from,
		To:              to,
		TotalVisits:     visits,
		TotalLeads:      leads,
		ConversionRate:  ConversionRate(visits, leads),
		DeviceBreakdown: byDevice,
		TopListings:     topListings,
		GeneratedAt:     time.Now().UTC(),
	}

	if scope == GlobalScope {
		topAffiliates, err := a.storage.TopAffiliatesByLeads(ctx, from, to, a.cfg.TopAffiliatesLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to get top affiliates: %w", err)
		}
		snapshot.TopAffiliates = make([]AffiliateMetrics, 0, len(topAffiliates))
		for _, row := range topAffiliates {
			snapshot.TopAffiliates = append(snapshot.TopAffiliates, AffiliateMetrics{
				AffiliateID:    row.AffiliateID,
				Name:           row.Name,
				ReferralCode:   row.ReferralCode,
				LeadCount:      row.LeadCount,
				VisitCount:     row.VisitCount,
				ConversionRate: ConversionRate(row.VisitCount, row.LeadCount),
			})
		}

		active, err := a.storage.CountActiveAffiliates(ctx, from, to)
		if err != nil {
			return nil, fmt.Errorf("failed to count active affiliates: %w", err)
		}
		snapshot.ActiveAffiliates = active
	}

	return snapshot, nil
}

// InvalidateAll drops every cached snapshot; intended for tests.
func (a *Aggregator) InvalidateAll() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cache = make(map[cacheKey]cacheEntry)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
