// Package visits records attributed page impressions, enriched with device
// and browser classification.
package visits

import (
	"context"
	"time"

	"go.uber.org/zap"

	"EstateRef-Backend/internal/domain"
	"EstateRef-Backend/internal/repository"
	"EstateRef-Backend/pkg/useragent"
)

// Recorder persists visit events. It is only invoked after attribution
// resolved an affiliate; unattributed traffic is never recorded.
type Recorder struct {
	storage repository.Storage
	log     *zap.Logger
}

// NewRecorder creates a new visit recorder.
func NewRecorder(storage repository.Storage, log *zap.Logger) *Recorder {
	return &Recorder{
		storage: storage,
		log:     log,
	}
}

// RecordInput describes one attributed impression.
type RecordInput struct {
	AffiliateID int64
	Listing     ListingRef
	IPAddress   string
	UserAgent   string
	URL         string
}

// Record persists one visit event, best-effort. Recording must never fail
// the underlying request, so every error is logged and swallowed here.
// Crawler traffic is dropped before writing.
func (r *Recorder) Record(ctx context.Context, input RecordInput) {
	if parser := useragent.GetGlobalParser(); parser != nil && parser.IsBot(input.UserAgent) {
		r.log.Debug("skipping visit for bot user agent",
			zap.Int64("affiliate_id", input.AffiliateID),
			zap.String("user_agent", input.UserAgent))
		return
	}

	visit := &domain.Visit{
		AffiliateID: input.AffiliateID,
		ListingID:   resolveListingID(ctx, r.storage, input.Listing),
		IPAddress:   input.IPAddress,
		DeviceType:  ClassifyDevice(input.UserAgent),
		Browser:     ClassifyBrowser(input.UserAgent),
		URL:         input.URL,
		// Explicit timestamp: the visits table has no automatic timestamping.
		CreatedAt: time.Now().UTC(),
	}

	if err := r.storage.CreateVisit(ctx, visit); err != nil {
		r.log.Error("failed to record visit",
			zap.Int64("affiliate_id", input.AffiliateID),
			zap.String("url", input.URL),
			zap.Error(err))
		return
	}

	r.log.Debug("recorded visit",
		zap.Int64("affiliate_id", input.AffiliateID),
		zap.String("device_type", visit.DeviceType),
		zap.String("browser", visit.Browser))
}
