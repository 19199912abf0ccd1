package visits

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"EstateRef-Backend/internal/domain"
	"EstateRef-Backend/internal/repository/memory"
)

func TestRecorder_Record(t *testing.T) {
	storage := memory.New()
	recorder := NewRecorder(storage, zap.NewNop())

	require.NoError(t, storage.CreateListing(context.Background(), &domain.Listing{
		Title: "Villa X", Slug: "villa-x", IsPublished: true,
	}))

	recorder.Record(context.Background(), RecordInput{
		AffiliateID: 1,
		Listing:     ListingSlug{Slug: "villa-x"},
		IPAddress:   "203.0.113.9",
		UserAgent:   uaIPhone,
		URL:         "https://example.com/p/villa-x",
	})

	visits := storage.Visits()
	require.Len(t, visits, 1)
	assert.Equal(t, int64(1), visits[0].AffiliateID)
	require.NotNil(t, visits[0].ListingID)
	assert.Equal(t, int64(1), *visits[0].ListingID)
	assert.Equal(t, "mobile", visits[0].DeviceType)
	assert.Equal(t, "Safari", visits[0].Browser)
	assert.False(t, visits[0].CreatedAt.IsZero(), "visit timestamp must be assigned explicitly")
}

func TestRecorder_Record_NoListing(t *testing.T) {
	storage := memory.New()
	recorder := NewRecorder(storage, zap.NewNop())

	recorder.Record(context.Background(), RecordInput{
		AffiliateID: 2,
		Listing:     NoListing{},
		UserAgent:   uaWindowsChrome,
		URL:         "https://example.com/properties",
	})

	visits := storage.Visits()
	require.Len(t, visits, 1)
	assert.Nil(t, visits[0].ListingID)
	assert.Equal(t, "desktop", visits[0].DeviceType)
	assert.Equal(t, "Chrome", visits[0].Browser)
}

func TestRecorder_Record_UnknownSlug(t *testing.T) {
	storage := memory.New()
	recorder := NewRecorder(storage, zap.NewNop())

	recorder.Record(context.Background(), RecordInput{
		AffiliateID: 3,
		Listing:     ListingSlug{Slug: "does-not-exist"},
		UserAgent:   uaWindowsChrome,
	})

	// A dangling slug resolves to a visit without a listing, not an error.
	visits := storage.Visits()
	require.Len(t, visits, 1)
	assert.Nil(t, visits[0].ListingID)
}

func TestRecorder_Record_ResolvedEntity(t *testing.T) {
	storage := memory.New()
	recorder := NewRecorder(storage, zap.NewNop())

	listing := &domain.Listing{ID: 77, Title: "Plot 12", Slug: "plot-12"}
	recorder.Record(context.Background(), RecordInput{
		AffiliateID: 4,
		Listing:     ResolvedListing{Listing: listing},
		UserAgent:   uaAndroid,
	})

	visits := storage.Visits()
	require.Len(t, visits, 1)
	require.NotNil(t, visits[0].ListingID)
	assert.Equal(t, int64(77), *visits[0].ListingID)
}
