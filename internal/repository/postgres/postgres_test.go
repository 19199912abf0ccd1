package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"EstateRef-Backend/internal/domain"
	"EstateRef-Backend/internal/repository"
)

// setupStorage starts a disposable PostgreSQL container and migrates the
// schema. Requires Docker; skipped in short mode.
func setupStorage(t *testing.T) *PostgresStorage {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcpostgres.WithDatabase("estateref_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&domain.Affiliate{}, &domain.Listing{}, &domain.Visit{}, &domain.Lead{},
	))

	return New(db, zap.NewNop())
}

func TestPostgresStorage(t *testing.T) {
	storage := setupStorage(t)
	ctx := context.Background()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	window := day.AddDate(0, 0, 1)

	alice := &domain.Affiliate{
		Name: "Alice", Email: "alice@example.com", PasswordHash: "x",
		ReferralCode: "ALICE123", Status: domain.AffiliateStatusActive,
	}
	bob := &domain.Affiliate{
		Name: "Bob", Email: "bob@example.com", PasswordHash: "x",
		ReferralCode: "BOB00001", Status: domain.AffiliateStatusPending,
	}
	require.NoError(t, storage.CreateAffiliate(ctx, alice))
	require.NoError(t, storage.CreateAffiliate(ctx, bob))

	villa := &domain.Listing{Title: "Villa X", Slug: "villa-x", IsPublished: true}
	plot := &domain.Listing{Title: "Plot 12", Slug: "plot-12", IsPublished: true}
	draft := &domain.Listing{Title: "Draft", Slug: "draft", IsPublished: false}
	require.NoError(t, storage.CreateListing(ctx, villa))
	require.NoError(t, storage.CreateListing(ctx, plot))
	require.NoError(t, storage.CreateListing(ctx, draft))

	t.Run("duplicate email rejected", func(t *testing.T) {
		err := storage.CreateAffiliate(ctx, &domain.Affiliate{
			Name: "Clone", Email: "alice@example.com", PasswordHash: "x",
			ReferralCode: "CLONE001",
		})
		assert.ErrorIs(t, err, repository.ErrEmailExists)
	})

	t.Run("active code lookup filters status", func(t *testing.T) {
		got, err := storage.GetActiveAffiliateByCode(ctx, "ALICE123")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, got.ID)

		_, err = storage.GetActiveAffiliateByCode(ctx, "BOB00001")
		assert.ErrorIs(t, err, repository.ErrAffiliateNotFound, "pending affiliates must not match")
	})

	t.Run("referral code existence", func(t *testing.T) {
		exists, err := storage.ReferralCodeExists(ctx, "ALICE123")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = storage.ReferralCodeExists(ctx, "FRESH123")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("status update", func(t *testing.T) {
		require.NoError(t, storage.UpdateAffiliateStatus(ctx, bob.ID, domain.AffiliateStatusActive))
		got, err := storage.GetAffiliateByID(ctx, bob.ID)
		require.NoError(t, err)
		assert.True(t, got.IsActive())

		err = storage.UpdateAffiliateStatus(ctx, 9999, domain.AffiliateStatusActive)
		assert.ErrorIs(t, err, repository.ErrAffiliateNotFound)
	})

	t.Run("published catalog only", func(t *testing.T) {
		listings, err := storage.ListPublishedListings(ctx)
		require.NoError(t, err)
		assert.Len(t, listings, 2)

		_, err = storage.GetListingBySlug(ctx, "draft")
		assert.ErrorIs(t, err, repository.ErrListingNotFound, "unpublished listings are invisible")
	})

	// Seed events: 3 visits to villa and 1 to plot for alice, 1 visit for
	// bob, 2 leads for alice.
	villaID, plotID := villa.ID, plot.ID
	for i := 0; i < 3; i++ {
		require.NoError(t, storage.CreateVisit(ctx, &domain.Visit{
			AffiliateID: alice.ID, ListingID: &villaID,
			DeviceType: domain.DeviceMobile, Browser: "Safari",
			CreatedAt: day.Add(time.Duration(i) * time.Hour),
		}))
	}
	require.NoError(t, storage.CreateVisit(ctx, &domain.Visit{
		AffiliateID: alice.ID, ListingID: &plotID,
		DeviceType: domain.DeviceDesktop, Browser: "Chrome", CreatedAt: day,
	}))
	require.NoError(t, storage.CreateVisit(ctx, &domain.Visit{
		AffiliateID: bob.ID, DeviceType: domain.DeviceDesktop, Browser: "Firefox", CreatedAt: day,
	}))

	aliceID := alice.ID
	for i := 0; i < 2; i++ {
		require.NoError(t, storage.CreateLead(ctx, &domain.Lead{
			AffiliateID: &aliceID, ListingID: villa.ID,
			Name: "Visitor", Phone: "0712345678", Status: domain.LeadStatusNew,
			CreatedAt: day.Add(time.Duration(i) * time.Hour),
		}))
	}

	t.Run("counts respect scope and window", func(t *testing.T) {
		total, err := storage.CountVisits(ctx, 0, day, window)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)

		scoped, err := storage.CountVisits(ctx, alice.ID, day, window)
		require.NoError(t, err)
		assert.Equal(t, int64(4), scoped)

		outside, err := storage.CountVisits(ctx, 0, day.AddDate(0, 0, 7), day.AddDate(0, 0, 8))
		require.NoError(t, err)
		assert.Zero(t, outside)

		leads, err := storage.CountLeads(ctx, alice.ID, day, window)
		require.NoError(t, err)
		assert.Equal(t, int64(2), leads)
	})

	t.Run("device breakdown", func(t *testing.T) {
		byDevice, err := storage.VisitsByDevice(ctx, 0, day, window)
		require.NoError(t, err)
		assert.Equal(t, int64(3), byDevice[domain.DeviceMobile])
		assert.Equal(t, int64(2), byDevice[domain.DeviceDesktop])
	})

	t.Run("top listings", func(t *testing.T) {
		rows, err := storage.TopListingsByVisits(ctx, 0, day, window, 5)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "villa-x", rows[0].Slug)
		assert.Equal(t, int64(3), rows[0].VisitCount)
		assert.Equal(t, "plot-12", rows[1].Slug)
	})

	t.Run("top affiliates", func(t *testing.T) {
		rows, err := storage.TopAffiliatesByLeads(ctx, day, window, 10)
		require.NoError(t, err)
		require.Len(t, rows, 1, "affiliates without leads do not qualify")
		assert.Equal(t, alice.ID, rows[0].AffiliateID)
		assert.Equal(t, int64(2), rows[0].LeadCount)
		assert.Equal(t, int64(4), rows[0].VisitCount)
	})

	t.Run("active affiliates", func(t *testing.T) {
		active, err := storage.CountActiveAffiliates(ctx, day, window)
		require.NoError(t, err)
		assert.Equal(t, int64(2), active, "bob counts via his visit")
	})

	t.Run("lead status lifecycle", func(t *testing.T) {
		lead, err := storage.GetLeadByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, domain.LeadStatusNew, lead.Status)

		require.NoError(t, storage.UpdateLeadStatus(ctx, lead.ID, domain.LeadStatusFollowUp))
		got, err := storage.GetLeadByID(ctx, lead.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.LeadStatusFollowUp, got.Status)

		err = storage.UpdateLeadStatus(ctx, 9999, domain.LeadStatusClosed)
		assert.ErrorIs(t, err, repository.ErrLeadNotFound)
	})
}
