package scheduler_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eyaachaabene/agrimarket/internal/modules/listings"
	"github.com/eyaachaabene/agrimarket/internal/modules/notifications"
	"github.com/eyaachaabene/agrimarket/internal/modules/pricing"
	"github.com/eyaachaabene/agrimarket/internal/modules/users"
	"github.com/eyaachaabene/agrimarket/internal/scheduler"
	"github.com/eyaachaabene/agrimarket/internal/testhelpers"
)

// fakeFeed returns a fixed commodity list or an error.
type fakeFeed struct {
	commodities []pricing.MarketCommodity
	err         error
	calls       int
}

func (f *fakeFeed) Fetch(ctx context.Context) ([]pricing.MarketCommodity, error) {
	f.calls++
	return f.commodities, f.err
}

type fixture struct {
	job       *scheduler.PriceAlertJob
	feed      *fakeFeed
	userRepo  *users.Repository
	prodRepo  *listings.ProductRepository
	resRepo   *listings.ResourceRepository
	notifRepo *notifications.Repository
	cleanup   func()
}

func newFixture(t *testing.T, feed *fakeFeed) fixture {
	t.Helper()

	db, cleanup := testhelpers.NewTestDB(t, "marketplace")
	log := zerolog.Nop()

	userRepo := users.NewRepository(db.Conn(), log)
	prodRepo := listings.NewProductRepository(db.Conn(), log)
	resRepo := listings.NewResourceRepository(db.Conn(), log)
	notifRepo := notifications.NewRepository(db.Conn(), log)

	job := scheduler.NewPriceAlertJob(
		feed,
		userRepo,
		prodRepo,
		resRepo,
		notifRepo,
		pricing.NewMatcher(pricing.DefaultAliasTable()),
		24*time.Hour,
	)

	return fixture{
		job:       job,
		feed:      feed,
		userRepo:  userRepo,
		prodRepo:  prodRepo,
		resRepo:   resRepo,
		notifRepo: notifRepo,
		cleanup:   cleanup,
	}
}

func TestPriceAlertJob_EndToEnd(t *testing.T) {
	feed := &fakeFeed{commodities: []pricing.MarketCommodity{
		{Name: "Tomato", Price: 125.30},
	}}
	fx := newFixture(t, feed)
	defer fx.cleanup()

	require.NoError(t, fx.userRepo.Create(users.User{
		ID: "farmer-1", Email: "f@example.tn", Role: users.RoleFarmer, IsActive: true,
	}))
	require.NoError(t, fx.prodRepo.Create(listings.Product{
		ID: "prod-1", FarmerID: "farmer-1", Name: "Organic Tomatoes", Price: 150, IsActive: true,
	}))

	summary, err := fx.job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.UsersAnalyzed)
	assert.Equal(t, 1, summary.NotificationsSent)
	assert.Equal(t, 1, feed.calls, "feed is fetched once per run, not per listing")

	list, err := fx.notifRepo.ListForUser("farmer-1", false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, notifications.TypePriceAlert, list[0].Type)
	assert.Equal(t, "too_high", list[0].MarketData.Status)
	assert.InDelta(t, 24.70, list[0].MarketData.Difference, 1e-9)
	assert.InDelta(t, 19.71, list[0].MarketData.Percentage, 0.01)

	// Immediate re-run: dedup window suppresses the second alert.
	summary, err = fx.job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.UsersAnalyzed)
	assert.Equal(t, 0, summary.NotificationsSent)
}

func TestPriceAlertJob_OptimalPriceNoAlert(t *testing.T) {
	feed := &fakeFeed{commodities: []pricing.MarketCommodity{
		{Name: "Tomato", Price: 100},
	}}
	fx := newFixture(t, feed)
	defer fx.cleanup()

	require.NoError(t, fx.userRepo.Create(users.User{
		ID: "farmer-1", Email: "f@example.tn", Role: users.RoleFarmer, IsActive: true,
	}))
	require.NoError(t, fx.prodRepo.Create(listings.Product{
		ID: "prod-1", FarmerID: "farmer-1", Name: "Tomates", Price: 103, IsActive: true,
	}))

	summary, err := fx.job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.NotificationsSent)
}

func TestPriceAlertJob_FeedFailureAbortsRun(t *testing.T) {
	feed := &fakeFeed{err: errors.New("feed unreachable")}
	fx := newFixture(t, feed)
	defer fx.cleanup()

	require.NoError(t, fx.userRepo.Create(users.User{
		ID: "farmer-1", Email: "f@example.tn", Role: users.RoleFarmer, IsActive: true,
	}))

	_, err := fx.job.Run(context.Background())
	require.Error(t, err)

	// No partial credit: nothing is written on an aborted run.
	list, listErr := fx.notifRepo.ListForUser("farmer-1", false)
	require.NoError(t, listErr)
	assert.Empty(t, list)
}

func TestPriceAlertJob_ResourcePriceFromDocument(t *testing.T) {
	feed := &fakeFeed{commodities: []pricing.MarketCommodity{
		{Name: "Fertilizer NPK", Price: 100},
	}}
	fx := newFixture(t, feed)
	defer fx.cleanup()

	require.NoError(t, fx.userRepo.Create(users.User{
		ID: "supplier-1", Email: "s@example.tn", Role: users.RoleSupplier, IsActive: true,
	}))
	require.NoError(t, fx.resRepo.Create(listings.Resource{
		ID: "res-1", SupplierID: "supplier-1", Name: "Engrais Premium",
		Pricing:  json.RawMessage(`{"price": 130, "unit": "bag", "currency": "TND"}`),
		IsActive: true,
	}))

	summary, err := fx.job.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, summary.NotificationsSent)

	list, err := fx.notifRepo.ListForUser("supplier-1", false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, listings.KindResource, list[0].ListingKind)
	// 130 vs 100: scored from the nested pricing.price, not a column.
	assert.InDelta(t, 30.0, list[0].MarketData.Percentage, 1e-9)
}

func TestPriceAlertJob_MalformedListingDoesNotAbortRun(t *testing.T) {
	feed := &fakeFeed{commodities: []pricing.MarketCommodity{
		{Name: "Fertilizer", Price: 100},
	}}
	fx := newFixture(t, feed)
	defer fx.cleanup()

	require.NoError(t, fx.userRepo.Create(users.User{
		ID: "supplier-1", Email: "s@example.tn", Role: users.RoleSupplier, IsActive: true,
	}))
	// Malformed pricing document, created first.
	require.NoError(t, fx.resRepo.Create(listings.Resource{
		ID: "res-bad", SupplierID: "supplier-1", Name: "Engrais Cassé",
		Pricing:   json.RawMessage(`{"price": "oops"}`),
		IsActive:  true,
		CreatedAt: time.Now().Add(-time.Minute),
	}))
	require.NoError(t, fx.resRepo.Create(listings.Resource{
		ID: "res-good", SupplierID: "supplier-1", Name: "Engrais Standard",
		Pricing:  json.RawMessage(`{"price": 130}`),
		IsActive: true,
	}))

	summary, err := fx.job.Run(context.Background())
	require.NoError(t, err, "one bad listing must not abort the batch")
	assert.Equal(t, 1, summary.NotificationsSent)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, "res-bad", summary.Failures[0].ListingID)
}

func TestPriceAlertJob_NoMatchSkipsSilently(t *testing.T) {
	feed := &fakeFeed{commodities: []pricing.MarketCommodity{
		{Name: "Wheat", Price: 1.0},
	}}
	fx := newFixture(t, feed)
	defer fx.cleanup()

	require.NoError(t, fx.userRepo.Create(users.User{
		ID: "farmer-1", Email: "f@example.tn", Role: users.RoleFarmer, IsActive: true,
	}))
	require.NoError(t, fx.prodRepo.Create(listings.Product{
		ID: "prod-1", FarmerID: "farmer-1", Name: "Quantum Widget", Price: 99, IsActive: true,
	}))

	summary, err := fx.job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.UsersAnalyzed)
	assert.Equal(t, 0, summary.NotificationsSent)
	assert.Empty(t, summary.Failures)
}
