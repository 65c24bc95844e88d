package notifications_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eyaachaabene/agrimarket/internal/modules/notifications"
	"github.com/eyaachaabene/agrimarket/internal/testhelpers"
)

func newAlert(userID, listingID string) notifications.Notification {
	return notifications.Notification{
		UserID:      userID,
		ListingID:   listingID,
		ListingKind: "product",
		Type:        notifications.TypePriceAlert,
		Message:     "Price alert for Organic Tomatoes",
		MarketData: notifications.MarketData{
			CommodityName:  "Tomato",
			MarketPrice:    125.30,
			UserPrice:      150,
			Difference:     24.70,
			Percentage:     19.7,
			Status:         "too_high",
			Recommendation: "consider lowering your price",
		},
	}
}

func TestInsertIfAbsent_DedupWindow(t *testing.T) {
	db, cleanup := testhelpers.NewTestDB(t, "marketplace")
	defer cleanup()

	repo := notifications.NewRepository(db.Conn(), zerolog.Nop())
	window := 24 * time.Hour

	// First insert goes through.
	created, err := repo.InsertIfAbsent(newAlert("user-1", "listing-1"), window)
	require.NoError(t, err)
	assert.True(t, created)

	// Immediate re-run is suppressed.
	created, err = repo.InsertIfAbsent(newAlert("user-1", "listing-1"), window)
	require.NoError(t, err)
	assert.False(t, created)

	// A different listing of the same user is not suppressed.
	created, err = repo.InsertIfAbsent(newAlert("user-1", "listing-2"), window)
	require.NoError(t, err)
	assert.True(t, created)

	// Same listing id under a different owner is not suppressed either.
	created, err = repo.InsertIfAbsent(newAlert("user-2", "listing-1"), window)
	require.NoError(t, err)
	assert.True(t, created)
}

func TestInsertIfAbsent_RollingWindowBoundaries(t *testing.T) {
	db, cleanup := testhelpers.NewTestDB(t, "marketplace")
	defer cleanup()

	repo := notifications.NewRepository(db.Conn(), zerolog.Nop())
	window := 24 * time.Hour

	// An alert created 23 hours ago still blocks a new one.
	stale := newAlert("user-1", "listing-1")
	stale.CreatedAt = time.Now().Add(-23 * time.Hour)
	created, err := repo.InsertIfAbsent(stale, window)
	require.NoError(t, err)
	require.True(t, created)

	created, err = repo.InsertIfAbsent(newAlert("user-1", "listing-1"), window)
	require.NoError(t, err)
	assert.False(t, created, "23h-old alert is inside the rolling window")

	// An alert created 25 hours ago does not.
	old := newAlert("user-2", "listing-9")
	old.CreatedAt = time.Now().Add(-25 * time.Hour)
	created, err = repo.InsertIfAbsent(old, window)
	require.NoError(t, err)
	require.True(t, created)

	created, err = repo.InsertIfAbsent(newAlert("user-2", "listing-9"), window)
	require.NoError(t, err)
	assert.True(t, created, "25h-old alert is outside the rolling window")
}

func TestInsertIfAbsent_ConcurrentRuns(t *testing.T) {
	db, cleanup := testhelpers.NewTestDB(t, "marketplace")
	defer cleanup()

	repo := notifications.NewRepository(db.Conn(), zerolog.Nop())
	window := 24 * time.Hour

	// Two overlapping runs racing on the same (owner, listing) pair: the
	// conditional insert is a single statement, so exactly one wins.
	results := make(chan bool, 2)
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			created, err := repo.InsertIfAbsent(newAlert("user-1", "listing-1"), window)
			results <- created
			errs <- err
		}()
	}

	createdCount := 0
	for i := 0; i < 2; i++ {
		require.NoError(t, <-errs)
		if <-results {
			createdCount++
		}
	}

	assert.Equal(t, 1, createdCount)

	count, err := repo.CountRecent("user-1", "listing-1", notifications.TypePriceAlert, window)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNotificationLifecycle(t *testing.T) {
	db, cleanup := testhelpers.NewTestDB(t, "marketplace")
	defer cleanup()

	repo := notifications.NewRepository(db.Conn(), zerolog.Nop())
	window := 24 * time.Hour

	created, err := repo.InsertIfAbsent(newAlert("user-1", "listing-1"), window)
	require.NoError(t, err)
	require.True(t, created)

	list, err := repo.ListForUser("user-1", false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].IsRead)
	assert.Equal(t, "Tomato", list[0].MarketData.CommodityName)
	assert.InDelta(t, 125.30, list[0].MarketData.MarketPrice, 1e-9)

	// Mark read, then the unread filter hides it.
	ok, err := repo.MarkRead("user-1", list[0].ID)
	require.NoError(t, err)
	assert.True(t, ok)

	unread, err := repo.ListForUser("user-1", true)
	require.NoError(t, err)
	assert.Empty(t, unread)

	// A user cannot touch another user's notification.
	ok, err = repo.Delete("user-2", list[0].ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Delete("user-1", list[0].ID)
	require.NoError(t, err)
	assert.True(t, ok)

	list, err = repo.ListForUser("user-1", false)
	require.NoError(t, err)
	assert.Empty(t, list)
}
