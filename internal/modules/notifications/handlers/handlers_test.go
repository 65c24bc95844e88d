package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eyaachaabene/agrimarket/internal/modules/notifications"
	"github.com/eyaachaabene/agrimarket/internal/testhelpers"
)

func setup(t *testing.T) (*chi.Mux, *notifications.Repository, func()) {
	t.Helper()

	db, cleanup := testhelpers.NewTestDB(t, "marketplace")
	repo := notifications.NewRepository(db.Conn(), zerolog.Nop())

	h := NewHandler(repo, zerolog.Nop())
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		h.RegisterRoutes(r)
	})

	return r, repo, cleanup
}

func seedAlert(t *testing.T, repo *notifications.Repository, userID string) notifications.Notification {
	t.Helper()
	created, err := repo.InsertIfAbsent(notifications.Notification{
		UserID:      userID,
		ListingID:   "listing-1",
		ListingKind: "product",
		Type:        notifications.TypePriceAlert,
		Message:     "Price alert",
	}, 24*time.Hour)
	require.NoError(t, err)
	require.True(t, created)

	list, err := repo.ListForUser(userID, false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	return list[0]
}

func TestHandleList(t *testing.T) {
	router, repo, cleanup := setup(t)
	defer cleanup()

	seedAlert(t, repo, "user-1")

	req := httptest.NewRequest(http.MethodGet, "/api/notifications/", nil)
	req.Header.Set("X-User-Id", "user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Notifications []notifications.Notification `json:"notifications"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Notifications, 1)
	assert.Equal(t, notifications.TypePriceAlert, body.Notifications[0].Type)

	// Another user sees nothing.
	req = httptest.NewRequest(http.MethodGet, "/api/notifications/", nil)
	req.Header.Set("X-User-Id", "user-2")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Notifications)
}

func TestHandleList_RequiresIdentity(t *testing.T) {
	router, _, cleanup := setup(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/api/notifications/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleMarkReadAndDelete(t *testing.T) {
	router, repo, cleanup := setup(t)
	defer cleanup()

	n := seedAlert(t, repo, "user-1")

	req := httptest.NewRequest(http.MethodPatch, "/api/notifications/"+n.ID+"/read", nil)
	req.Header.Set("X-User-Id", "user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	unread, err := repo.ListForUser("user-1", true)
	require.NoError(t, err)
	assert.Empty(t, unread)

	// Deleting someone else's notification is a 404, not a leak.
	req = httptest.NewRequest(http.MethodDelete, "/api/notifications/"+n.ID, nil)
	req.Header.Set("X-User-Id", "user-2")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/notifications/"+n.ID, nil)
	req.Header.Set("X-User-Id", "user-1")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
