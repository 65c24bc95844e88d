package notifications

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Repository handles notification database operations.
// Database: marketplace.db (notifications table)
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new notification repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "notifications").Logger(),
	}
}

// InsertIfAbsent inserts a notification unless one with the same
// (user, listing, type) exists inside the rolling window. The check and the
// insert run as a single statement, so two overlapping analysis runs cannot
// both slip past the window check.
// Returns true if the notification was created.
func (r *Repository) InsertIfAbsent(n Notification, window time.Duration) (bool, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	marketData, err := json.Marshal(n.MarketData)
	if err != nil {
		return false, fmt.Errorf("failed to marshal market data snapshot: %w", err)
	}

	cutoff := n.CreatedAt.Add(-window).Unix()

	query := `
		INSERT INTO notifications (id, user_id, listing_id, listing_kind, type, message, market_data, is_read, created_at)
		SELECT ?, ?, ?, ?, ?, ?, ?, 0, ?
		WHERE NOT EXISTS (
			SELECT 1 FROM notifications
			WHERE user_id = ? AND listing_id = ? AND type = ? AND created_at >= ?
		)`

	result, err := r.db.Exec(query,
		n.ID, n.UserID, n.ListingID, n.ListingKind, n.Type, n.Message, string(marketData), n.CreatedAt.Unix(),
		n.UserID, n.ListingID, n.Type, cutoff,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert notification: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return inserted > 0, nil
}

// ListForUser returns a user's notifications, newest first.
// When unreadOnly is set, read notifications are filtered out.
func (r *Repository) ListForUser(userID string, unreadOnly bool) ([]Notification, error) {
	query := `
		SELECT id, user_id, listing_id, listing_kind, type, message, market_data, is_read, created_at
		FROM notifications
		WHERE user_id = ?`
	if unreadOnly {
		query += " AND is_read = 0"
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications for user %s: %w", userID, err)
	}
	defer rows.Close()

	var result []Notification
	for rows.Next() {
		var n Notification
		var marketData string
		var createdAtUnix int64
		var isRead int

		if err := rows.Scan(&n.ID, &n.UserID, &n.ListingID, &n.ListingKind, &n.Type,
			&n.Message, &marketData, &isRead, &createdAtUnix); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}

		if err := json.Unmarshal([]byte(marketData), &n.MarketData); err != nil {
			// A damaged snapshot should not hide the notification itself.
			r.log.Warn().Err(err).Str("notification_id", n.ID).Msg("Malformed market data snapshot")
		}
		n.IsRead = isRead != 0
		n.CreatedAt = time.Unix(createdAtUnix, 0).UTC()
		result = append(result, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}

	return result, nil
}

// MarkRead sets the read flag. Returns false if no such notification exists
// for the user.
func (r *Repository) MarkRead(userID, notificationID string) (bool, error) {
	result, err := r.db.Exec(
		"UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ?",
		notificationID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark notification %s read: %w", notificationID, err)
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return updated > 0, nil
}

// Delete removes a notification. Returns false if no such notification
// exists for the user.
func (r *Repository) Delete(userID, notificationID string) (bool, error) {
	result, err := r.db.Exec(
		"DELETE FROM notifications WHERE id = ? AND user_id = ?",
		notificationID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete notification %s: %w", notificationID, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return deleted > 0, nil
}

// CountRecent returns how many notifications match (user, listing, type)
// inside the window. Used by tests and diagnostics.
func (r *Repository) CountRecent(userID, listingID, notifType string, window time.Duration) (int, error) {
	cutoff := time.Now().Add(-window).Unix()

	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM notifications
		WHERE user_id = ? AND listing_id = ? AND type = ? AND created_at >= ?`,
		userID, listingID, notifType, cutoff,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count recent notifications: %w", err)
	}

	return count, nil
}
