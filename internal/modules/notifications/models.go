// Package notifications provides the notification store and user-facing API.
package notifications

import "time"

// Notification types.
const (
	TypePriceAlert = "price_alert"
)

// MarketData is the snapshot embedded in a price alert. Frozen at creation;
// never updated afterwards.
type MarketData struct {
	CommodityName  string  `json:"commodity_name"`
	MarketPrice    float64 `json:"market_price"`
	UserPrice      float64 `json:"user_price"`
	Difference     float64 `json:"difference"`
	Percentage     float64 `json:"percentage"`
	Status         string  `json:"status"`
	Recommendation string  `json:"recommendation"`
}

// Notification is a message delivered to a marketplace user.
type Notification struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	ListingID   string     `json:"listing_id"`
	ListingKind string     `json:"listing_kind"` // product | resource
	Type        string     `json:"type"`
	Message     string     `json:"message"`
	MarketData  MarketData `json:"market_data"`
	IsRead      bool       `json:"is_read"`
	CreatedAt   time.Time  `json:"created_at"`
}
