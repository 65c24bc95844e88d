package scheduler

import (
	"context"
	"time"

	"github.com/eyaachaabene/agrimarket/internal/modules/listings"
	"github.com/eyaachaabene/agrimarket/internal/modules/notifications"
	"github.com/eyaachaabene/agrimarket/internal/modules/pricing"
	"github.com/eyaachaabene/agrimarket/internal/modules/users"
)

// FeedClient defines the contract for market price fetching.
// Used by the price alert job to enable testing with fakes.
type FeedClient interface {
	Fetch(ctx context.Context) ([]pricing.MarketCommodity, error)
}

// SellerSource defines the contract for loading sellers.
type SellerSource interface {
	GetActiveSellers() ([]users.User, error)
}

// ProductSource defines the contract for loading farmer listings.
type ProductSource interface {
	GetActiveByFarmer(farmerID string) ([]listings.Product, error)
}

// ResourceSource defines the contract for loading supplier listings.
type ResourceSource interface {
	GetActiveBySupplier(supplierID string) ([]listings.Resource, error)
}

// AlertSink defines the contract for writing dedup-guarded notifications.
type AlertSink interface {
	InsertIfAbsent(n notifications.Notification, window time.Duration) (bool, error)
}
