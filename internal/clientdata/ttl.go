package clientdata

import "time"

// TTL constants for different data types.
// These are added to time.Now() when storing to calculate expires_at.
const (
	// TTLMarketFeed - commodity reference prices move slowly enough that an
	// hour-old snapshot is still useful for on-demand comparisons. The
	// scheduled analysis run never reads from cache.
	TTLMarketFeed = time.Hour
)
