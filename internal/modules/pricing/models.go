// Package pricing implements commodity matching and price variation analysis
// for seller listings against an external market price feed.
package pricing

// Status classifies a listing price relative to the matched market price.
type Status string

const (
	// StatusOptimal - within 5% of the market price (inclusive).
	StatusOptimal Status = "optimal"
	// StatusTooHigh - more than 15% above the market price.
	StatusTooHigh Status = "too_high"
	// StatusTooLow - more than 15% below the market price.
	StatusTooLow Status = "too_low"
	// StatusVolatile - the buffer zone between 5% and 15% deviation,
	// in either direction.
	StatusVolatile Status = "volatile"
)

// MarketCommodity is a reference price record from the external feed.
// Transient: fetched fresh on every run, never persisted by this module.
type MarketCommodity struct {
	Name   string  `json:"name"`
	Symbol string  `json:"symbol,omitempty"`
	Price  float64 `json:"price"`
	Unit   string  `json:"unit,omitempty"`
}

// Analysis is the result of comparing a seller price against a market price.
// Fully determined by the two inputs; no rounding is applied here - the
// presentation layer decides how to round.
type Analysis struct {
	Status         Status  `json:"status"`
	Difference     float64 `json:"difference"` // userPrice - marketPrice
	Percentage     float64 `json:"percentage"` // difference / marketPrice * 100
	Recommendation string  `json:"recommendation"`
}
