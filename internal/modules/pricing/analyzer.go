package pricing

import "math"

// Recommendation messages per status.
const (
	recommendationOptimal  = "Your price is competitive and well-aligned with the market."
	recommendationTooHigh  = "Your price is well above the market rate; consider lowering it to stay competitive."
	recommendationTooLow   = "You might be undervaluing your listing; consider increasing the price."
	recommendationVolatile = "Prices are fluctuating in this range; monitor market trends before adjusting."
)

// Analyze compares a seller price against the matched market price.
// marketPrice must be strictly positive - callers skip listings where no
// market price was resolved, so this is never called with zero.
//
// Boundaries: |pct| <= 5 is optimal (inclusive), pct > 15 / pct < -15 are
// the extreme buckets (strict), and everything between falls into the
// volatile buffer zone.
func Analyze(userPrice, marketPrice float64) Analysis {
	difference := userPrice - marketPrice
	percentage := (difference / marketPrice) * 100

	var status Status
	var recommendation string

	switch {
	case math.Abs(percentage) <= 5:
		status = StatusOptimal
		recommendation = recommendationOptimal
	case percentage > 15:
		status = StatusTooHigh
		recommendation = recommendationTooHigh
	case percentage < -15:
		status = StatusTooLow
		recommendation = recommendationTooLow
	default:
		status = StatusVolatile
		recommendation = recommendationVolatile
	}

	return Analysis{
		Status:         status,
		Difference:     difference,
		Percentage:     percentage,
		Recommendation: recommendation,
	}
}
