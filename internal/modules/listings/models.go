// Package listings provides access to seller listings. The two listing kinds
// genuinely differ in shape: a farmer's product carries its price as a plain
// column, while a supplier's resource stores pricing as a nested JSON
// document. That asymmetry is preserved here rather than unified away.
package listings

import (
	"encoding/json"
	"fmt"
	"time"
)

// Listing kinds.
const (
	KindProduct  = "product"
	KindResource = "resource"
)

// Product is a farmer listing. Price is read from the top-level column.
type Product struct {
	ID        string    `json:"id"`
	FarmerID  string    `json:"farmer_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Unit      string    `json:"unit"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Resource is a supplier listing. Pricing is a raw JSON document; the price
// lives at pricing.price and is extracted lazily so a malformed document
// surfaces as a per-listing error instead of a scan failure.
type Resource struct {
	ID         string          `json:"id"`
	SupplierID string          `json:"supplier_id"`
	Name       string          `json:"name"`
	Pricing    json.RawMessage `json:"pricing"`
	IsActive   bool            `json:"is_active"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ResourcePricing is the decoded pricing document of a resource.
type ResourcePricing struct {
	Price    float64 `json:"price"`
	Unit     string  `json:"unit,omitempty"`
	Currency string  `json:"currency,omitempty"`
}

// Price extracts the nested price from the pricing document.
func (res Resource) Price() (float64, error) {
	if len(res.Pricing) == 0 {
		return 0, fmt.Errorf("resource %s has no pricing document", res.ID)
	}

	var pricing ResourcePricing
	if err := json.Unmarshal(res.Pricing, &pricing); err != nil {
		return 0, fmt.Errorf("resource %s has malformed pricing document: %w", res.ID, err)
	}

	return pricing.Price, nil
}
