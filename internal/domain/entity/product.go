package entity

import "encoding/json"

// Product represents a catalog item. Prices are stored in cents; the decimal
// form only exists at the JSON boundary.
type Product struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"-"`
	Category   string `json:"category"`
	Barcode    string `json:"barcode"`
	ImageURL   string `json:"image_url,omitempty"`
	Stock      int    `json:"stock"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (p Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	return json.Marshal(&struct {
		Alias
		Price float64 `json:"price"`
	}{
		Alias: Alias(p),
		Price: float64(p.PriceCents) / 100,
	})
}

// GetPriceDecimal returns the unit price as a decimal (for display)
func (p *Product) GetPriceDecimal() float64 {
	return float64(p.PriceCents) / 100
}
