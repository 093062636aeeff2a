package entity

import "encoding/json"

// CartLine is a product plus the quantity being purchased. The product is a
// snapshot taken when the line was added; catalog price changes do not affect
// an open cart.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// TotalCents returns unit price times quantity.
func (l CartLine) TotalCents() int64 {
	return l.Product.PriceCents * int64(l.Quantity)
}

// MarshalJSON adds the decimal line total for API responses.
func (l CartLine) MarshalJSON() ([]byte, error) {
	type Alias CartLine
	return json.Marshal(&struct {
		Alias
		LineTotal float64 `json:"line_total"`
	}{
		Alias:     Alias(l),
		LineTotal: float64(l.TotalCents()) / 100,
	})
}
