package entity

import (
	"encoding/json"
	"time"
)

// SaleRecord is the immutable record of a committed sale. Appended to the
// sales log at settlement; never mutated or deleted afterwards.
type SaleRecord struct {
	ID            string         `json:"id"`
	Timestamp     time.Time      `json:"timestamp"`
	Items         []CartLine     `json:"items"`
	TotalCents    int64          `json:"-"`
	Payments      []PaymentEntry `json:"payments"`
	PrimaryMethod string         `json:"payment_method"`
}

// MarshalJSON adds the decimal total for API responses.
func (r SaleRecord) MarshalJSON() ([]byte, error) {
	type Alias SaleRecord
	return json.Marshal(&struct {
		Alias
		Total float64 `json:"total"`
	}{
		Alias: Alias(r),
		Total: float64(r.TotalCents) / 100,
	})
}
