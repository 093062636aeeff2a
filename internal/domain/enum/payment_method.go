package enum

import (
	"encoding/json"
	"fmt"
)

// PaymentMethod is the structured payment method type. Display labels are
// derived from it; report bucketing and flow routing always use the enum,
// never the label string.
type PaymentMethod int

const (
	MethodCash PaymentMethod = iota
	MethodCard
	MethodPix
)

func (m PaymentMethod) String() string {
	return [...]string{"cash", "card", "pix"}[m]
}

// Label returns the customer-facing name used on receipts and reports.
func (m PaymentMethod) Label() string {
	return [...]string{"Dinheiro", "Cartão", "Pix"}[m]
}

func (m PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParsePaymentMethod(str)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParsePaymentMethod converts a wire value into a PaymentMethod.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch s {
	case "cash":
		return MethodCash, nil
	case "card":
		return MethodCard, nil
	case "pix":
		return MethodPix, nil
	}
	return 0, fmt.Errorf("unknown payment method %q", s)
}
