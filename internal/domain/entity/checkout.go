package entity

import (
	"encoding/json"
	"fmt"

	"github.com/superpos/terminal-api/internal/domain/enum"
)

// PaymentEntry is one completed partial payment. Immutable once appended to a
// session. Method and the card sub-details are the structured source of truth;
// Label is derived for display and receipts only.
type PaymentEntry struct {
	Method       enum.PaymentMethod `json:"method"`
	AmountCents  int64              `json:"-"`
	CardType     *enum.CardType     `json:"card_type,omitempty"`
	TerminalID   string             `json:"terminal_id,omitempty"`
	TerminalName string             `json:"terminal_name,omitempty"`
}

// Label renders the human-readable payment description shown on receipts and
// in the sales history, e.g. "Cartão (credit) - Moderninha Pro 2 - Balcão".
func (e PaymentEntry) Label() string {
	if e.Method != enum.MethodCard {
		return e.Method.Label()
	}
	name := e.TerminalName
	if name == "" {
		name = "Offline"
	}
	modality := ""
	if e.CardType != nil {
		modality = e.CardType.String()
	}
	return fmt.Sprintf("%s (%s) - %s", e.Method.Label(), modality, name)
}

// MarshalJSON adds the decimal amount and derived label for API responses.
func (e PaymentEntry) MarshalJSON() ([]byte, error) {
	type Alias PaymentEntry
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
		Label  string  `json:"label"`
	}{
		Alias:  Alias(e),
		Amount: float64(e.AmountCents) / 100,
		Label:  e.Label(),
	})
}

// CheckoutSession is the payment ledger for one checkout: the total due
// snapshot taken at initiation, the completed partial payments, and the
// remaining balance. Created at checkout initiation, destroyed on sale commit
// reset, abandonment reset, or countdown expiry.
type CheckoutSession struct {
	TotalDueCents  int64
	Payments       []PaymentEntry
	RemainingCents int64
}

// NewCheckoutSession creates a ledger with the full amount outstanding.
func NewCheckoutSession(totalCents int64) *CheckoutSession {
	return &CheckoutSession{
		TotalDueCents:  totalCents,
		RemainingCents: totalCents,
	}
}

// Record appends a completed payment and recomputes the remaining balance.
// It returns true when the session is fully settled. Validation of the amount
// happens in the caller before the entry is built; Record never rejects.
func (s *CheckoutSession) Record(entry PaymentEntry) bool {
	s.Payments = append(s.Payments, entry)
	s.RemainingCents -= entry.AmountCents
	if s.RemainingCents < 0 {
		s.RemainingCents = 0
	}
	return s.RemainingCents == 0
}

// PaidCents returns the sum of all completed payments.
func (s *CheckoutSession) PaidCents() int64 {
	var total int64
	for _, p := range s.Payments {
		total += p.AmountCents
	}
	return total
}
