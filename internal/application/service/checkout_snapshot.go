package service

import (
	"github.com/superpos/terminal-api/internal/domain/entity"
	"github.com/superpos/terminal-api/internal/domain/enum"
)

// PendingPaymentView is the client-facing projection of the in-flight sub-flow.
type PendingPaymentView struct {
	Method       enum.PaymentMethod    `json:"method"`
	Amount       float64               `json:"amount"`
	CardType     *enum.CardType        `json:"card_type,omitempty"`
	TerminalID   string                `json:"terminal_id,omitempty"`
	TerminalName string                `json:"terminal_name,omitempty"`
	Status       enum.ProcessingStatus `json:"status"`
}

// FiscalView mirrors the fiscal-note sub-flow state.
type FiscalView struct {
	Recipient  entity.FiscalRecipient `json:"recipient"`
	Generating bool                   `json:"generating"`
	Finished   bool                   `json:"finished"`
	AccessKey  string                 `json:"access_key,omitempty"`
}

// CheckoutSnapshot is the full observable state of the checkout machine,
// returned by every operation so the client never needs a second round trip.
type CheckoutSnapshot struct {
	Step      enum.CheckoutStep     `json:"step"`
	Total     float64               `json:"total"`
	Paid      float64               `json:"paid"`
	Remaining float64               `json:"remaining"`
	Payments  []entity.PaymentEntry `json:"payments"`

	Pending *PendingPaymentView `json:"pending,omitempty"`

	Countdown       int  `json:"countdown,omitempty"`
	CountdownPaused bool `json:"countdown_paused,omitempty"`

	AbandonError bool `json:"abandon_error,omitempty"`

	Fiscal  *FiscalView       `json:"fiscal,omitempty"`
	Contact *enum.ContactType `json:"contact,omitempty"`

	Sale *entity.SaleRecord `json:"sale,omitempty"`
}

func (s *CheckoutService) snapshotLocked() *CheckoutSnapshot {
	sess := s.sess
	snap := &CheckoutSnapshot{
		Step:            sess.step,
		Total:           centsToDecimal(sess.ledger.TotalDueCents),
		Paid:            centsToDecimal(sess.ledger.PaidCents()),
		Remaining:       centsToDecimal(sess.ledger.RemainingCents),
		Payments:        append([]entity.PaymentEntry(nil), sess.ledger.Payments...),
		Countdown:       sess.countdown,
		CountdownPaused: sess.countdownPaused,
		AbandonError:    sess.abandonError,
		Contact:         sess.contact,
		Sale:            sess.sale,
	}

	if p := sess.pending; p != nil {
		view := &PendingPaymentView{
			Method:   p.Method,
			Amount:   centsToDecimal(p.AmountCents),
			CardType: p.CardType,
			Status:   p.Status,
		}
		if p.Terminal != nil {
			view.TerminalID = p.Terminal.ID
			view.TerminalName = p.Terminal.Name
		}
		snap.Pending = view
	}

	if sess.step == enum.StepFiscalNote || sess.fiscal.Finished {
		f := sess.fiscal
		snap.Fiscal = &FiscalView{
			Recipient:  f.Recipient,
			Generating: f.Generating,
			Finished:   f.Finished,
			AccessKey:  f.AccessKey,
		}
	}
	return snap
}

func centsToDecimal(cents int64) float64 {
	return float64(cents) / 100
}
