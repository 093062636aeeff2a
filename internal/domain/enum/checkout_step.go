package enum

import "encoding/json"

// CheckoutStep represents the active step of the checkout state machine.
// The absence of a checkout is modeled by a nil session, never by a step value.
type CheckoutStep int

const (
	StepSelectMethod CheckoutStep = iota
	StepSetAmount
	StepCardType
	StepCardMachine
	StepProcessing
	StepPixQR
	StepOfflineTerminal
	StepSaleComplete
	StepSaleCancelled
	StepFiscalNote
	StepContactInput
)

var checkoutStepNames = [...]string{
	"SELECT_METHOD",
	"SET_AMOUNT",
	"CARD_TYPE",
	"CARD_MACHINE",
	"PROCESSING",
	"PIX_QR",
	"OFFLINE_TERMINAL",
	"SALE_COMPLETE",
	"SALE_CANCELLED",
	"FISCAL_NOTE",
	"CONTACT_INPUT",
}

func (s CheckoutStep) String() string {
	if s < 0 || int(s) >= len(checkoutStepNames) {
		return "UNKNOWN"
	}
	return checkoutStepNames[s]
}

func (s CheckoutStep) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// IsTerminal reports whether the step is one of the two post-checkout states
// that run the auto-reset countdown.
func (s CheckoutStep) IsTerminal() bool {
	return s == StepSaleComplete || s == StepSaleCancelled
}
