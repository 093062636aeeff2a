package request

// SelectMethodRequest picks the payment method for the next partial payment.
type SelectMethodRequest struct {
	Method string `json:"method" binding:"required"`
}

// ConfirmAmountRequest confirms the amount of the pending payment. Range
// validation happens in the service so a zero amount gets a field error, not a
// generic bind failure.
type ConfirmAmountRequest struct {
	Amount float64 `json:"amount"`
}

// SelectCardTypeRequest picks the card modality.
type SelectCardTypeRequest struct {
	CardType string `json:"card_type" binding:"required"`
}

// SelectTerminalRequest routes the card authorization to a machine.
type SelectTerminalRequest struct {
	TerminalID string `json:"terminal_id" binding:"required"`
}

// AbandonRequest cancels the sale behind the manager passcode gate.
type AbandonRequest struct {
	Passcode string `json:"passcode" binding:"required"`
}

// FiscalClientRequest selects an existing client as the fiscal recipient.
type FiscalClientRequest struct {
	ClientID string `json:"client_id" binding:"required"`
}

// FiscalTransmitRequest carries the recipient fields typed in at transmission.
type FiscalTransmitRequest struct {
	Document string `json:"document"`
	Name     string `json:"name"`
}

// StartContactRequest opens the contact sub-flow for a delivery channel.
type StartContactRequest struct {
	ContactType string `json:"contact_type" binding:"required"`
}

// SendContactRequest dispatches the receipt to a destination.
type SendContactRequest struct {
	Value string `json:"value" binding:"required"`
}
