package entity

// Client is a customer identity record used for fiscal-note emission and
// receipt delivery. Its lifecycle is independent from checkout sessions.
type Client struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Document string `json:"document"` // CPF or CNPJ
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

// FiscalRecipient is the partial identity filled in during the fiscal-note
// sub-flow. Document and Name are required before transmission.
type FiscalRecipient struct {
	ClientID string `json:"client_id,omitempty"`
	Name     string `json:"name"`
	Document string `json:"document"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}
