package entity

// CardTerminal is a card machine the operator can route an authorization to.
type CardTerminal struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"` // "online" or "offline"
}
