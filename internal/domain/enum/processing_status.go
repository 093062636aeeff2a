package enum

import "encoding/json"

// ProcessingStatus tracks the simulated progress of an asynchronous payment
// sub-flow (card authorization, Pix confirmation).
type ProcessingStatus int

const (
	ProcessingNone ProcessingStatus = iota
	ProcessingLoading
	ProcessingSuccess
)

func (s ProcessingStatus) String() string {
	return [...]string{"none", "loading", "success"}[s]
}

func (s ProcessingStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}
