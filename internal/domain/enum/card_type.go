package enum

import (
	"encoding/json"
	"fmt"
)

// CardType is the card modality chosen during the card sub-flow.
type CardType int

const (
	CardCredit CardType = iota
	CardDebit
	CardVoucher
)

func (t CardType) String() string {
	return [...]string{"credit", "debit", "voucher"}[t]
}

func (t CardType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *CardType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseCardType(str)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseCardType converts a wire value into a CardType.
func ParseCardType(s string) (CardType, error) {
	switch s {
	case "credit":
		return CardCredit, nil
	case "debit":
		return CardDebit, nil
	case "voucher":
		return CardVoucher, nil
	}
	return 0, fmt.Errorf("unknown card type %q", s)
}
