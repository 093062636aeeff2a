package enum

import (
	"encoding/json"
	"fmt"
)

// ContactType is the delivery channel chosen for sending a receipt or fiscal
// note to the customer.
type ContactType int

const (
	ContactEmail ContactType = iota
	ContactWhatsApp
	ContactSMS
)

func (t ContactType) String() string {
	return [...]string{"email", "whatsapp", "sms"}[t]
}

func (t ContactType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *ContactType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseContactType(str)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseContactType converts a wire value into a ContactType.
func ParseContactType(s string) (ContactType, error) {
	switch s {
	case "email":
		return ContactEmail, nil
	case "whatsapp":
		return ContactWhatsApp, nil
	case "sms":
		return ContactSMS, nil
	}
	return 0, fmt.Errorf("unknown contact type %q", s)
}
