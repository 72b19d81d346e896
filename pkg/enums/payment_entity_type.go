package enums

import "fmt"

// PaymentEntityType names what a verified gateway callback settles.
type PaymentEntityType string

const (
	PaymentEntityDue   PaymentEntityType = "due"
	PaymentEntityGuest PaymentEntityType = "guest"
)

var validPaymentEntityTypes = []PaymentEntityType{
	PaymentEntityDue,
	PaymentEntityGuest,
}

// String implements fmt.Stringer.
func (t PaymentEntityType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known PaymentEntityType.
func (t PaymentEntityType) IsValid() bool {
	for _, candidate := range validPaymentEntityTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParsePaymentEntityType converts raw input into a PaymentEntityType.
func ParsePaymentEntityType(value string) (PaymentEntityType, error) {
	for _, candidate := range validPaymentEntityTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment entity type %q", value)
}
