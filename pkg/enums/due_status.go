package enums

import "fmt"

// DueStatus tracks whether a monthly due has been settled.
type DueStatus string

const (
	DueStatusDue  DueStatus = "due"
	DueStatusPaid DueStatus = "paid"
)

var validDueStatuses = []DueStatus{
	DueStatusDue,
	DueStatusPaid,
}

// String implements fmt.Stringer.
func (s DueStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known DueStatus.
func (s DueStatus) IsValid() bool {
	for _, candidate := range validDueStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseDueStatus converts raw input into a DueStatus.
func ParseDueStatus(value string) (DueStatus, error) {
	for _, candidate := range validDueStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid due status %q", value)
}
