package validators

import "strings"

// TrimmedString collapses surrounding whitespace; empty after trimming means
// the field was effectively absent.
func TrimmedString(value string) string {
	return strings.TrimSpace(value)
}
