package common

import "strings"

type Email string

// NewEmail normalizes the raw address so that lookups are case-insensitive.
func NewEmail(rawEmail string) Email {
	return Email(strings.ToLower(strings.TrimSpace(rawEmail)))
}
