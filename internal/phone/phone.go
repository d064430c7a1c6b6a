// Package phone normalizes the phone numbers typed by agents.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used when a number is typed without a country code
const DefaultRegion = "BR"

// MinDigits is the shortest operator-entered destination accepted for a deep link
const MinDigits = 10

// Digits strips everything but ASCII digits, so "+55 (11) 91234-5678"
// becomes "5511912345678".
func Digits(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		if c := raw[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// NormalizeE164 formats a phone number to E.164 using region for numbers
// without a country code. If parsing fails or the number is not valid it
// returns the trimmed input.
func NormalizeE164(raw, region string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return trimmed
	}
	if region == "" {
		region = DefaultRegion
	}

	number, err := phonenumbers.Parse(trimmed, region)
	if err != nil {
		return trimmed
	}
	if !phonenumbers.IsValidNumber(number) {
		return trimmed
	}

	return phonenumbers.Format(number, phonenumbers.E164)
}

// International renders a number in the international display format
// ("+55 11 91025-1959"), falling back to the trimmed input.
func International(raw, region string) string {
	trimmed := strings.TrimSpace(raw)
	if region == "" {
		region = DefaultRegion
	}
	number, err := phonenumbers.Parse(trimmed, region)
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return trimmed
	}
	return phonenumbers.Format(number, phonenumbers.INTERNATIONAL)
}
