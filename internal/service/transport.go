package service

import (
	"fmt"
	"strings"

	"github.com/Raymond9734/support-protocol-desk/internal/models"
	"github.com/Raymond9734/support-protocol-desk/internal/phone"
)

// WhatsAppBaseURL is the deep-link prefix understood by the messaging client
const WhatsAppBaseURL = "https://wa.me/"

const upperhex = "0123456789ABCDEF"

// EncodeURIComponent percent-encodes s the way browsers' encodeURIComponent
// does: every UTF-8 byte is escaped except A-Z a-z 0-9 and - _ . ! ~ * ' ( ).
// Spaces become %20, never "+".
func EncodeURIComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isURIUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func isURIUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

// BuildTransportURL returns https://wa.me/<digits>?text=<encoded> for the
// message. In alternate mode the operator-typed number must carry at least
// phone.MinDigits digits; the configured default number is used as-is.
func BuildTransportURL(messageText, destinationPhoneRaw string, mode models.DestinationMode) (string, error) {
	digits := phone.Digits(destinationPhoneRaw)

	if mode == models.DestinationAlternate {
		if strings.TrimSpace(destinationPhoneRaw) == "" || len(digits) < phone.MinDigits {
			return "", models.ErrInvalidInput(
				fmt.Sprintf("destination phone must contain at least %d digits", phone.MinDigits),
			)
		}
	}

	return WhatsAppBaseURL + digits + "?text=" + EncodeURIComponent(messageText), nil
}
