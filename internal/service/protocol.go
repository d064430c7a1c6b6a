package service

import (
	"time"

	"github.com/Raymond9734/support-protocol-desk/internal/phone"
)

// protocolDateLayout renders now as DDMMYYYY
const protocolDateLayout = "02012006"

// ComputeProtocolID concatenates the digits of phoneRaw with now as DDMMYYYY.
// The same phone submitting twice on one day yields the same identifier.
func ComputeProtocolID(phoneRaw string, now time.Time) string {
	return phone.Digits(phoneRaw) + now.Format(protocolDateLayout)
}
