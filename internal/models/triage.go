package models

import "fmt"

// TriageOutcome is the support path recommended for an intake
type TriageOutcome int

// Triage outcomes. TriageNone means no rule matched and no analysis block is
// written into the protocol message.
const (
	TriageNone TriageOutcome = iota
	TriageReplace
	TriageTechnicalAssistance
	TriageManualReview
)

// String returns the stable identifier used in JSON and logs
func (o TriageOutcome) String() string {
	switch o {
	case TriageReplace:
		return "replace"
	case TriageTechnicalAssistance:
		return "technical_assistance"
	case TriageManualReview:
		return "manual_review"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler
func (o TriageOutcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (o *TriageOutcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "none":
		*o = TriageNone
	case "replace":
		*o = TriageReplace
	case "technical_assistance":
		*o = TriageTechnicalAssistance
	case "manual_review":
		*o = TriageManualReview
	default:
		return fmt.Errorf("unknown triage outcome %q", text)
	}
	return nil
}

// Destination mode constants
const (
	DestinationDefault   DestinationMode = "default"
	DestinationAlternate DestinationMode = "alternate"
)

// DestinationMode picks between the configured support number and an
// operator-entered one
type DestinationMode string

// Valid reports whether m is a known destination mode
func (m DestinationMode) Valid() bool {
	return m == DestinationDefault || m == DestinationAlternate
}

// DestinationChoice is the recipient selection made at send time
type DestinationChoice struct {
	Mode  DestinationMode `json:"mode" validate:"omitempty,oneof=default alternate"`
	Phone string          `json:"phone,omitempty"`
}

// Resolve returns the raw phone to send to, before digit normalization
func (c DestinationChoice) Resolve(defaultPhone string) string {
	if c.Mode == DestinationAlternate {
		return c.Phone
	}
	return defaultPhone
}

// EffectiveMode treats an unset mode as the default recipient
func (c DestinationChoice) EffectiveMode() DestinationMode {
	if c.Mode == "" {
		return DestinationDefault
	}
	return c.Mode
}
