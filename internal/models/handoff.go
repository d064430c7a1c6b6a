package models

import "time"

// Handoff flow constants
const (
	FlowProtocol = "protocol"
	FlowQuick    = "quick"
)

// Handoff records a deep link that was handed to the messaging client. URL is
// the link target without its text parameter, so the log holds no customer
// name, store or defect text.
type Handoff struct {
	ID            int64     `json:"id"`
	Flow          string    `json:"flow"`
	ProtocolID    *string   `json:"protocol_id,omitempty"`
	Destination   string    `json:"destination"`
	URL           string    `json:"url"`
	MessageLength int       `json:"message_length"`
	CreatedBy     string    `json:"created_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// HandoffFilter holds filtering options for listing handoffs
type HandoffFilter struct {
	Flow       string
	ProtocolID string
	Page       int
	PageSize   int
}

// IsValidFlow checks if the flow is valid
func IsValidFlow(flow string) bool {
	return flow == FlowProtocol || flow == FlowQuick
}
