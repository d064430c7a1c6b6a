package service

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Raymond9734/support-protocol-desk/internal/models"
)

// SubmitProtocolRequest is a Flow A submission: the intake plus the recipient choice
type SubmitProtocolRequest struct {
	Intake      models.IntakeRecord      `json:"intake"`
	Destination models.DestinationChoice `json:"destination"`
	SubmittedBy string                   `json:"-"`
}

// ProtocolResult is everything the caller needs to hand the link over
type ProtocolResult struct {
	ProtocolID  string               `json:"protocol_id"`
	Triage      models.TriageOutcome `json:"triage"`
	TriageText  string               `json:"triage_text,omitempty"`
	Message     string               `json:"message"`
	Destination string               `json:"destination"`
	URL         string               `json:"url"`
}

// DraftResult reports the intake after model repair along with any field problems
type DraftResult struct {
	Intake        models.IntakeRecord `json:"intake"`
	ModelRepaired bool                `json:"model_repaired"`
	Problems      []string            `json:"problems"`
}

// QuickMessageRequest is a Flow B submission. Either Text or TemplateID is set.
type QuickMessageRequest struct {
	Text        string                   `json:"text"`
	TemplateID  string                   `json:"template_id"`
	Destination models.DestinationChoice `json:"destination"`
	SubmittedBy string                   `json:"-"`
}

// QuickMessageResult is the link for a quick message
type QuickMessageResult struct {
	Message     string `json:"message"`
	Destination string `json:"destination"`
	URL         string `json:"url"`
}

// QuickTemplate is one canned message offered to the agent
type QuickTemplate struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

// HandoffListResult is a page of the handoff log
type HandoffListResult struct {
	Handoffs   []*models.Handoff       `json:"handoffs"`
	Pagination models.PaginationResult `json:"pagination"`
}

// SaveNoteRequest creates a scratchpad note
type SaveNoteRequest struct {
	Text     string `json:"text"`
	Priority string `json:"priority"`
}

// Validate performs validation on the save note request
func (r *SaveNoteRequest) Validate() error {
	if err := models.ValidateNoteText(r.Text); err != nil {
		return err
	}
	if r.Priority == "" {
		r.Priority = models.NotePriorityLow
	}
	if !models.IsValidNotePriority(r.Priority) {
		return models.ErrInvalidInput(fmt.Sprintf("invalid priority: %s (must be 'low', 'medium' or 'high')", r.Priority))
	}
	return nil
}

// UpdateNoteRequest changes a note's text and optionally its priority
type UpdateNoteRequest struct {
	Text     string `json:"text"`
	Priority string `json:"priority,omitempty"`
}

// Validate performs validation on the update note request
func (r *UpdateNoteRequest) Validate() error {
	if err := models.ValidateNoteText(r.Text); err != nil {
		return err
	}
	if r.Priority != "" && !models.IsValidNotePriority(r.Priority) {
		return models.ErrInvalidInput(fmt.Sprintf("invalid priority: %s (must be 'low', 'medium' or 'high')", r.Priority))
	}
	return nil
}

// Account limits
const (
	MinPasswordRunes = 6
	MaxUsernameRunes = 64
)

// RegisterRequest creates an agent account
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate performs validation on the register request
func (r *RegisterRequest) Validate() error {
	username := strings.TrimSpace(r.Username)
	if username == "" {
		return models.ErrInvalidInput("username is required")
	}
	if utf8.RuneCountInString(username) > MaxUsernameRunes {
		return models.ErrInvalidInput(fmt.Sprintf("username must be at most %d characters", MaxUsernameRunes))
	}
	if utf8.RuneCountInString(r.Password) < MinPasswordRunes {
		return models.ErrInvalidInput(fmt.Sprintf("password must be at least %d characters", MinPasswordRunes))
	}
	return nil
}

// LoginRequest opens a session
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate performs validation on the login request
func (r *LoginRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" || r.Password == "" {
		return models.ErrInvalidInput("username and password are required")
	}
	return nil
}

// LoginResult carries the session token
type LoginResult struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserResult is an account without its password hash
type UserResult struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Export formats
const (
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"
)

// ExportFile is a rendered intake export ready for download
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
