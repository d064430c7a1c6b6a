package service

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/Raymond9734/support-protocol-desk/internal/clock"
	"github.com/Raymond9734/support-protocol-desk/internal/models"
	"github.com/Raymond9734/support-protocol-desk/internal/phone"
)

// ProtocolService runs the protocol flow: id, triage, message and link
type ProtocolService interface {
	Submit(ctx context.Context, req *SubmitProtocolRequest) (*ProtocolResult, error)
	Draft(ctx context.Context, record models.IntakeRecord) *DraftResult
}

type protocolService struct {
	settings  SettingsService
	composer  MessageComposer
	handoffs  HandoffService
	validator *Validator
	clock     clock.Clock
	logger    *slog.Logger
}

// NewProtocolService creates a new protocol service
func NewProtocolService(
	settings SettingsService,
	composer MessageComposer,
	handoffs HandoffService,
	validator *Validator,
	c clock.Clock,
	logger *slog.Logger,
) ProtocolService {
	return &protocolService{
		settings:  settings,
		composer:  composer,
		handoffs:  handoffs,
		validator: validator,
		clock:     c,
		logger:    logger,
	}
}

// Submit validates the intake and produces the protocol message and its deep
// link. The clock is read once so the identifier and the triage agree on
// the date.
func (s *protocolService) Submit(ctx context.Context, req *SubmitProtocolRequest) (*ProtocolResult, error) {
	record := req.Intake
	record.Normalize()

	if err := s.validator.Struct(&record); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(&req.Destination); err != nil {
		return nil, err
	}

	snapshot := s.settings.Snapshot()
	if !record.HasModel(snapshot.Models) {
		return nil, models.ErrInvalidInput(
			fmt.Sprintf("console_model %q is not a configured model", record.ConsoleModel),
		)
	}

	mode := req.Destination.EffectiveMode()
	destinationRaw := req.Destination.Resolve(snapshot.DefaultPhone)

	now := s.clock.Now()
	protocolID := ComputeProtocolID(record.CustomerPhone, now)
	outcome := ComputeTriage(record.CustomerType, record.WarrantyStatus, record.PurchaseDate, now)
	triageText := s.composer.Catalog().TriageText(outcome)

	message := s.composer.ComposeProtocolMessage(&record, triageText, protocolID, snapshot.DefaultPhone)

	url, err := BuildTransportURL(message, destinationRaw, mode)
	if err != nil {
		return nil, err
	}

	destination := phone.Digits(destinationRaw)
	s.handoffs.Record(ctx, newHandoff(models.FlowProtocol, &protocolID, destination, message, req.SubmittedBy))

	s.logger.Info("protocol generated",
		slog.String("protocol_id", protocolID),
		slog.String("triage", outcome.String()),
		slog.String("destination_mode", string(mode)),
	)

	return &ProtocolResult{
		ProtocolID:  protocolID,
		Triage:      outcome,
		TriageText:  triageText,
		Message:     message,
		Destination: destination,
		URL:         url,
	}, nil
}

// Draft repairs the console model against the configured set and reports the
// remaining field problems without generating anything.
func (s *protocolService) Draft(ctx context.Context, record models.IntakeRecord) *DraftResult {
	record.Normalize()
	repaired := record.ReconcileModel(s.settings.Models())

	problems := s.validator.Problems(&record)
	if problems == nil {
		problems = []string{}
	}

	return &DraftResult{
		Intake:        record,
		ModelRepaired: repaired,
		Problems:      problems,
	}
}

func newHandoff(flow string, protocolID *string, destination, message, createdBy string) *models.Handoff {
	return &models.Handoff{
		Flow:          flow,
		ProtocolID:    protocolID,
		Destination:   destination,
		URL:           WhatsAppBaseURL + destination,
		MessageLength: utf8.RuneCountInString(message),
		CreatedBy:     createdBy,
	}
}
