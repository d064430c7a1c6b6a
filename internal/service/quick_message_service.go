package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Raymond9734/support-protocol-desk/internal/models"
	"github.com/Raymond9734/support-protocol-desk/internal/phone"
)

// Quick template identifiers
const (
	QuickGoodMorning   = "good_morning"
	QuickGoodAfternoon = "good_afternoon"
	QuickThanks        = "thanks"
	QuickAssistance    = "assistance"
	QuickTutorialLink  = "tutorial_link"
	QuickVersionStatus = "version_status"
	QuickUpdateSoon    = "update_soon"
)

// QuickMessageService runs the quick message flow
type QuickMessageService interface {
	Templates() []QuickTemplate
	Send(ctx context.Context, req *QuickMessageRequest) (*QuickMessageResult, error)
}

type quickMessageService struct {
	settings    SettingsService
	catalog     *Catalog
	brand       string
	templateSvc TemplateService
	handoffs    HandoffService
	validator   *Validator
	logger      *slog.Logger
}

// NewQuickMessageService creates a new quick message service
func NewQuickMessageService(
	settings SettingsService,
	composerCfg ComposerConfig,
	templateSvc TemplateService,
	handoffs HandoffService,
	validator *Validator,
	logger *slog.Logger,
) QuickMessageService {
	return &quickMessageService{
		settings:    settings,
		catalog:     CatalogFor(composerCfg.Locale),
		brand:       composerCfg.Brand,
		templateSvc: templateSvc,
		handoffs:    handoffs,
		validator:   validator,
		logger:      logger,
	}
}

// Templates returns the canned messages with the brand filled in. The
// version status table is built from the configured models.
func (s *quickMessageService) Templates() []QuickTemplate {
	fields := map[string]string{"brand": s.brand}

	templates := make([]QuickTemplate, 0, len(s.catalog.QuickTemplates)+1)
	for _, t := range s.catalog.QuickTemplates {
		text, _ := s.templateSvc.Render(t.Text, fields)
		templates = append(templates, QuickTemplate{ID: t.ID, Label: t.Label, Text: text})
		if t.ID == QuickTutorialLink {
			templates = append(templates, s.versionStatusTemplate())
		}
	}

	return templates
}

func (s *quickMessageService) versionStatusTemplate() QuickTemplate {
	table := s.catalog.VersionTable

	var b strings.Builder
	b.WriteString(table.Intro)
	b.WriteString("\n\n")
	b.WriteString(table.Header)
	for _, model := range s.settings.Models() {
		b.WriteString("\n")
		b.WriteString(model)
		b.WriteString(" | ")
	}

	return QuickTemplate{ID: QuickVersionStatus, Label: table.Label, Text: b.String()}
}

func (s *quickMessageService) template(id string) (QuickTemplate, bool) {
	for _, t := range s.Templates() {
		if t.ID == id {
			return t, true
		}
	}
	return QuickTemplate{}, false
}

// Send builds the deep link for free text or a canned template. The text is
// sent exactly as given; it only has to be non-blank.
func (s *quickMessageService) Send(ctx context.Context, req *QuickMessageRequest) (*QuickMessageResult, error) {
	if err := s.validator.Struct(&req.Destination); err != nil {
		return nil, err
	}

	text := req.Text
	if strings.TrimSpace(text) == "" && req.TemplateID != "" {
		t, ok := s.template(req.TemplateID)
		if !ok {
			return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("quick template %q not found", req.TemplateID))
		}
		text = t.Text
	}
	if strings.TrimSpace(text) == "" {
		return nil, models.ErrInvalidInput("message text cannot be empty")
	}

	mode := req.Destination.EffectiveMode()
	destinationRaw := req.Destination.Resolve(s.settings.DefaultPhone())

	url, err := BuildTransportURL(text, destinationRaw, mode)
	if err != nil {
		return nil, err
	}

	destination := phone.Digits(destinationRaw)
	s.handoffs.Record(ctx, newHandoff(models.FlowQuick, nil, destination, text, req.SubmittedBy))

	s.logger.Info("quick message generated",
		slog.String("template_id", req.TemplateID),
		slog.String("destination_mode", string(mode)),
	)

	return &QuickMessageResult{
		Message:     text,
		Destination: destination,
		URL:         url,
	}, nil
}
