package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raymond9734/support-protocol-desk/internal/clock"
	"github.com/Raymond9734/support-protocol-desk/internal/models"
	"github.com/Raymond9734/support-protocol-desk/internal/store"
)

type protocolFixture struct {
	svc      ProtocolService
	settings SettingsService
	repo     *mockHandoffRepository
}

func newProtocolFixture(t *testing.T, locale string) *protocolFixture {
	t.Helper()
	now := clock.Fixed(time.Date(2024, time.March, 5, 14, 0, 0, 0, time.Local))
	settings := newTestSettings(t, store.NewMemoryStore(now))
	repo := &mockHandoffRepository{}

	composer := NewMessageComposer(ComposerConfig{
		Brand:       "Duonn Sound",
		ChannelName: "SAC",
		Locale:      locale,
	}, NewTemplateService())

	svc := NewProtocolService(
		settings,
		composer,
		NewHandoffService(repo, nil, discardLogger()),
		NewValidator(),
		now,
		discardLogger(),
	)

	return &protocolFixture{svc: svc, settings: settings, repo: repo}
}

func TestProtocolService_Submit(t *testing.T) {
	f := newProtocolFixture(t, "en-US")

	result, err := f.svc.Submit(context.Background(), &SubmitProtocolRequest{
		Intake:      *sampleIntake(),
		SubmittedBy: "maria",
	})
	require.NoError(t, err)

	assert.Equal(t, "551191234567805032024", result.ProtocolID)
	assert.Equal(t, models.TriageReplace, result.Triage)
	assert.Equal(t, "unit will be replaced with a new unit", result.TriageText)
	assert.Equal(t, "5511910251959", result.Destination)
	assert.True(t, strings.HasPrefix(result.URL, "https://wa.me/5511910251959?text="))
	assert.Equal(t, WhatsAppBaseURL+"5511910251959?text="+EncodeURIComponent(result.Message), result.URL)
	assert.Contains(t, result.Message, "*Support Protocol:* 551191234567805032024")
	assert.Contains(t, result.Message, "*Service Analysis:*\n- unit will be replaced with a new unit")

	require.Len(t, f.repo.handoffs, 1)
	h := f.repo.handoffs[0]
	assert.Equal(t, models.FlowProtocol, h.Flow)
	require.NotNil(t, h.ProtocolID)
	assert.Equal(t, result.ProtocolID, *h.ProtocolID)
	assert.Equal(t, "https://wa.me/5511910251959", h.URL)
	assert.NotContains(t, h.URL, "Ana")
	assert.Equal(t, "maria", h.CreatedBy)
}

func TestProtocolService_SubmitTriagePaths(t *testing.T) {
	f := newProtocolFixture(t, "en-US")

	tests := []struct {
		name         string
		mutate       func(r *models.IntakeRecord)
		wantTriage   models.TriageOutcome
		wantAnalysis bool
	}{
		{
			name:         "day 30 replaced",
			mutate:       func(r *models.IntakeRecord) { r.PurchaseDate = "2024-02-04" },
			wantTriage:   models.TriageReplace,
			wantAnalysis: true,
		},
		{
			name:         "day 31 assistance",
			mutate:       func(r *models.IntakeRecord) { r.PurchaseDate = "2024-02-03" },
			wantTriage:   models.TriageTechnicalAssistance,
			wantAnalysis: true,
		},
		{
			name:         "no date no analysis",
			mutate:       func(r *models.IntakeRecord) { r.PurchaseDate = "" },
			wantTriage:   models.TriageNone,
			wantAnalysis: false,
		},
		{
			name:         "unreadable date no analysis",
			mutate:       func(r *models.IntakeRecord) { r.PurchaseDate = "05/03/2024" },
			wantTriage:   models.TriageNone,
			wantAnalysis: false,
		},
		{
			name: "retailer out of warranty",
			mutate: func(r *models.IntakeRecord) {
				r.CustomerType = models.CustomerTypeRetailer
				r.WarrantyStatus = models.WarrantyOut
				r.PurchaseDate = "2020-01-01"
			},
			wantTriage:   models.TriageReplace,
			wantAnalysis: true,
		},
		{
			name: "legacy spelling out of warranty",
			mutate: func(r *models.IntakeRecord) {
				r.CustomerType = "consumidor_final"
				r.WarrantyStatus = models.WarrantyOut
			},
			wantTriage:   models.TriageManualReview,
			wantAnalysis: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := *sampleIntake()
			tt.mutate(&record)

			result, err := f.svc.Submit(context.Background(), &SubmitProtocolRequest{Intake: record})
			require.NoError(t, err)
			assert.Equal(t, tt.wantTriage, result.Triage)
			assert.Equal(t, tt.wantAnalysis, strings.Contains(result.Message, "Service Analysis"))
		})
	}
}

func TestProtocolService_SubmitValidation(t *testing.T) {
	f := newProtocolFixture(t, "pt-BR")

	tests := []struct {
		name        string
		mutate      func(r *SubmitProtocolRequest)
		wantMessage string
	}{
		{
			name:        "missing name",
			mutate:      func(r *SubmitProtocolRequest) { r.Intake.CustomerName = "   " },
			wantMessage: "customer_name is required",
		},
		{
			name:        "missing defect",
			mutate:      func(r *SubmitProtocolRequest) { r.Intake.DefectDescription = "" },
			wantMessage: "defect_description is required",
		},
		{
			name:        "bad customer type",
			mutate:      func(r *SubmitProtocolRequest) { r.Intake.CustomerType = "wholesale" },
			wantMessage: "customer_type must be one of",
		},
		{
			name:        "model not configured",
			mutate:      func(r *SubmitProtocolRequest) { r.Intake.ConsoleModel = "Axios 99" },
			wantMessage: "not a configured model",
		},
		{
			name: "alternate destination too short",
			mutate: func(r *SubmitProtocolRequest) {
				r.Destination = models.DestinationChoice{Mode: models.DestinationAlternate, Phone: "123"}
			},
			wantMessage: "at least 10 digits",
		},
		{
			name: "unknown destination mode",
			mutate: func(r *SubmitProtocolRequest) {
				r.Destination = models.DestinationChoice{Mode: "optional"}
			},
			wantMessage: "mode must be one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &SubmitProtocolRequest{Intake: *sampleIntake()}
			tt.mutate(req)

			_, err := f.svc.Submit(context.Background(), req)
			require.Error(t, err)
			assert.True(t, models.IsValidationError(err), "got %v", err)
			assert.Contains(t, err.Error(), tt.wantMessage)
		})
	}

	assert.Empty(t, f.repo.handoffs, "failed submissions must not be recorded")
}

func TestProtocolService_SubmitAlternateDestination(t *testing.T) {
	f := newProtocolFixture(t, "pt-BR")

	result, err := f.svc.Submit(context.Background(), &SubmitProtocolRequest{
		Intake:      *sampleIntake(),
		Destination: models.DestinationChoice{Mode: models.DestinationAlternate, Phone: "+55 (21) 99999-8888"},
	})
	require.NoError(t, err)

	assert.Equal(t, "5521999998888", result.Destination)
	assert.True(t, strings.HasPrefix(result.URL, "https://wa.me/5521999998888?text="))
	// the support line still carries the configured number
	assert.Contains(t, result.Message, "\u202a+5511910251959\u202c")
}

func TestProtocolService_HandoffFailureDoesNotBlock(t *testing.T) {
	f := newProtocolFixture(t, "pt-BR")
	f.repo.createErr = errStoreDown

	result, err := f.svc.Submit(context.Background(), &SubmitProtocolRequest{Intake: *sampleIntake()})
	require.NoError(t, err)
	assert.NotEmpty(t, result.URL)
}

func TestProtocolService_DraftRepairsModel(t *testing.T) {
	f := newProtocolFixture(t, "pt-BR")
	ctx := context.Background()

	record := *sampleIntake()
	record.ConsoleModel = "Atrium 12"

	draft := f.svc.Draft(ctx, record)
	assert.False(t, draft.ModelRepaired)
	assert.Equal(t, "Atrium 12", draft.Intake.ConsoleModel)
	assert.Empty(t, draft.Problems)

	_, err := f.settings.DeleteModel(ctx, 1)
	require.NoError(t, err)

	draft = f.svc.Draft(ctx, record)
	assert.True(t, draft.ModelRepaired)
	assert.Equal(t, "Axios 16", draft.Intake.ConsoleModel)

	for range f.settings.Models() {
		_, err := f.settings.DeleteModel(ctx, 0)
		require.NoError(t, err)
	}

	draft = f.svc.Draft(ctx, record)
	assert.True(t, draft.ModelRepaired)
	assert.Empty(t, draft.Intake.ConsoleModel)
}

func TestProtocolService_DraftReportsProblems(t *testing.T) {
	f := newProtocolFixture(t, "pt-BR")

	draft := f.svc.Draft(context.Background(), models.IntakeRecord{CustomerType: "lojista"})

	assert.Equal(t, models.CustomerTypeRetailer, draft.Intake.CustomerType)
	assert.Contains(t, draft.Problems, "customer_name is required")
	assert.Contains(t, draft.Problems, "store_name is required")
	assert.Contains(t, draft.Problems, "warranty_status is required")
	assert.NotContains(t, draft.Problems, "customer_type is required")
}
