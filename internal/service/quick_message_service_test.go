package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raymond9734/support-protocol-desk/internal/clock"
	"github.com/Raymond9734/support-protocol-desk/internal/models"
	"github.com/Raymond9734/support-protocol-desk/internal/store"
)

func newTestQuickMessages(t *testing.T, locale string) (QuickMessageService, *mockHandoffRepository) {
	t.Helper()
	repo := &mockHandoffRepository{}
	settings := newTestSettings(t, store.NewMemoryStore(clock.System{}))
	svc := NewQuickMessageService(
		settings,
		ComposerConfig{Brand: "Duonn Sound", ChannelName: "SAC", Locale: locale},
		NewTemplateService(),
		NewHandoffService(repo, nil, discardLogger()),
		NewValidator(),
		discardLogger(),
	)
	return svc, repo
}

func TestQuickMessageService_Templates(t *testing.T) {
	svc, _ := newTestQuickMessages(t, "pt-BR")

	templates := svc.Templates()
	ids := make([]string, 0, len(templates))
	for _, tpl := range templates {
		ids = append(ids, tpl.ID)
		assert.NotContains(t, tpl.Text, "{brand}", "template %s not rendered", tpl.ID)
		assert.NotEmpty(t, strings.TrimSpace(tpl.Text), "template %s empty", tpl.ID)
	}

	assert.Equal(t, []string{
		QuickGoodMorning, QuickGoodAfternoon, QuickThanks, QuickAssistance,
		QuickTutorialLink, QuickVersionStatus, QuickUpdateSoon,
	}, ids)

	assert.True(t, strings.HasPrefix(templates[0].Text, "Bom dia! Tudo bem?"))
	assert.Contains(t, templates[0].Text, "Suporte Técnico da Duonn Sound")

	version := templates[5].Text
	assert.Contains(t, version, "Modelo | Versão")
	for _, m := range testDefaults.Models {
		assert.Contains(t, version, "\n"+m+" | ")
	}
}

func TestQuickMessageService_Send(t *testing.T) {
	tests := []struct {
		name     string
		req      *QuickMessageRequest
		wantURL  string
		wantText string
		wantErr  func(error) bool
	}{
		{
			name:    "free text to default",
			req:     &QuickMessageRequest{Text: "Olá, tudo bem?"},
			wantURL: "https://wa.me/5511910251959?text=Ol%C3%A1%2C%20tudo%20bem%3F",
		},
		{
			name: "free text to alternate keeps blank lines",
			req: &QuickMessageRequest{
				Text:        "a\n\nb",
				Destination: models.DestinationChoice{Mode: models.DestinationAlternate, Phone: "5511912345678"},
			},
			wantURL: "https://wa.me/5511912345678?text=a%0A%0Ab",
		},
		{
			name:     "template by id",
			req:      &QuickMessageRequest{TemplateID: QuickTutorialLink},
			wantText: "[COLE O LINK AQUI] siga os passos deste tutorial que será de grande ajuda",
		},
		{
			name:     "blank text falls back to template",
			req:      &QuickMessageRequest{Text: "  \n", TemplateID: QuickTutorialLink},
			wantText: "[COLE O LINK AQUI] siga os passos deste tutorial que será de grande ajuda",
		},
		{
			name:    "blank text",
			req:     &QuickMessageRequest{Text: " \n\t"},
			wantErr: models.IsValidationError,
		},
		{
			name:    "nothing given",
			req:     &QuickMessageRequest{},
			wantErr: models.IsValidationError,
		},
		{
			name: "alternate too short",
			req: &QuickMessageRequest{
				Text:        "oi",
				Destination: models.DestinationChoice{Mode: models.DestinationAlternate, Phone: "+55 11"},
			},
			wantErr: models.IsValidationError,
		},
		{
			name: "unknown template",
			req:  &QuickMessageRequest{TemplateID: "birthday"},
			wantErr: func(err error) bool {
				var appErr *models.AppError
				return errors.As(err, &appErr) && appErr.Code == models.CodeNotFound
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestQuickMessages(t, "pt-BR")

			result, err := svc.Send(context.Background(), tt.req)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tt.wantErr(err), "unexpected error %v", err)
				assert.Empty(t, repo.handoffs)
				return
			}

			require.NoError(t, err)
			if tt.wantURL != "" {
				assert.Equal(t, tt.wantURL, result.URL)
			}
			if tt.wantText != "" {
				assert.Equal(t, tt.wantText, result.Message)
			}

			require.Len(t, repo.handoffs, 1)
			assert.Equal(t, models.FlowQuick, repo.handoffs[0].Flow)
			assert.Nil(t, repo.handoffs[0].ProtocolID)
		})
	}
}
