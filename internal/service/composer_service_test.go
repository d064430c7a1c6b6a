package service

import (
	"strings"
	"testing"

	"github.com/Raymond9734/support-protocol-desk/internal/models"
)

func sampleIntake() *models.IntakeRecord {
	return &models.IntakeRecord{
		CustomerName:      "Ana Souza",
		CustomerPhone:     "+55 (11) 91234-5678",
		PurchaseDate:      "2024-03-01",
		StoreName:         "Loja Central",
		ConsoleModel:      "Axios 16",
		DefectDescription: "Canal 3 sem áudio",
		WarrantyStatus:    models.WarrantyIn,
		CustomerType:      models.CustomerTypeEndConsumer,
	}
}

func newTestComposer(locale string) MessageComposer {
	return NewMessageComposer(ComposerConfig{
		Brand:       "Duonn Sound",
		ChannelName: "SAC",
		Locale:      locale,
	}, NewTemplateService())
}

func TestMessageComposer_ComposeProtocolMessage(t *testing.T) {
	composer := newTestComposer("pt-BR")
	record := sampleIntake()

	msg := composer.ComposeProtocolMessage(record, "unidade será substituída por uma unidade nova", "551191234567805032024", "+5511910251959")

	wantLines := []string{
		"- Nome: Ana Souza",
		"- Telefone: +55 (11) 91234-5678",
		"- Tipo: Consumidor Final",
		"- Loja: Loja Central",
		"- Data: 01/03/2024",
		"- Garantia: Em Garantia",
		"- Modelo: Axios 16",
		"- Defeito: Canal 3 sem áudio",
		"*Protocolo de Atendimento:* 551191234567805032024",
		"*Análise do Serviço:*",
		"- unidade será substituída por uma unidade nova",
	}
	for _, line := range wantLines {
		if !strings.Contains(msg, line) {
			t.Errorf("message missing %q\n%s", line, msg)
		}
	}

	if !strings.Contains(msg, "\u202a+5511910251959\u202c") {
		t.Errorf("support phone not wrapped in bidi marks:\n%s", msg)
	}
	if !strings.HasPrefix(msg, "Olá! Este é um resumo") {
		t.Errorf("message does not start with greeting:\n%s", msg)
	}
	if !strings.HasSuffix(msg, "- unidade será substituída por uma unidade nova") {
		t.Errorf("analysis block is not last:\n%s", msg)
	}
	if strings.Contains(msg, "\n\n") {
		t.Errorf("message still has blank lines:\n%s", msg)
	}
	if msg != strings.TrimSpace(msg) {
		t.Error("message is not trimmed")
	}
}

func TestMessageComposer_NoAnalysisWithoutTriage(t *testing.T) {
	composer := newTestComposer("en-US")
	record := sampleIntake()
	record.PurchaseDate = ""

	outcome := ComputeTriage(record.CustomerType, record.WarrantyStatus, record.PurchaseDate, triageNow)
	triageText := composer.Catalog().TriageText(outcome)
	if triageText != "" {
		t.Fatalf("TriageText() = %q, want empty", triageText)
	}

	msg := composer.ComposeProtocolMessage(record, triageText, "5511912345678", "+5511910251959")

	if strings.Contains(msg, "Service Analysis") {
		t.Errorf("message has an analysis block:\n%s", msg)
	}
	if !strings.Contains(msg, "- Date: \n") && !strings.Contains(msg, "- Date:\n") {
		t.Errorf("empty purchase date not rendered:\n%s", msg)
	}
	if !strings.HasSuffix(msg, "*Support Protocol:* 5511912345678") {
		t.Errorf("protocol line is not last:\n%s", msg)
	}
}

func TestMessageComposer_RetailerLabels(t *testing.T) {
	composer := newTestComposer("en-US")
	record := sampleIntake()
	record.CustomerType = models.CustomerTypeRetailer
	record.WarrantyStatus = models.WarrantyOut

	msg := composer.ComposeProtocolMessage(record, "unit will be replaced with a new unit", "x", "1")

	for _, want := range []string{"- Type: Retailer", "- Warranty: Out of Warranty", "*Service Analysis:*\n- unit will be replaced with a new unit"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q\n%s", want, msg)
		}
	}
}

func TestMessageComposer_CustomerTextIsVerbatim(t *testing.T) {
	composer := newTestComposer("pt-BR")
	record := sampleIntake()
	record.DefectDescription = "liga e desliga {protocol_id} sozinho"

	msg := composer.ComposeProtocolMessage(record, "", "ID123", "1")

	if !strings.Contains(msg, "- Defeito: liga e desliga {protocol_id} sozinho") {
		t.Errorf("customer text was rewritten:\n%s", msg)
	}
}

func TestCollapseBlankLines(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a\n\nb", "a\nb"},
		{"a\n \t \n\n\nb", "a\nb"},
		{"a\nb", "a\nb"},
		{"a\n\n\n", "a\n"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			once := CollapseBlankLines(tt.in)
			if once != tt.want {
				t.Errorf("CollapseBlankLines(%q) = %q, want %q", tt.in, once, tt.want)
			}
			if twice := CollapseBlankLines(once); twice != once {
				t.Errorf("CollapseBlankLines not idempotent: %q then %q", once, twice)
			}
		})
	}
}

func TestFinalizeMessage_Idempotent(t *testing.T) {
	inputs := []string{
		"\n\n  Olá!\n\n\n*Dados:*\n- Nome: X\n\n",
		"linha\r\n\r\noutra",
		"   ",
		"a\n\t\nb\n \n \nc",
	}

	for _, in := range inputs {
		once := FinalizeMessage(in)
		if twice := FinalizeMessage(once); twice != once {
			t.Errorf("FinalizeMessage(%q): %q then %q", in, once, twice)
		}
	}
}
