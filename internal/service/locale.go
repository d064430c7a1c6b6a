package service

import (
	"golang.org/x/text/language"

	"github.com/Raymond9734/support-protocol-desk/internal/models"
)

// Protocol template placeholders
var protocolPlaceholders = []string{
	"brand", "channel", "customer_name", "customer_phone", "customer_type",
	"store_name", "purchase_date", "warranty", "console_model", "defect",
	"support_phone", "protocol_id",
}

// Catalog holds the wording of outbound messages for one locale
type Catalog struct {
	Tag              language.Tag
	ProtocolTemplate string
	AnalysisTemplate string
	CustomerTypes    map[models.CustomerType]string
	Warranty         map[models.WarrantyStatus]string
	Triage           map[models.TriageOutcome]string
	ExportHeaders    []string
	ExportSheet      string
	ExportFilePrefix string
	ExportFallback   string
	QuickTemplates   []QuickTemplate
	VersionTable     VersionTable
}

// VersionTable is the wording of the per-model version status template
type VersionTable struct {
	Label  string
	Intro  string
	Header string
}

// CustomerTypeLabel returns the localized customer type
func (c *Catalog) CustomerTypeLabel(t models.CustomerType) string {
	return c.CustomerTypes[t]
}

// WarrantyLabel returns the localized warranty status
func (c *Catalog) WarrantyLabel(w models.WarrantyStatus) string {
	return c.Warranty[w]
}

// TriageText returns the sentence for outcome; TriageNone maps to ""
func (c *Catalog) TriageText(outcome models.TriageOutcome) string {
	return c.Triage[outcome]
}

var catalogPtBR = &Catalog{
	Tag: language.BrazilianPortuguese,
	ProtocolTemplate: `
Olá! Este é um resumo da sua solicitação de suporte para a {brand} estaremos te encaminhando para o {channel} que entrará em contato em breve para concluir o protocolo da sua solicitação.

*Dados do Cliente:*
- Nome: {customer_name}
- Telefone: {customer_phone}
- Tipo: {customer_type}

*Dados da Compra:*
- Loja: {store_name}
- Data: {purchase_date}
- Garantia: {warranty}

*Dados do Produto:*
- Modelo: {console_model}
- Defeito: {defect}

Para mais informações do seu produto apos o envio entre em contato por este canal {channel}  {support_phone}

*Protocolo de Atendimento:* {protocol_id}
`,
	AnalysisTemplate: "\n*Análise do Serviço:*\n- {triage}",
	CustomerTypes: map[models.CustomerType]string{
		models.CustomerTypeRetailer:    "Lojista",
		models.CustomerTypeEndConsumer: "Consumidor Final",
	},
	Warranty: map[models.WarrantyStatus]string{
		models.WarrantyIn:  "Em Garantia",
		models.WarrantyOut: "Fora de Garantia",
	},
	Triage: map[models.TriageOutcome]string{
		models.TriageReplace:             "unidade será substituída por uma unidade nova",
		models.TriageTechnicalAssistance: "será encaminhado para a assistência técnica",
		models.TriageManualReview:        "caso será analisado manualmente para assistência técnica fora da garantia",
	},
	ExportHeaders: []string{
		"Nome", "Telefone", "Tipo de Cliente", "Loja",
		"Data da Compra", "Garantia", "Modelo", "Defeito",
	},
	ExportSheet:      "Cadastro",
	ExportFilePrefix: "cadastro_",
	ExportFallback:   "cliente",
	QuickTemplates: []QuickTemplate{
		{ID: QuickGoodMorning, Label: "Bom Dia", Text: "Bom dia! " + greetingPtBR},
		{ID: QuickGoodAfternoon, Label: "Boa Tarde", Text: "Boa tarde! " + greetingPtBR},
		{ID: QuickThanks, Label: "Agradecemos", Text: "Fico feliz MUITO BOM em poder ter resolvido tua duvida .. e não se esqueça de seguir nossos tutoriais e redes sociais .Estamos aqui ta bom ? Ate logo A {brand} agradece seu contato."},
		{ID: QuickAssistance, Label: "Assistência", Text: "Para continuar teu atendimento e redirecionar teu equipamento para asistencia tecnica :\n\n\nNome completo :\n\nCidade e estado :\n\nData da compra :\n\nNome da loja :\n\nData da compra :\n\nFavor digitar estes campos ..\n\n\nficamos no aguardo destas informações …"},
		{ID: QuickTutorialLink, Label: "link", Text: "[COLE O LINK AQUI] siga os passos deste tutorial que será de grande ajuda"},
		{ID: QuickUpdateSoon, Label: "Versao aguarde", Text: "Estamos animados para anunciar que em breve estaremos lançando uma nova versão do nosso software. Apesar do entusiasmo, não temos uma previsão exata para o lançamento dessa versão atualizada. Agradecemos sua compreensão e apoio, e esperamos que as novidades sejam valiosas para você!"},
	},
	VersionTable: VersionTable{
		Label:  "Versões",
		Intro:  "Confira a versão de software atual de cada modelo:",
		Header: "Modelo | Versão",
	},
}

const greetingPtBR = `Tudo bem?
Sou do setor de Suporte Técnico da {brand} e estou aqui para te ajudar com o que for preciso!
Só um instante, estou verificando algumas informações. 😊

Enquanto isso, pra facilitar e agilizar o atendimento, você pode me descrever o problema ou a dúvida que está enfrentando? Assim consigo entender melhor e resolver o mais rápido possível. 😉

Fico no aguardo da sua mensagem! 💬`

var catalogEnUS = &Catalog{
	Tag: language.AmericanEnglish,
	ProtocolTemplate: `
Hello! This is a summary of your support request to {brand}. We are forwarding you to {channel}, who will contact you shortly to complete your request's protocol.

*Customer Details:*
- Name: {customer_name}
- Phone: {customer_phone}
- Type: {customer_type}

*Purchase Details:*
- Store: {store_name}
- Date: {purchase_date}
- Warranty: {warranty}

*Product Details:*
- Model: {console_model}
- Defect: {defect}

For more information about your product after shipping, contact us through this channel {channel}  {support_phone}

*Support Protocol:* {protocol_id}
`,
	AnalysisTemplate: "\n*Service Analysis:*\n- {triage}",
	CustomerTypes: map[models.CustomerType]string{
		models.CustomerTypeRetailer:    "Retailer",
		models.CustomerTypeEndConsumer: "End Consumer",
	},
	Warranty: map[models.WarrantyStatus]string{
		models.WarrantyIn:  "In Warranty",
		models.WarrantyOut: "Out of Warranty",
	},
	Triage: map[models.TriageOutcome]string{
		models.TriageReplace:             "unit will be replaced with a new unit",
		models.TriageTechnicalAssistance: "will be sent to technical assistance",
		models.TriageManualReview:        "case will be manually reviewed for out-of-warranty technical assistance",
	},
	ExportHeaders: []string{
		"Name", "Phone", "Customer Type", "Store",
		"Purchase Date", "Warranty", "Model", "Defect",
	},
	ExportSheet:      "Intake",
	ExportFilePrefix: "intake_",
	ExportFallback:   "customer",
	QuickTemplates: []QuickTemplate{
		{ID: QuickGoodMorning, Label: "Good Morning", Text: "Good morning! " + greetingEnUS},
		{ID: QuickGoodAfternoon, Label: "Good Afternoon", Text: "Good afternoon! " + greetingEnUS},
		{ID: QuickThanks, Label: "Thanks", Text: "I'm really glad we could sort out your question. Don't forget to follow our tutorials and social media, we're always here. See you soon, {brand} thanks you for reaching out."},
		{ID: QuickAssistance, Label: "Assistance", Text: "To continue your support case and send your equipment to technical assistance:\n\nFull name:\n\nCity and state:\n\nPurchase date:\n\nStore name:\n\nPlease fill in these fields.\n\nWe look forward to your reply."},
		{ID: QuickTutorialLink, Label: "Link", Text: "[PASTE THE LINK HERE] follow the steps in this tutorial, it will be a great help"},
		{ID: QuickUpdateSoon, Label: "Update Coming", Text: "We're excited to announce that a new version of our software is coming soon. We don't have an exact release date yet. Thank you for your patience and support, we hope the new features will be valuable to you!"},
	},
	VersionTable: VersionTable{
		Label:  "Versions",
		Intro:  "Here is the current software version for each model:",
		Header: "Model | Version",
	},
}

const greetingEnUS = `How are you?
I'm with the {brand} Technical Support team and I'm here to help with whatever you need!
Just a moment while I check some information. 😊

Meanwhile, to speed things up, could you describe the problem or question you have? That way I can understand it better and solve it as quickly as possible. 😉

Looking forward to your message! 💬`

var (
	catalogs       = []*Catalog{catalogPtBR, catalogEnUS}
	catalogMatcher = language.NewMatcher([]language.Tag{catalogPtBR.Tag, catalogEnUS.Tag})
)

// CatalogFor picks the catalog closest to locale (a BCP 47 tag such as
// "pt-BR" or "en"). Unknown or malformed tags fall back to pt-BR.
func CatalogFor(locale string) *Catalog {
	tag, err := language.Parse(locale)
	if err != nil {
		return catalogPtBR
	}
	_, index, confidence := catalogMatcher.Match(tag)
	if confidence == language.No {
		return catalogPtBR
	}
	return catalogs[index]
}
