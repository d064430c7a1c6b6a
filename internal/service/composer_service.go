package service

import (
	"regexp"
	"strings"

	"github.com/Raymond9734/support-protocol-desk/internal/models"
)

// Bidi isolation marks keep the digits of a phone number in order when the
// message is shown by a right-to-left aware renderer.
const (
	leftToRightEmbedding = "\u202a"
	popDirectional       = "\u202c"
)

var blankLinesPattern = regexp.MustCompile(`\n\s*\n`)

// CollapseBlankLines replaces every run of blank lines with a single newline.
// Applying it twice gives the same result as applying it once.
func CollapseBlankLines(s string) string {
	return blankLinesPattern.ReplaceAllString(s, "\n")
}

// FinalizeMessage trims s and collapses its blank lines
func FinalizeMessage(s string) string {
	return strings.TrimSpace(CollapseBlankLines(strings.TrimSpace(s)))
}

// MessageComposer renders the protocol summary message
type MessageComposer interface {
	ComposeProtocolMessage(record *models.IntakeRecord, triageText, protocolID, defaultPhone string) string
	Catalog() *Catalog
}

// ComposerConfig carries the wording that varies per deployment
type ComposerConfig struct {
	Brand       string
	ChannelName string
	Locale      string
}

type messageComposer struct {
	cfg         ComposerConfig
	catalog     *Catalog
	templateSvc TemplateService
}

// NewMessageComposer creates a composer for cfg.Locale
func NewMessageComposer(cfg ComposerConfig, templateSvc TemplateService) MessageComposer {
	return &messageComposer{
		cfg:         cfg,
		catalog:     CatalogFor(cfg.Locale),
		templateSvc: templateSvc,
	}
}

// Catalog returns the locale catalog the composer writes with
func (c *messageComposer) Catalog() *Catalog {
	return c.catalog
}

// ComposeProtocolMessage renders the summary sent to the support channel.
// The analysis block is only written when triageText is non-empty.
func (c *messageComposer) ComposeProtocolMessage(record *models.IntakeRecord, triageText, protocolID, defaultPhone string) string {
	purchaseDate := ""
	if d, ok := record.PurchaseDateValue(); ok {
		purchaseDate = d.Format()
	}

	fields := map[string]string{
		"brand":          c.cfg.Brand,
		"channel":        c.cfg.ChannelName,
		"customer_name":  record.CustomerName,
		"customer_phone": record.CustomerPhone,
		"customer_type":  c.catalog.CustomerTypeLabel(record.CustomerType),
		"store_name":     record.StoreName,
		"purchase_date":  purchaseDate,
		"warranty":       c.catalog.WarrantyLabel(record.WarrantyStatus),
		"console_model":  record.ConsoleModel,
		"defect":         record.DefectDescription,
		"support_phone":  leftToRightEmbedding + defaultPhone + popDirectional,
		"protocol_id":    protocolID,
		"triage":         triageText,
	}

	// fields is never nil, so Render cannot fail
	text, _ := c.templateSvc.Render(c.catalog.ProtocolTemplate, fields)
	if triageText != "" {
		analysis, _ := c.templateSvc.Render(c.catalog.AnalysisTemplate, fields)
		text += analysis
	}

	return FinalizeMessage(text)
}
