package service

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Raymond9734/support-protocol-desk/internal/models"
)

// Export content types
const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

const utf8BOM = "\ufeff"

// ExportService renders a single intake as a downloadable file
type ExportService interface {
	Export(record models.IntakeRecord, format string) (*ExportFile, error)
}

type exportService struct {
	catalog *Catalog
	logger  *slog.Logger
}

// NewExportService creates an export service writing in locale's wording
func NewExportService(locale string, logger *slog.Logger) ExportService {
	return &exportService{
		catalog: CatalogFor(locale),
		logger:  logger,
	}
}

// Export renders record as CSV or XLSX. A record with neither a name nor a
// phone is rejected.
func (s *exportService) Export(record models.IntakeRecord, format string) (*ExportFile, error) {
	record.Normalize()
	if record.CustomerName == "" && record.CustomerPhone == "" {
		return nil, models.ErrInvalidInput("fill in the customer name or phone before exporting")
	}

	switch strings.ToLower(format) {
	case "", ExportFormatCSV:
		return s.exportCSV(record), nil
	case ExportFormatXLSX:
		return s.exportXLSX(record)
	default:
		return nil, models.ErrInvalidInput(fmt.Sprintf("invalid export format: %s (must be 'csv' or 'xlsx')", format))
	}
}

func (s *exportService) row(record models.IntakeRecord) []string {
	purchaseDate := ""
	if d, ok := record.PurchaseDateValue(); ok {
		purchaseDate = d.Format()
	}
	return []string{
		record.CustomerName,
		record.CustomerPhone,
		s.catalog.CustomerTypeLabel(record.CustomerType),
		record.StoreName,
		purchaseDate,
		s.catalog.WarrantyLabel(record.WarrantyStatus),
		record.ConsoleModel,
		record.DefectDescription,
	}
}

// exportCSV writes a BOM, the bare header line and one data line with every
// field quoted.
func (s *exportService) exportCSV(record models.IntakeRecord) *ExportFile {
	fields := s.row(record)
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}

	content := utf8BOM + strings.Join(s.catalog.ExportHeaders, ",") + "\n" + strings.Join(quoted, ",")

	return &ExportFile{
		Filename:    s.filename(record.CustomerName, ExportFormatCSV),
		ContentType: ContentTypeCSV,
		Data:        []byte(content),
	}
}

func (s *exportService) exportXLSX(record models.IntakeRecord) (*ExportFile, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := s.catalog.ExportSheet
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range s.catalog.ExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for i, value := range s.row(record) {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheet, col+"2", value)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(s.catalog.ExportHeaders))
	f.SetColWidth(sheet, "A", lastCol, 20)

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("failed to write xlsx export", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to write xlsx: %w", err)
	}

	return &ExportFile{
		Filename:    s.filename(record.CustomerName, ExportFormatXLSX),
		ContentType: ContentTypeXLSX,
		Data:        bytes.Clone(buf.Bytes()),
	}, nil
}

// filename replaces everything but ASCII letters and digits in name with "_"
// and lowercases the result
func (s *exportService) filename(name, ext string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case 'a' <= r && r <= 'z', '0' <= r && r <= '9':
			b.WriteRune(r)
		case 'A' <= r && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteByte('_')
		}
	}

	safe := b.String()
	if safe == "" {
		safe = s.catalog.ExportFallback
	}
	return s.catalog.ExportFilePrefix + safe + "." + ext
}
