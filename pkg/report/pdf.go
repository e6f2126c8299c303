package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-pdf/fpdf"

	"github.com/getprecis/precis/pkg/models"
)

const (
	pageMarginMM   = 20.0
	bodyLineHeight = 6.0
)

// GeneratePDF renders a summary report as a PDF document.
func GeneratePDF(result *models.SummaryResult) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(pageMarginMM, pageMarginMM, pageMarginMM)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "Summary Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	generatedAt := result.CreatedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}

	pdf.SetFont("Helvetica", "", 10)
	writeMetaLine(pdf, "Generated", generatedAt.Format("2006-01-02 15:04:05"))
	writeMetaLine(pdf, "Original Words", humanize.Comma(int64(result.OriginalWordCount)))
	writeMetaLine(pdf, "Summary Words", humanize.Comma(int64(result.SummaryWordCount)))
	writeMetaLine(pdf, "Compression", fmt.Sprintf("%.1f%%", result.CompressionRatio*100))
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, bodyLineHeight, result.Summary, "", "L", false)
	pdf.Ln(4)

	if len(result.Entities) > 0 {
		writeEntityTable(pdf, result.Entities)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("error rendering pdf: %w", err)
	}

	return buf.Bytes(), nil
}

func writeMetaLine(pdf *fpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(40, bodyLineHeight, label+":", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, bodyLineHeight, value, "", 1, "L", false, 0, "")
}

func writeEntityTable(pdf *fpdf.Fpdf, entities []models.Entity) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Entities", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(100, bodyLineHeight, "Entity", "B", 0, "L", false, 0, "")
	pdf.CellFormat(0, bodyLineHeight, "Label", "B", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, entity := range entities {
		pdf.CellFormat(100, bodyLineHeight, entity.Name, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, bodyLineHeight, entity.Label, "", 1, "L", false, 0, "")
	}
}

// Filename returns a timestamped download name for the report.
func Filename(at time.Time) string {
	return fmt.Sprintf("summary_report_%s.pdf", at.Format("20060102_150405"))
}
