package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"opsboard/internal/domain"
)

func renderPDF(rows []domain.Record, cols []domain.ColumnDefinition, dates map[string]bool) ([]byte, error) {
	header, body := tabulate(rows, cols, dates)

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colW := (pageW - left - right) / float64(len(header))
	const rowH = 7.0

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(221, 221, 221)
	for _, name := range header {
		pdf.CellFormat(colW, rowH, name, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(rowH)

	pdf.SetFont("Helvetica", "", 8)
	for _, line := range body {
		for _, value := range line {
			pdf.CellFormat(colW, rowH, value, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(rowH)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	return buf.Bytes(), nil
}
