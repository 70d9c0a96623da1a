package reports

import (
	"bytes"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/toolhub/toolhub_backend/matching"
)

const pdfCellMaxChars = 50

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 1, 64)
}

func truncateCell(s string) string {
	if len(s) > pdfCellMaxChars {
		return s[:pdfCellMaxChars-3] + "..."
	}
	return s
}

// BuildScanResultPDF renders the same annotated result as the xlsx
// export in a landscape A4 table. verdicts must be positionally
// aligned with s.Rows.
func BuildScanResultPDF(s *Sheet, verdicts []matching.RowVerdict) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Tool Availability Scan Results", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	headers := append(append([]string{}, s.Headers...), ColumnAvailability, ColumnMatchScore)
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colW := (pageW - left - right) / float64(len(headers))

	pdf.SetFont("Arial", "B", 7)
	pdf.SetFillColor(221, 221, 221)
	for _, h := range headers {
		pdf.CellFormat(colW, 6, truncateCell(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 7)
	for row := range s.Rows {
		for i := range s.Headers {
			val := ""
			if i < len(s.Rows[row]) {
				val = s.Rows[row][i]
			}
			pdf.CellFormat(colW, 5, truncateCell(val), "1", 0, "L", false, 0, "")
		}
		switch verdicts[row].Availability {
		case matching.AvailabilityAvailable:
			pdf.SetFillColor(198, 239, 206)
		case matching.AvailabilityUnavailable:
			pdf.SetFillColor(255, 199, 206)
		default:
			pdf.SetFillColor(255, 235, 156)
		}
		pdf.CellFormat(colW, 5, string(verdicts[row].Availability), "1", 0, "C", true, 0, "")
		pdf.CellFormat(colW, 5, truncateCell(formatScore(verdicts[row].Score)), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
