package reports

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Standard template columns. Name and Vendor Name drive matching; the
// optional columns are opaque payload echoed into the result artifacts.
var (
	RequiredColumns = []string{"Name", "Vendor Name"}
	OptionalColumns = []string{
		"Workflow Status",
		"Requester",
		"Reason for delay",
		"Created At",
		"Request Age",
		"Application Active/In Use?",
		"Vendor Account Manager Email Address",
	}
	AllColumns = append(append([]string{}, RequiredColumns...), OptionalColumns...)
)

// Result columns appended by the scan renderer.
const (
	ColumnAvailability = "Availability"
	ColumnMatchScore   = "Match Score %"
)

// Sheet is an ordered, header-addressed view of one worksheet. Headers
// are whitespace-trimmed at parse time; every row is padded to header
// width so positional access is always safe.
type Sheet struct {
	Headers []string
	Rows    [][]string
}

// ParseWorkbook reads the first worksheet of an xlsx document.
func ParseWorkbook(r io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("invalid Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, errors.New("workbook has no sheets")
	}
	raw, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("unable to read sheet: %w", err)
	}
	if len(raw) == 0 {
		return &Sheet{}, nil
	}

	headers := make([]string, len(raw[0]))
	for i, h := range raw[0] {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([][]string, 0, len(raw)-1)
	for _, r := range raw[1:] {
		row := make([]string, len(headers))
		for i := range headers {
			if i < len(r) {
				row[i] = r[i]
			}
		}
		rows = append(rows, row)
	}
	return &Sheet{Headers: headers, Rows: rows}, nil
}

// ColumnIndex returns the position of a header, or -1.
func (s *Sheet) ColumnIndex(name string) int {
	for i, h := range s.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at (row, header), or "" when the column is
// absent.
func (s *Sheet) Cell(row int, name string) string {
	i := s.ColumnIndex(name)
	if i < 0 {
		return ""
	}
	return s.Rows[row][i]
}

// Validate checks the standard template contract: both required columns
// present (after header trimming) and at most maxRows data rows.
func (s *Sheet) Validate(maxRows int) error {
	for _, col := range RequiredColumns {
		if s.ColumnIndex(col) < 0 {
			return fmt.Errorf("missing required column: %s", col)
		}
	}
	if len(s.Rows) > maxRows {
		return fmt.Errorf("maximum %d rows allowed", maxRows)
	}
	return nil
}
