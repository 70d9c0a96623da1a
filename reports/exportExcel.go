package reports

import (
	"fmt"

	"github.com/toolhub/toolhub_backend/matching"
	"github.com/xuri/excelize/v2"
)

const resultSheetName = "Sheet1"

// Verdict fill colors, matching the report template users already know:
// green for available, red for unavailable, yellow for review.
const (
	fillHeader      = "DDDDDD"
	fillAvailable   = "C6EFCE"
	fillUnavailable = "FFC7CE"
	fillReview      = "FFEB9C"
)

func fillStyle(f *excelize.File, color string, bold bool) (int, error) {
	style := &excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
	}
	if bold {
		style.Font = &excelize.Font{Bold: true}
	}
	return f.NewStyle(style)
}

// BuildScanResultWorkbook renders the annotated scan result: the
// submitted rows in their original column order plus the Availability
// and Match Score % columns, with the verdict cells color-coded.
// verdicts must be positionally aligned with s.Rows.
func BuildScanResultWorkbook(s *Sheet, verdicts []matching.RowVerdict) (*excelize.File, error) {
	if len(verdicts) != len(s.Rows) {
		return nil, fmt.Errorf("verdict count %d does not match row count %d", len(verdicts), len(s.Rows))
	}

	f := excelize.NewFile()
	headers := append(append([]string{}, s.Headers...), ColumnAvailability, ColumnMatchScore)

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(resultSheetName, cell, h); err != nil {
			return nil, err
		}
	}
	headerStyle, err := fillStyle(f, fillHeader, true)
	if err != nil {
		return nil, err
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(resultSheetName, "A1", lastHeader, headerStyle); err != nil {
		return nil, err
	}

	availableStyle, err := fillStyle(f, fillAvailable, false)
	if err != nil {
		return nil, err
	}
	unavailableStyle, err := fillStyle(f, fillUnavailable, false)
	if err != nil {
		return nil, err
	}
	reviewStyle, err := fillStyle(f, fillReview, false)
	if err != nil {
		return nil, err
	}

	availabilityCol := len(s.Headers) + 1
	scoreCol := len(s.Headers) + 2
	for row := range s.Rows {
		for i, v := range s.Rows[row] {
			cell, err := excelize.CoordinatesToCellName(i+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(resultSheetName, cell, v); err != nil {
				return nil, err
			}
		}

		verdictCell, err := excelize.CoordinatesToCellName(availabilityCol, row+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(resultSheetName, verdictCell, string(verdicts[row].Availability)); err != nil {
			return nil, err
		}
		style := reviewStyle
		switch verdicts[row].Availability {
		case matching.AvailabilityAvailable:
			style = availableStyle
		case matching.AvailabilityUnavailable:
			style = unavailableStyle
		}
		if err := f.SetCellStyle(resultSheetName, verdictCell, verdictCell, style); err != nil {
			return nil, err
		}

		scoreCell, err := excelize.CoordinatesToCellName(scoreCol, row+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(resultSheetName, scoreCell, verdicts[row].Score); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// BuildTemplateWorkbook produces the empty standard template users
// download before their first upload.
func BuildTemplateWorkbook() (*excelize.File, error) {
	f := excelize.NewFile()
	for i, h := range AllColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(resultSheetName, cell, h); err != nil {
			return nil, err
		}
	}
	headerStyle, err := fillStyle(f, fillHeader, true)
	if err != nil {
		return nil, err
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(AllColumns), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(resultSheetName, "A1", lastHeader, headerStyle); err != nil {
		return nil, err
	}
	return f, nil
}
