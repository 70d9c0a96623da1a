package reports

import "github.com/toolhub/toolhub_backend/matching"

// Records converts a parsed inventory sheet into matching records. Every
// column, known or not, is carried in Fields so lookups can echo the
// full row back to the caller.
func Records(s *Sheet) []matching.ToolRecord {
	records := make([]matching.ToolRecord, 0, len(s.Rows))
	for row := range s.Rows {
		fields := make(map[string]string, len(s.Headers))
		for i, h := range s.Headers {
			fields[h] = s.Rows[row][i]
		}
		records = append(records, matching.ToolRecord{
			Name:   s.Cell(row, "Name"),
			Vendor: s.Cell(row, "Vendor Name"),
			Status: s.Cell(row, "Workflow Status"),
			Fields: fields,
		})
	}
	return records
}

// ScanRows extracts the two match-relevant fields per submitted row.
func ScanRows(s *Sheet) []matching.ScanRow {
	rows := make([]matching.ScanRow, 0, len(s.Rows))
	for row := range s.Rows {
		rows = append(rows, matching.ScanRow{
			Tool:   s.Cell(row, "Name"),
			Vendor: s.Cell(row, "Vendor Name"),
		})
	}
	return rows
}
