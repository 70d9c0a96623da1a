package reports

import (
	"bytes"
	"encoding/csv"
	"sort"
)

// canonicalOrder fixes the column order for hashing: the required
// columns first (when present), then every remaining header sorted. Two
// uploads holding the same logical rows therefore hash identically no
// matter how the source workbook orders its columns.
func canonicalOrder(headers []string) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}

	var order []string
	taken := make(map[string]bool, len(headers))
	for _, col := range RequiredColumns {
		if present[col] {
			order = append(order, col)
			taken[col] = true
		}
	}
	var rest []string
	for _, h := range headers {
		if !taken[h] {
			rest = append(rest, h)
			taken[h] = true
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

// CanonicalCSV serializes the sheet into the deterministic CSV form the
// result cache hashes. Cell values are carried verbatim: the hash is
// intentionally whitespace-sensitive, only column ordering is
// canonicalized.
func CanonicalCSV(s *Sheet) ([]byte, error) {
	order := canonicalOrder(s.Headers)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(order); err != nil {
		return nil, err
	}
	record := make([]string, len(order))
	for row := range s.Rows {
		for i, col := range order {
			record[i] = s.Cell(row, col)
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
