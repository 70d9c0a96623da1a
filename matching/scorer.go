package matching

import (
	"math"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// vendorDiscount slightly demotes a vendor-only hit relative to a name
// hit: either signal can independently justify a strong match, so the
// two are never averaged.
const vendorDiscount = 0.95

// ratio is the full-string similarity on the 0-100 scale, with the
// empty-string edges pinned so they cannot depend on library internals:
// two empty strings are identical, one empty string matches nothing.
func ratio(a, b string) float64 {
	if a == "" && b == "" {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	return float64(fuzzy.Ratio(a, b))
}

// partialRatio is the best-aligned substring similarity, used for
// "query contained in name" matches (e.g. "Slack" vs "Slack Enterprise").
func partialRatio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	return float64(fuzzy.PartialRatio(a, b))
}

// tokenSetRatio is word-order independent (e.g. "Jira Software" vs
// "Software Jira").
func tokenSetRatio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	return float64(fuzzy.TokenSetRatio(a, b))
}

// ScoreQuery returns the 0-100 similarity of a free-text query against an
// inventory record. Exact name match wins outright (100), an exact vendor
// match nearly so (95); otherwise the best of full-string, partial and
// token-set similarity on the name competes with a discounted vendor
// overlap.
func ScoreQuery(query, candidateName, candidateVendor string) float64 {
	q := Normalize(query)
	if q == "" {
		return 0
	}
	name := Normalize(candidateName)
	vendor := Normalize(candidateVendor)
	if name == "" && vendor == "" {
		return 0
	}
	if q == name {
		return 100
	}
	if vendor != "" && q == vendor {
		return 95
	}

	var scoreName float64
	if name != "" {
		scoreName = math.Max(ratio(q, name), math.Max(partialRatio(q, name), tokenSetRatio(q, name)))
	}
	scoreVendor := partialRatio(q, vendor)

	return math.Max(scoreName, scoreVendor*vendorDiscount)
}

// ScoreRow is the bulk-scan similarity rule: the plain average of the
// name-vs-name and vendor-vs-vendor full-string ratios. Bulk rows are
// expected to supply both fields reliably, unlike free-text lookups, so
// the signals weigh equally. Intentionally different from ScoreQuery.
func ScoreRow(tool, vendor string, rec ToolRecord) float64 {
	t := ratio(Normalize(tool), Normalize(rec.Name))
	v := ratio(Normalize(vendor), Normalize(rec.Vendor))
	return (t + v) / 2
}
