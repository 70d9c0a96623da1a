package matching

import (
	"math"
	"sort"
	"strings"
)

// MatchCandidate pairs an inventory record with the score that surfaced
// it. Candidates are transient; they are never persisted.
type MatchCandidate struct {
	Record ToolRecord
	Score  float64
}

// Engine answers single-tool lookups against an inventory snapshot.
// It is stateless apart from its thresholds and safe for concurrent use.
type Engine struct {
	cfg Thresholds
}

func NewEngine(cfg Thresholds) *Engine {
	return &Engine{cfg: cfg}
}

// Lookup returns candidates scoring at or above the found threshold,
// descending by score, ties broken by snapshot order, capped at
// MaxResults. A blank query or an empty snapshot yields no results and
// no error. When vendorFilter is supplied and the candidate carries a
// vendor, a weak vendor overlap demotes the candidate score to
// VendorMismatchCap instead of excluding it outright.
func (e *Engine) Lookup(query string, snap *Snapshot, vendorFilter string) []MatchCandidate {
	if strings.TrimSpace(query) == "" || snap.RowCount() == 0 {
		return nil
	}
	filter := Normalize(vendorFilter)

	var out []MatchCandidate
	for _, rec := range snap.Records {
		score := ScoreQuery(query, rec.Name, rec.Vendor)
		if filter != "" {
			if vendor := Normalize(rec.Vendor); vendor != "" {
				if partialRatio(filter, vendor) < e.cfg.VendorMatchMin {
					score = math.Min(score, e.cfg.VendorMismatchCap)
				}
			}
		}
		if score >= e.cfg.FoundThreshold {
			out = append(out, MatchCandidate{Record: rec, Score: score})
		}
	}
	return e.rank(out, e.cfg.MaxResults)
}

// Suggest returns the "did you mean" band [SuggestThreshold,
// FoundThreshold), for when Lookup comes back empty. It reuses the exact
// same scorer as Lookup so the two bands can never overlap or gap.
func (e *Engine) Suggest(query string, snap *Snapshot, limit int) []MatchCandidate {
	if strings.TrimSpace(query) == "" || snap.RowCount() == 0 {
		return nil
	}
	if limit <= 0 {
		limit = e.cfg.MaxSuggestions
	}

	var out []MatchCandidate
	for _, rec := range snap.Records {
		score := ScoreQuery(query, rec.Name, rec.Vendor)
		if score >= e.cfg.SuggestThreshold && score < e.cfg.FoundThreshold {
			out = append(out, MatchCandidate{Record: rec, Score: score})
		}
	}
	return e.rank(out, limit)
}

// rank sorts descending by score. The sort must be stable so equal
// scores keep snapshot order.
func (e *Engine) rank(cands []MatchCandidate, limit int) []MatchCandidate {
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Score > cands[j].Score
	})
	if len(cands) > limit {
		cands = cands[:limit]
	}
	return cands
}
