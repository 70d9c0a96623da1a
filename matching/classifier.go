package matching

import "math"

// Availability is the per-row verdict of a bulk scan. Requires further
// review is the designed fallback for missing or ambiguous data; it is a
// first-class outcome, not an error.
type Availability string

const (
	AvailabilityAvailable   Availability = "Available"
	AvailabilityUnavailable Availability = "Unavailable"
	AvailabilityReview      Availability = "Requires further review"
)

// ScanRow is one submitted row of a bulk scan: the two match-relevant
// fields. The remaining columns ride along outside the classifier.
type ScanRow struct {
	Tool   string
	Vendor string
}

// RowVerdict is the outcome for one scan row: the availability verdict
// plus the best-match score that produced it, rounded to one decimal.
type RowVerdict struct {
	Availability Availability
	Score        float64
}

// Classifier assigns availability verdicts to scan rows against an
// inventory snapshot. Stateless and safe for concurrent use.
type Classifier struct {
	cfg Thresholds
}

func NewClassifier(cfg Thresholds) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify annotates every row independently with its verdict. An empty
// (or nil, i.e. unloadable) snapshot resolves every row as review with
// score 0: no data is not evidence of non-existence, so rows must never
// silently come back Unavailable. Each row is a full scan over the
// snapshot; at the supported scale (10k inventory x 5k scan rows) the
// brute force beats maintaining an index.
func (c *Classifier) Classify(rows []ScanRow, snap *Snapshot) []RowVerdict {
	verdicts := make([]RowVerdict, len(rows))
	if snap.RowCount() == 0 {
		for i := range verdicts {
			verdicts[i] = RowVerdict{Availability: AvailabilityReview, Score: 0}
		}
		return verdicts
	}
	for i, row := range rows {
		verdicts[i] = c.classifyRow(row, snap)
	}
	return verdicts
}

func (c *Classifier) classifyRow(row ScanRow, snap *Snapshot) RowVerdict {
	if Normalize(row.Tool) == "" && Normalize(row.Vendor) == "" {
		return RowVerdict{Availability: AvailabilityReview, Score: 0}
	}

	var best float64
	for _, rec := range snap.Records {
		if s := ScoreRow(row.Tool, row.Vendor, rec); s > best {
			best = s
		}
	}
	best = math.Round(best*10) / 10

	switch {
	case best >= c.cfg.AvailableThreshold:
		return RowVerdict{Availability: AvailabilityAvailable, Score: best}
	case best >= c.cfg.ReviewThreshold:
		return RowVerdict{Availability: AvailabilityReview, Score: best}
	default:
		return RowVerdict{Availability: AvailabilityUnavailable, Score: best}
	}
}
