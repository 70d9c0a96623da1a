package matching

import (
	"reflect"
	"testing"
)

func TestClassifyEmptySnapshotAllReview(t *testing.T) {
	c := NewClassifier(DefaultThresholds())
	rows := []ScanRow{
		{Tool: "Slack", Vendor: "Salesforce"},
		{Tool: "Zoom", Vendor: "Zoom Video"},
	}

	for _, snap := range []*Snapshot{nil, testSnapshot()} {
		verdicts := c.Classify(rows, snap)
		if len(verdicts) != len(rows) {
			t.Fatalf("got %d verdicts, want %d", len(verdicts), len(rows))
		}
		for i, v := range verdicts {
			if v.Availability != AvailabilityReview || v.Score != 0 {
				t.Fatalf("row %d = %+v, want review with score 0 (no data is not evidence of non-existence)", i, v)
			}
		}
	}
}

func TestClassifyBlankRow(t *testing.T) {
	c := NewClassifier(DefaultThresholds())
	snap := testSnapshot(ToolRecord{Name: "Slack", Vendor: "Salesforce"})

	verdicts := c.Classify([]ScanRow{{Tool: "  ", Vendor: ""}}, snap)
	if verdicts[0].Availability != AvailabilityReview || verdicts[0].Score != 0 {
		t.Fatalf("blank row = %+v, want review with score 0", verdicts[0])
	}
}

func TestClassifyThresholds(t *testing.T) {
	c := NewClassifier(DefaultThresholds())
	snap := testSnapshot(
		ToolRecord{Name: "Slack", Vendor: "Salesforce"},
		ToolRecord{Name: "Microsoft Teams", Vendor: "Microsoft"},
	)

	verdicts := c.Classify([]ScanRow{
		{Tool: "Slack", Vendor: "Salesforce"},   // perfect: available
		{Tool: "Slack", Vendor: "Qqq"},          // name only: half score
		{Tool: "Xxxxx", Vendor: "Yyyyy"},        // nothing close
	}, snap)

	if verdicts[0].Availability != AvailabilityAvailable || verdicts[0].Score != 100 {
		t.Fatalf("perfect row = %+v, want Available 100", verdicts[0])
	}
	if verdicts[1].Availability != AvailabilityUnavailable {
		t.Fatalf("half-match row = %+v, want Unavailable (averaged signals)", verdicts[1])
	}
	if verdicts[2].Availability != AvailabilityUnavailable {
		t.Fatalf("unrelated row = %+v, want Unavailable", verdicts[2])
	}
}

func TestClassifyUsesBestRecord(t *testing.T) {
	c := NewClassifier(DefaultThresholds())
	snap := testSnapshot(
		ToolRecord{Name: "Totally Different", Vendor: "Nobody"},
		ToolRecord{Name: "Slack", Vendor: "Salesforce"},
	)

	verdicts := c.Classify([]ScanRow{{Tool: "Slack", Vendor: "Salesforce"}}, snap)
	if verdicts[0].Availability != AvailabilityAvailable || verdicts[0].Score != 100 {
		t.Fatalf("best-match row = %+v, want Available 100", verdicts[0])
	}
}

func TestClassifyIdempotent(t *testing.T) {
	c := NewClassifier(DefaultThresholds())
	snap := testSnapshot(
		ToolRecord{Name: "Slack", Vendor: "Salesforce"},
		ToolRecord{Name: "Jira Software", Vendor: "Atlassian"},
	)
	rows := []ScanRow{
		{Tool: "Slack", Vendor: "Salesforce"},
		{Tool: "Jira", Vendor: "Atlassian"},
		{Tool: "", Vendor: "Atlassian"},
	}

	first := c.Classify(rows, snap)
	second := c.Classify(rows, snap)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("classification not idempotent:\n%+v\n%+v", first, second)
	}
}

func TestClassifyScoreRounding(t *testing.T) {
	c := NewClassifier(DefaultThresholds())
	snap := testSnapshot(ToolRecord{Name: "Slack", Vendor: "Salesforce"})

	verdicts := c.Classify([]ScanRow{{Tool: "Slack", Vendor: "Qqq"}}, snap)
	score := verdicts[0].Score
	if score != float64(int(score*10))/10 {
		t.Fatalf("score %v not rounded to one decimal place", score)
	}
}

func TestClassifyConfigurableThresholds(t *testing.T) {
	cfg := DefaultThresholds()
	cfg.AvailableThreshold = 40
	cfg.ReviewThreshold = 20
	c := NewClassifier(cfg)
	snap := testSnapshot(ToolRecord{Name: "Slack", Vendor: "Salesforce"})

	// A name-only half match (~50) clears the lowered available bar.
	verdicts := c.Classify([]ScanRow{{Tool: "Slack", Vendor: "Qqq"}}, snap)
	if verdicts[0].Availability != AvailabilityAvailable {
		t.Fatalf("lowered thresholds: %+v, want Available", verdicts[0])
	}
}
