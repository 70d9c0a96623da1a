package matching

import (
	"fmt"
	"testing"
)

func testSnapshot(records ...ToolRecord) *Snapshot {
	return &Snapshot{Version: 1, Records: records}
}

func TestLookupExactMatch(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	snap := testSnapshot(
		ToolRecord{Name: "Slack", Vendor: "Salesforce"},
		ToolRecord{Name: "Zoom", Vendor: "Zoom Video"},
	)

	got := e.Lookup("slack", snap, "")
	if len(got) != 1 {
		t.Fatalf("Lookup returned %d candidates, want 1", len(got))
	}
	if got[0].Score != 100 {
		t.Fatalf("exact match score = %v, want 100", got[0].Score)
	}
	if got[0].Record.Name != "Slack" {
		t.Fatalf("matched record = %q, want Slack", got[0].Record.Name)
	}
}

func TestLookupNearMissStaysInFoundBand(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	snap := testSnapshot(ToolRecord{Name: "Slack", Vendor: "Salesforce"})

	got := e.Lookup("Slac", snap, "")
	if len(got) != 1 {
		t.Fatalf("Lookup(Slac) returned %d candidates, want 1", len(got))
	}
	if got[0].Score < 75 {
		t.Fatalf("Lookup(Slac) score = %v, want >= 75", got[0].Score)
	}
}

func TestLookupBlankQueryAndEmptySnapshot(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	snap := testSnapshot(ToolRecord{Name: "Slack"})

	if got := e.Lookup("   ", snap, ""); got != nil {
		t.Fatalf("blank query returned %d candidates, want none", len(got))
	}
	if got := e.Lookup("Slack", testSnapshot(), ""); got != nil {
		t.Fatalf("empty snapshot returned %d candidates, want none", len(got))
	}
	if got := e.Lookup("Slack", nil, ""); got != nil {
		t.Fatalf("nil snapshot returned %d candidates, want none", len(got))
	}
}

func TestLookupCapsResults(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	var records []ToolRecord
	for i := 0; i < 30; i++ {
		records = append(records, ToolRecord{
			Name:   "Slack",
			Vendor: "Salesforce",
			Fields: map[string]string{"Requester": fmt.Sprintf("user-%d", i)},
		})
	}

	got := e.Lookup("Slack", testSnapshot(records...), "")
	if len(got) != 15 {
		t.Fatalf("Lookup returned %d candidates, want capped at 15", len(got))
	}
	// Equal scores keep snapshot order (stable sort).
	for i, c := range got {
		want := fmt.Sprintf("user-%d", i)
		if c.Record.Fields["Requester"] != want {
			t.Fatalf("candidate %d = %q, want %q (snapshot order)", i, c.Record.Fields["Requester"], want)
		}
	}
}

func TestLookupVendorFilterDemotes(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	snap := testSnapshot(ToolRecord{Name: "Slack", Vendor: "Salesforce"})

	// Without the filter this is a perfect hit.
	if got := e.Lookup("Slack", snap, ""); len(got) != 1 {
		t.Fatalf("unfiltered lookup returned %d candidates, want 1", len(got))
	}
	// A clearly mismatched vendor filter caps the score at 40, dropping
	// the candidate below the found threshold.
	if got := e.Lookup("Slack", snap, "Zoom Video"); len(got) != 0 {
		t.Fatalf("mismatched vendor filter returned %d candidates, want 0", len(got))
	}
}

func TestLookupVendorFilterIgnoredForBlankVendor(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	snap := testSnapshot(ToolRecord{Name: "Slack", Vendor: ""})

	// The inventory vendor field may be incomplete; a filter must not
	// demote records that carry no vendor at all.
	if got := e.Lookup("Slack", snap, "Zoom Video"); len(got) != 1 {
		t.Fatalf("filter demoted vendor-less record: %d candidates, want 1", len(got))
	}
}

func TestSuggestBand(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	snap := testSnapshot(
		ToolRecord{Name: "Sunday", Vendor: ""},
		ToolRecord{Name: "Slack", Vendor: "Salesforce"},
	)

	// "monday" vs "sunday" lands between the suggest and found
	// thresholds: a did-you-mean, not a hit.
	if got := e.Lookup("monday", snap, ""); len(got) != 0 {
		t.Fatalf("Lookup(monday) returned %d candidates, want 0", len(got))
	}
	got := e.Suggest("monday", snap, 0)
	if len(got) != 1 {
		t.Fatalf("Suggest(monday) returned %d candidates, want 1", len(got))
	}
	if got[0].Record.Name != "Sunday" {
		t.Fatalf("suggestion = %q, want Sunday", got[0].Record.Name)
	}
	if got[0].Score < 50 || got[0].Score >= 75 {
		t.Fatalf("suggestion score = %v, want in [50, 75)", got[0].Score)
	}
}

func TestSuggestEmptyForUnrelatedQuery(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	snap := testSnapshot(ToolRecord{Name: "Slack", Vendor: "Salesforce"})

	if got := e.Lookup("Zoom", snap, ""); len(got) != 0 {
		t.Fatalf("Lookup(Zoom) returned %d candidates, want 0", len(got))
	}
	if got := e.Suggest("Zoom", snap, 0); len(got) != 0 {
		t.Fatalf("Suggest(Zoom) returned %d candidates, want 0", len(got))
	}
}

func TestSuggestLimit(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	var records []ToolRecord
	for i := 0; i < 10; i++ {
		records = append(records, ToolRecord{Name: "Sunday"})
	}

	got := e.Suggest("monday", testSnapshot(records...), 0)
	if len(got) != 5 {
		t.Fatalf("Suggest returned %d candidates, want default limit 5", len(got))
	}
	got = e.Suggest("monday", testSnapshot(records...), 3)
	if len(got) != 3 {
		t.Fatalf("Suggest returned %d candidates, want explicit limit 3", len(got))
	}
}
