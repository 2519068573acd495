package models

import (
	"testing"
	"time"
)

func TestParseRiskRating(t *testing.T) {
	cases := map[string]RiskRating{
		"High":     RiskHigh,
		"Medium":   RiskMedium,
		"Low":      RiskLow,
		"Unknown":  RiskUnknown,
		"":         RiskUnknown,
		"Critical": RiskUnknown,
		"high":     RiskUnknown, // upstream values are exact-case
	}
	for raw, want := range cases {
		if got := ParseRiskRating(raw); got != want {
			t.Errorf("ParseRiskRating(%q) = %s, want %s", raw, got, want)
		}
	}
}

func TestParseExpiryBucket(t *testing.T) {
	for _, b := range BucketOrder {
		if got := ParseExpiryBucket(string(b)); got != b {
			t.Errorf("ParseExpiryBucket(%q) = %s, want %s", b, got, b)
		}
	}
	for _, raw := range []string{"", "someday", "0-30"} {
		if got := ParseExpiryBucket(raw); got != BucketExpired {
			t.Errorf("ParseExpiryBucket(%q) = %s, want %s", raw, got, BucketExpired)
		}
	}
}

func TestSearchFieldsSchemaOrder(t *testing.T) {
	expiry := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	days := 42
	rec := KycRecord{
		CustomerID:          "CUST-001",
		CustomerName:        "Acme Corp",
		RiskRating:          RiskHigh,
		KycDocumentType:     "passport",
		DocExpiryDate:       &expiry,
		DaysToExpiry:        &days,
		ExpiryBucket:        Bucket31To60,
		RelationshipManager: "Aarav",
	}

	want := []string{"CUST-001", "Acme Corp", "High", "passport", "2024-06-01", "42", "31-60 days", "Aarav"}
	got := rec.SearchFields()
	if len(got) != len(want) {
		t.Fatalf("Expected %d fields, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Field %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSearchFieldsNilSentinels(t *testing.T) {
	rec := KycRecord{CustomerID: "CUST-002", RiskRating: RiskUnknown, ExpiryBucket: BucketExpired}

	fields := rec.SearchFields()
	if fields[4] != "" || fields[5] != "" {
		t.Errorf("Expected empty strings for nil date/days, got %q and %q", fields[4], fields[5])
	}
}

func TestSnapshotManagersFromTabs(t *testing.T) {
	s := &Snapshot{
		ManagerTabs: []string{"Zoe", "Aarav"},
		Records:     []KycRecord{{RelationshipManager: "Johnson"}},
	}
	got := s.Managers()
	if len(got) != 2 || got[0] != "Zoe" || got[1] != "Aarav" {
		t.Errorf("Expected tab list verbatim, got %v", got)
	}
}

func TestSnapshotManagersDerivedFromRecords(t *testing.T) {
	s := &Snapshot{Records: []KycRecord{
		{RelationshipManager: "Johnson"},
		{RelationshipManager: "Aarav"},
		{RelationshipManager: "Johnson"},
		{RelationshipManager: ""},
	}}
	got := s.Managers()
	if len(got) != 2 || got[0] != "Aarav" || got[1] != "Johnson" {
		t.Errorf("Expected sorted distinct managers, got %v", got)
	}
}

func TestEmptySnapshot(t *testing.T) {
	s := EmptySnapshot()
	if !s.Missing {
		t.Error("Expected Missing to be set")
	}
	if s.Records == nil || len(s.Records) != 0 {
		t.Errorf("Expected non-nil empty record slice, got %v", s.Records)
	}
}
