package query

import (
	"testing"

	"github.com/achyuthrachur/KYC-Analysis-Dashboard/internal/models"
)

func TestBucketCountsOrderAndZeroFill(t *testing.T) {
	records := []models.KycRecord{
		{CustomerID: "C1", ExpiryBucket: models.Bucket0To30, RiskRating: models.RiskHigh},
		{CustomerID: "C2", ExpiryBucket: models.Bucket0To30, RiskRating: models.RiskLow},
		{CustomerID: "C3", ExpiryBucket: models.BucketExpired, RiskRating: models.RiskUnknown},
	}

	counts := BucketCounts(records)
	if len(counts) != len(models.BucketOrder) {
		t.Fatalf("Expected %d buckets, got %d", len(models.BucketOrder), len(counts))
	}
	for i, b := range models.BucketOrder {
		if counts[i].Bucket != b {
			t.Errorf("Expected bucket %s at position %d, got %s", b, i, counts[i].Bucket)
		}
	}

	byBucket := make(map[models.ExpiryBucket]int)
	total := 0
	for _, c := range counts {
		byBucket[c.Bucket] = c.Count
		total += c.Count
	}
	if total != len(records) {
		t.Errorf("Expected counts to sum to %d, got %d", len(records), total)
	}
	if byBucket[models.Bucket0To30] != 2 || byBucket[models.BucketExpired] != 1 {
		t.Errorf("Unexpected counts: %v", byBucket)
	}
	if byBucket[models.Bucket31To60] != 0 || byBucket[models.Bucket61To90] != 0 || byBucket[models.Bucket90Plus] != 0 {
		t.Errorf("Expected zero-filled empty buckets, got %v", byBucket)
	}
}

func TestBucketCountsEmpty(t *testing.T) {
	counts := BucketCounts(nil)
	if len(counts) != len(models.BucketOrder) {
		t.Fatalf("Expected full bucket list for empty input, got %d entries", len(counts))
	}
	for _, c := range counts {
		if c.Count != 0 {
			t.Errorf("Expected zero count for %s, got %d", c.Bucket, c.Count)
		}
	}
}

func TestBucketByRiskFullCrossProduct(t *testing.T) {
	// One record: the matrix must still contain every (bucket, risk) cell.
	records := []models.KycRecord{
		{CustomerID: "C1", ExpiryBucket: models.Bucket61To90, RiskRating: models.RiskMedium},
	}

	rows := BucketByRisk(records)
	if len(rows) != len(models.BucketOrder) {
		t.Fatalf("Expected %d rows, got %d", len(models.BucketOrder), len(rows))
	}

	cells := 0
	total := 0
	for i, row := range rows {
		if row.Bucket != models.BucketOrder[i] {
			t.Errorf("Expected row %d to be %s, got %s", i, models.BucketOrder[i], row.Bucket)
		}
		if len(row.Counts) != len(models.RiskOrder) {
			t.Fatalf("Expected %d cells per row, got %d", len(models.RiskOrder), len(row.Counts))
		}
		for j, cell := range row.Counts {
			if cell.Risk != models.RiskOrder[j] {
				t.Errorf("Expected cell %d to be %s, got %s", j, models.RiskOrder[j], cell.Risk)
			}
			cells++
			total += cell.Count

			want := 0
			if row.Bucket == models.Bucket61To90 && cell.Risk == models.RiskMedium {
				want = 1
			}
			if cell.Count != want {
				t.Errorf("Cell (%s, %s) = %d, want %d", row.Bucket, cell.Risk, cell.Count, want)
			}
		}
	}

	if cells != len(models.BucketOrder)*len(models.RiskOrder) {
		t.Errorf("Expected %d cells, got %d", len(models.BucketOrder)*len(models.RiskOrder), cells)
	}
	if total != len(records) {
		t.Errorf("Expected cells to sum to %d, got %d", len(records), total)
	}
}

func TestBucketByRiskSumsToRecordCount(t *testing.T) {
	records := []models.KycRecord{
		{ExpiryBucket: models.BucketExpired, RiskRating: models.RiskHigh},
		{ExpiryBucket: models.BucketExpired, RiskRating: models.RiskHigh},
		{ExpiryBucket: models.Bucket0To30, RiskRating: models.RiskUnknown},
		{ExpiryBucket: models.Bucket90Plus, RiskRating: models.RiskLow},
	}

	total := 0
	for _, row := range BucketByRisk(records) {
		for _, cell := range row.Counts {
			total += cell.Count
		}
	}
	if total != len(records) {
		t.Errorf("Expected %d, got %d", len(records), total)
	}
}

func TestAggregationIgnoresSentinelFields(t *testing.T) {
	// Records with unknown days/date aggregate normally; bucket and risk
	// are independent fields.
	records := []models.KycRecord{
		{ExpiryBucket: models.BucketExpired, RiskRating: models.RiskHigh, DaysToExpiry: nil, DocExpiryDate: nil},
	}

	counts := BucketCounts(records)
	if counts[0].Count != 1 {
		t.Errorf("Expected sentinel record to be counted, got %d", counts[0].Count)
	}
}

func TestEndToEndFilterThenAggregate(t *testing.T) {
	records := []models.KycRecord{
		{CustomerID: "C1", RelationshipManager: "Aarav", ExpiryBucket: models.BucketExpired, RiskRating: models.RiskHigh},
		{CustomerID: "C2", RelationshipManager: "Johnson", ExpiryBucket: models.Bucket0To30, RiskRating: models.RiskUnknown},
	}

	filtered := Filter(records, ManagerAll, "aarav")
	if len(filtered) != 1 || filtered[0].CustomerID != "C1" {
		t.Fatalf("Expected exactly the first record, got %v", filtered)
	}

	counts := BucketCounts(filtered)
	want := map[models.ExpiryBucket]int{
		models.BucketExpired: 1,
		models.Bucket0To30:   0,
		models.Bucket31To60:  0,
		models.Bucket61To90:  0,
		models.Bucket90Plus:  0,
	}
	for _, c := range counts {
		if c.Count != want[c.Bucket] {
			t.Errorf("Bucket %s = %d, want %d", c.Bucket, c.Count, want[c.Bucket])
		}
	}
}
