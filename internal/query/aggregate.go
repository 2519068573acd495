package query

import "github.com/achyuthrachur/KYC-Analysis-Dashboard/internal/models"

// BucketCount is one entry of the per-bucket count view.
type BucketCount struct {
	Bucket models.ExpiryBucket `json:"bucket"`
	Count  int                 `json:"count"`
}

// RiskCount is one cell of the bucket-by-risk matrix.
type RiskCount struct {
	Risk  models.RiskRating `json:"risk"`
	Count int               `json:"count"`
}

// BucketRiskRow is one bucket's row of the bucket-by-risk matrix, with a
// cell for every canonical risk category.
type BucketRiskRow struct {
	Bucket models.ExpiryBucket `json:"bucket"`
	Counts []RiskCount         `json:"counts"`
}

// BucketCounts counts records per expiry bucket in canonical bucket order.
// Every bucket is present, zero-filled when empty; the counts sum to
// len(records).
func BucketCounts(records []models.KycRecord) []BucketCount {
	byBucket := make(map[models.ExpiryBucket]int, len(models.BucketOrder))
	for i := range records {
		byBucket[records[i].ExpiryBucket]++
	}
	out := make([]BucketCount, 0, len(models.BucketOrder))
	for _, b := range models.BucketOrder {
		out = append(out, BucketCount{Bucket: b, Count: byBucket[b]})
	}
	return out
}

// BucketByRisk cross-tabulates records over (expiry bucket, risk rating).
// The full bucket x risk cross product is materialized up front, so
// combinations absent from the data still appear as zero cells and the
// rendering layer gets consistent chart axes. All cells sum to
// len(records).
func BucketByRisk(records []models.KycRecord) []BucketRiskRow {
	type cell struct {
		bucket models.ExpiryBucket
		risk   models.RiskRating
	}
	counts := make(map[cell]int, len(models.BucketOrder)*len(models.RiskOrder))
	for _, b := range models.BucketOrder {
		for _, r := range models.RiskOrder {
			counts[cell{b, r}] = 0
		}
	}
	for i := range records {
		counts[cell{records[i].ExpiryBucket, records[i].RiskRating}]++
	}

	rows := make([]BucketRiskRow, 0, len(models.BucketOrder))
	for _, b := range models.BucketOrder {
		row := BucketRiskRow{Bucket: b, Counts: make([]RiskCount, 0, len(models.RiskOrder))}
		for _, r := range models.RiskOrder {
			row.Counts = append(row.Counts, RiskCount{Risk: r, Count: counts[cell{b, r}]})
		}
		rows = append(rows, row)
	}
	return rows
}
