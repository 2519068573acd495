// Package models contains domain types for the KYC Expiry Dashboard.
package models

import (
	"strconv"
	"time"
)

// RiskRating is a customer's compliance risk category.
type RiskRating string

const (
	RiskHigh    RiskRating = "High"
	RiskMedium  RiskRating = "Medium"
	RiskLow     RiskRating = "Low"
	RiskUnknown RiskRating = "Unknown"
)

// RiskOrder is the canonical display order for risk categories.
// Aggregation output always covers every entry, zero-filled.
var RiskOrder = []RiskRating{RiskHigh, RiskMedium, RiskLow, RiskUnknown}

// ExpiryBucket is the upstream-assigned document expiry bucket.
type ExpiryBucket string

const (
	BucketExpired ExpiryBucket = "Expired"
	Bucket0To30   ExpiryBucket = "0-30 days"
	Bucket31To60  ExpiryBucket = "31-60 days"
	Bucket61To90  ExpiryBucket = "61-90 days"
	Bucket90Plus  ExpiryBucket = "90+ days"
)

// BucketOrder is the canonical display order for expiry buckets.
var BucketOrder = []ExpiryBucket{BucketExpired, Bucket0To30, Bucket31To60, Bucket61To90, Bucket90Plus}

// ParseRiskRating maps a raw upstream value onto the canonical risk set.
// Anything outside the set, including missing values, becomes Unknown.
func ParseRiskRating(raw string) RiskRating {
	switch RiskRating(raw) {
	case RiskHigh, RiskMedium, RiskLow, RiskUnknown:
		return RiskRating(raw)
	}
	return RiskUnknown
}

// ParseExpiryBucket maps a raw upstream value onto the canonical bucket set.
// The bucket set has no Unknown member; an unrecognized value lands in
// Expired so the record still surfaces in the most urgent category instead
// of vanishing from aggregations.
func ParseExpiryBucket(raw string) ExpiryBucket {
	switch ExpiryBucket(raw) {
	case BucketExpired, Bucket0To30, Bucket31To60, Bucket61To90, Bucket90Plus:
		return ExpiryBucket(raw)
	}
	return BucketExpired
}

// KycRecord is one customer's compliance snapshot row, fully normalized.
// DaysToExpiry and DocExpiryDate are nil when the upstream value could not
// be parsed; the record itself is never dropped for a bad field.
type KycRecord struct {
	CustomerID          string       `json:"customerId" msgpack:"customerId"`
	CustomerName        string       `json:"customerName" msgpack:"customerName"`
	RiskRating          RiskRating   `json:"riskRating" msgpack:"riskRating"`
	KycDocumentType     string       `json:"kycDocumentType" msgpack:"kycDocumentType"`
	DocExpiryDate       *time.Time   `json:"docExpiryDate" msgpack:"docExpiryDate"`
	DaysToExpiry        *int         `json:"daysToExpiry" msgpack:"daysToExpiry"`
	ExpiryBucket        ExpiryBucket `json:"expiryBucket" msgpack:"expiryBucket"`
	RelationshipManager string       `json:"relationshipManager" msgpack:"relationshipManager"`
}

// SearchFields returns the textual form of every field, in schema order.
// The free-text filter matches against all of these; unknown sentinels
// contribute an empty string and are therefore not searchable text.
func (r *KycRecord) SearchFields() []string {
	date := ""
	if r.DocExpiryDate != nil {
		date = r.DocExpiryDate.Format("2006-01-02")
	}
	days := ""
	if r.DaysToExpiry != nil {
		days = strconv.Itoa(*r.DaysToExpiry)
	}
	return []string{
		r.CustomerID,
		r.CustomerName,
		string(r.RiskRating),
		r.KycDocumentType,
		date,
		days,
		string(r.ExpiryBucket),
		r.RelationshipManager,
	}
}
